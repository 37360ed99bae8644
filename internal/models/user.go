// internal/models/user.go
package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Name         string     `json:"name" gorm:"size:100;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Phone        string     `json:"phone" gorm:"size:20"`
	UserType     UserType   `json:"user_type" gorm:"type:varchar(20);default:'customer';not null"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`

	// Relationships
	SellerProfile *SellerProfile `json:"seller_profile,omitempty" gorm:"foreignKey:UserID"`
	Orders        []Order        `json:"orders,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsSeller() bool {
	return u.UserType == UserTypeSeller
}

type SellerProfile struct {
	BaseModel
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	BusinessName string    `json:"business_name" gorm:"size:255;not null"`
	About        string    `json:"about" gorm:"type:text"`
	Address      string    `json:"address" gorm:"type:text;not null"`
	Phone        string    `json:"phone" gorm:"size:20"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
