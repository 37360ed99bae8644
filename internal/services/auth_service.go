// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/novamart/marketplace-backend/internal/apperrors"
	"github.com/novamart/marketplace-backend/internal/config"
	"github.com/novamart/marketplace-backend/internal/models"
	"github.com/novamart/marketplace-backend/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
}

type SellerApplicationRequest struct {
	BusinessName string `json:"business_name" validate:"required,min=3,max=255"`
	About        string `json:"about"`
	Address      string `json:"address" validate:"required"`
	Phone        string `json:"phone" validate:"required,phone"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

type AgentAuthResponse struct {
	Agent       *models.DeliveryAgent `json:"agent"`
	AccessToken string                `json:"access_token"`
	TokenType   string                `json:"token_type"`
	ExpiresIn   int                   `json:"expires_in"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func firstValidationMessage(err error) string {
	if messages := utils.GetValidationErrors(err); len(messages) > 0 {
		return messages[0].Message
	}
	return err.Error()
}

// Register creates a customer account and logs it in.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, firstValidationMessage(err))
	}

	var existingUser models.User
	if err := s.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return nil, apperrors.Validationf("user with this email already exists")
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		UserType: models.UserTypeCustomer,
		Status:   models.UserStatusActive,
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, firstValidationMessage(err))
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status == models.UserStatusSuspended {
		return nil, errors.New("account is suspended")
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return s.issueTokens(&user)
}

// AdminLogin is Login restricted to admin accounts.
func (s *AuthService) AdminLogin(req *LoginRequest) (*AuthResponse, error) {
	resp, err := s.Login(req)
	if err != nil {
		return nil, err
	}
	if resp.User.UserType != models.UserTypeAdmin {
		return nil, errors.New("invalid email or password")
	}
	return resp, nil
}

// DeliveryLogin authenticates against the delivery agent roster and
// issues an agent-scoped token.
func (s *AuthService) DeliveryLogin(req *LoginRequest) (*AgentAuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, firstValidationMessage(err))
	}

	var agent models.DeliveryAgent
	if err := s.db.Where("email = ?", req.Email).First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := agent.CheckPassword(req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	accessToken, err := utils.GenerateJWT(agent.ID, agent.Name, string(models.UserTypeDelivery), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AgentAuthResponse{
		Agent:       &agent,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}

// ApplySeller flips a customer account into a seller and creates the
// seller profile in the same transaction. The caller must re-issue the
// token since the user type inside it changed.
func (s *AuthService) ApplySeller(userID uuid.UUID, req *SellerApplicationRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, firstValidationMessage(err))
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("user not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if user.IsSeller() {
			return apperrors.Validationf("you are already a seller")
		}
		if user.UserType != models.UserTypeCustomer {
			return fmt.Errorf("%w: only customer accounts can become sellers", apperrors.ErrForbidden)
		}

		profile := &models.SellerProfile{
			UserID:       user.ID,
			BusinessName: req.BusinessName,
			About:        req.About,
			Address:      req.Address,
			Phone:        req.Phone,
		}
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create seller profile: %w", err)
		}

		if err := tx.Model(&user).Update("user_type", models.UserTypeSeller).Error; err != nil {
			return fmt.Errorf("failed to update user type: %w", err)
		}
		user.UserType = models.UserTypeSeller
		user.SellerProfile = profile

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issueTokens(&user)
}

func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status != models.UserStatusActive {
		return nil, errors.New("account is not active")
	}

	return s.issueTokens(&user)
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("SellerProfile").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Name, string(user.UserType), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}
