// internal/services/notification_service.go
package services

import (
	"fmt"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/novamart/marketplace-backend/internal/config"
	"github.com/novamart/marketplace-backend/internal/models"
)

type NotificationService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewNotificationService(db *gorm.DB, cfg *config.Config) *NotificationService {
	return &NotificationService{
		db:  db,
		cfg: cfg,
	}
}

// Notify records a notification for the user and, when SMTP is
// configured, mirrors it to their email. Failures are logged and
// swallowed: a notification must never fail the operation that
// produced it.
func (s *NotificationService) Notify(userID uuid.UUID, text string) {
	notification := &models.Notification{
		UserID: userID,
		Text:   text,
	}

	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to store notification")
		return
	}

	if s.cfg.Email.SMTPHost == "" {
		return
	}

	go s.sendEmail(userID, text)
}

func (s *NotificationService) List(userID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) sendEmail(userID uuid.UUID, text string) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Notification email skipped, user not found")
		return
	}

	addr := s.cfg.Email.SMTPHost + ":" + s.cfg.Email.SMTPPort
	auth := smtp.PlainAuth("", s.cfg.Email.SMTPUsername, s.cfg.Email.SMTPPassword, s.cfg.Email.SMTPHost)

	msg := []byte("From: " + s.cfg.Email.FromName + " <" + s.cfg.Email.FromEmail + ">\r\n" +
		"To: " + user.Email + "\r\n" +
		"Subject: " + s.cfg.Email.FromName + " update\r\n" +
		"\r\n" +
		text + "\r\n")

	if err := smtp.SendMail(addr, auth, s.cfg.Email.FromEmail, []string{user.Email}, msg); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to send notification email")
	}
}
