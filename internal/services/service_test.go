// internal/services/service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/novamart/marketplace-backend/internal/config"
	"github.com/novamart/marketplace-backend/internal/database"
	"github.com/novamart/marketplace-backend/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema.
// Connections are pinned to one so every query sees the same memory
// store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, userType models.UserType) *models.User {
	t.Helper()

	user := &models.User{
		Name:     "Test " + string(userType),
		Email:    string(userType) + "-" + uuid.NewString()[:8] + "@example.com",
		UserType: userType,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)

	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, sellerID uuid.UUID, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:               name + "-" + uuid.NewString()[:4],
		Name:             name,
		ShortDescription: "a short description",
		LongDescription:  "a long description",
		ActualPrice:      price,
		Discount:         0,
		SellingPrice:     price,
		Stock:            stock,
		Tags:             "test",
		SellerID:         sellerID,
	}
	require.NoError(t, db.Create(product).Error)

	return product
}

func createTestAgent(t *testing.T, db *gorm.DB, email string) *models.DeliveryAgent {
	t.Helper()

	agent := &models.DeliveryAgent{
		Name:  "Test Agent",
		Email: email,
		Phone: "0123456789",
		Area:  "Downtown",
	}
	require.NoError(t, agent.SetPassword("password123"))
	require.NoError(t, db.Create(agent).Error)

	return agent
}
