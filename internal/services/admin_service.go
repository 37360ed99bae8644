// internal/services/admin_service.go
package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/novamart/marketplace-backend/internal/apperrors"
	"github.com/novamart/marketplace-backend/internal/models"
	"github.com/novamart/marketplace-backend/internal/utils"
)

type AdminService struct {
	db *gorm.DB
}

type DashboardStats struct {
	NewOrders int64 `json:"new_orders"`
	Customers int64 `json:"customers"`
	Sellers   int64 `json:"sellers"`
	Products  int64 `json:"products"`
	Agents    int64 `json:"agents"`
}

type CustomerSummary struct {
	models.User
	OrderCount int64   `json:"order_count"`
	TotalSpent float64 `json:"total_spent"`
}

type SellerSummary struct {
	models.User
	ProductCount int64 `json:"product_count"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.NewOrders, s.db.Model(&models.Order{}).Where("delivery_status = ?", models.DeliveryStatusNotAssigned)},
		{&stats.Customers, s.db.Model(&models.User{}).Where("user_type = ?", models.UserTypeCustomer)},
		{&stats.Sellers, s.db.Model(&models.User{}).Where("user_type = ?", models.UserTypeSeller)},
		{&stats.Products, s.db.Model(&models.Product{})},
		{&stats.Agents, s.db.Model(&models.DeliveryAgent{})},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	return stats, nil
}

// ListCustomers returns a page of customer accounts with their order
// volume attached.
func (s *AdminService) ListCustomers(params utils.PaginationParams) (utils.PaginationResult, error) {
	return s.listUsers(models.UserTypeCustomer, params, func(users []models.User) (interface{}, error) {
		summaries := make([]CustomerSummary, 0, len(users))
		for _, user := range users {
			summary := CustomerSummary{User: user}
			row := s.db.Model(&models.Order{}).
				Select("COUNT(*) AS order_count, COALESCE(SUM(total_cost), 0) AS total_spent").
				Where("user_id = ?", user.ID).
				Row()
			if err := row.Scan(&summary.OrderCount, &summary.TotalSpent); err != nil {
				return nil, fmt.Errorf("database error: %w", err)
			}
			summaries = append(summaries, summary)
		}
		return summaries, nil
	})
}

// ListSellers returns a page of seller accounts with their catalog
// size attached.
func (s *AdminService) ListSellers(params utils.PaginationParams) (utils.PaginationResult, error) {
	return s.listUsers(models.UserTypeSeller, params, func(users []models.User) (interface{}, error) {
		summaries := make([]SellerSummary, 0, len(users))
		for _, user := range users {
			summary := SellerSummary{User: user}
			if err := s.db.Model(&models.Product{}).
				Where("seller_id = ?", user.ID).
				Count(&summary.ProductCount).Error; err != nil {
				return nil, fmt.Errorf("database error: %w", err)
			}
			summaries = append(summaries, summary)
		}
		return summaries, nil
	})
}

func (s *AdminService) listUsers(userType models.UserType, params utils.PaginationParams, decorate func([]models.User) (interface{}, error)) (utils.PaginationResult, error) {
	query := s.db.Model(&models.User{}).Where("user_type = ?", userType)
	if params.Search != "" {
		term := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("database error: %w", err)
	}

	var users []models.User
	query = utils.ApplySort(query, params, []string{"created_at", "name", "email"})
	if err := utils.ApplyPagination(query, params).Find(&users).Error; err != nil {
		return utils.PaginationResult{}, fmt.Errorf("database error: %w", err)
	}

	data, err := decorate(users)
	if err != nil {
		return utils.PaginationResult{}, err
	}

	return utils.CreatePaginationResult(data, total, params), nil
}

// CreateAdmin provisions another admin account.
func (s *AdminService) CreateAdmin(req *RegisterRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, firstValidationMessage(err))
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, apperrors.Validationf("user with this email already exists")
	}

	admin := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		UserType: models.UserTypeAdmin,
		Status:   models.UserStatusActive,
	}
	if err := admin.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return admin, nil
}
