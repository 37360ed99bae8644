// internal/services/product_service_test.go
package services

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/novamart/marketplace-backend/internal/apperrors"
	"github.com/novamart/marketplace-backend/internal/models"
)

type ProductServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	products *ProductService
	seller   *models.User
}

func (s *ProductServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.products = NewProductService(s.db)
	s.seller = createTestUser(s.T(), s.db, models.UserTypeSeller)
}

func validProductRequest() *ProductRequest {
	return &ProductRequest{
		Name:             "Wireless Mouse",
		ShortDescription: "a compact wireless mouse",
		LongDescription:  "a compact wireless mouse with long battery life",
		Images:           []string{"https://cdn.example.com/mouse.jpg"},
		ActualPrice:      29.99,
		Discount:         10,
		SellingPrice:     26.99,
		Stock:            40,
		Tags:             "Mouse, Wireless, Accessories",
		TermsAccepted:    true,
	}
}

func (s *ProductServiceTestSuite) TestCreateProduct() {
	product, err := s.products.CreateProduct(s.seller.ID, validProductRequest())
	s.Require().NoError(err)

	s.Regexp(regexp.MustCompile(`^wireless-mouse-\d+$`), product.ID)
	s.Equal("mouse, wireless, accessories", product.Tags)
	s.Equal(s.seller.ID, product.SellerID)
	s.Require().Len(product.Images, 1)
	s.Equal("https://cdn.example.com/mouse.jpg", product.Images[0].URL)
}

func (s *ProductServiceTestSuite) TestCreateProductValidationRules() {
	cases := []struct {
		name   string
		mutate func(*ProductRequest)
	}{
		{"missing name", func(r *ProductRequest) { r.Name = "" }},
		{"short description too short", func(r *ProductRequest) { r.ShortDescription = "too short" }},
		{"short description too long", func(r *ProductRequest) { r.ShortDescription = strings.Repeat("x", 101) }},
		{"missing long description", func(r *ProductRequest) { r.LongDescription = "" }},
		{"no images", func(r *ProductRequest) { r.Images = nil }},
		{"missing price", func(r *ProductRequest) { r.SellingPrice = 0 }},
		{"stock below minimum", func(r *ProductRequest) { r.Stock = 19 }},
		{"missing tags", func(r *ProductRequest) { r.Tags = "  " }},
		{"terms not accepted", func(r *ProductRequest) { r.TermsAccepted = false }},
	}

	for _, tc := range cases {
		req := validProductRequest()
		tc.mutate(req)
		_, err := s.products.CreateProduct(s.seller.ID, req)
		s.Require().ErrorIs(err, apperrors.ErrValidation, tc.name)
	}
}

func (s *ProductServiceTestSuite) TestUpdateProductOwnerOnly() {
	product, err := s.products.CreateProduct(s.seller.ID, validProductRequest())
	s.Require().NoError(err)

	intruder := createTestUser(s.T(), s.db, models.UserTypeSeller)
	req := validProductRequest()
	req.Name = "Hijacked"
	_, err = s.products.UpdateProduct(intruder.ID, product.ID, req)
	s.Require().ErrorIs(err, apperrors.ErrForbidden)

	req = validProductRequest()
	req.Stock = 55
	req.Images = []string{"https://cdn.example.com/new.jpg", "https://cdn.example.com/alt.jpg"}
	updated, err := s.products.UpdateProduct(s.seller.ID, product.ID, req)
	s.Require().NoError(err)
	s.Equal(product.ID, updated.ID)
	s.Equal(55, updated.Stock)
	s.Require().Len(updated.Images, 2)
	s.Equal("https://cdn.example.com/new.jpg", updated.Images[0].URL)
}

func (s *ProductServiceTestSuite) TestDeleteProductCleansUpButKeepsOrderLines() {
	customer := createTestUser(s.T(), s.db, models.UserTypeCustomer)
	cart := NewCartService(s.db)
	orders := NewOrderService(s.db, NewNotificationService(s.db, testConfig()))

	product, err := s.products.CreateProduct(s.seller.ID, validProductRequest())
	s.Require().NoError(err)

	// Buy it once so an order line exists, then leave it in a second
	// user's cart and review it.
	s.Require().NoError(cart.AddToCart(customer.ID, product.ID, 1))
	order, err := orders.PlaceOrder(customer.ID, "42 Main Street")
	s.Require().NoError(err)
	s.Require().NoError(s.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("delivery_status", models.DeliveryStatusDelivered).Error)

	_, err = s.products.AddReview(customer.ID, product.ID, &ReviewRequest{Rating: 5, Text: "great"})
	s.Require().NoError(err)

	other := createTestUser(s.T(), s.db, models.UserTypeCustomer)
	s.Require().NoError(cart.AddToCart(other.ID, product.ID, 2))

	s.Require().NoError(s.products.DeleteProduct(s.seller.ID, product.ID, false))

	var imageCount, cartCount, reviewCount, lineCount int64
	s.Require().NoError(s.db.Model(&models.ProductImage{}).Where("product_id = ?", product.ID).Count(&imageCount).Error)
	s.Require().NoError(s.db.Model(&models.CartItem{}).Where("product_id = ?", product.ID).Count(&cartCount).Error)
	s.Require().NoError(s.db.Model(&models.Review{}).Where("product_id = ?", product.ID).Count(&reviewCount).Error)
	s.Require().NoError(s.db.Model(&models.OrderLine{}).Where("product_id = ?", product.ID).Count(&lineCount).Error)

	s.EqualValues(0, imageCount)
	s.EqualValues(0, cartCount)
	s.EqualValues(0, reviewCount)
	s.EqualValues(1, lineCount)

	_, err = s.products.GetProduct(product.ID)
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ProductServiceTestSuite) TestDeleteProductOwnerOnlyUnlessAdmin() {
	product, err := s.products.CreateProduct(s.seller.ID, validProductRequest())
	s.Require().NoError(err)

	intruder := createTestUser(s.T(), s.db, models.UserTypeSeller)
	err = s.products.DeleteProduct(intruder.ID, product.ID, false)
	s.Require().ErrorIs(err, apperrors.ErrForbidden)

	s.Require().NoError(s.products.DeleteProduct(intruder.ID, product.ID, true))
}

func (s *ProductServiceTestSuite) TestSearchByTags() {
	req := validProductRequest()
	_, err := s.products.CreateProduct(s.seller.ID, req)
	s.Require().NoError(err)

	req2 := validProductRequest()
	req2.Name = "Desk Lamp"
	req2.Tags = "lighting, desk"
	_, err = s.products.CreateProduct(s.seller.ID, req2)
	s.Require().NoError(err)

	results, err := s.products.SearchByTags("WIRELESS")
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal("Wireless Mouse", results[0].Name)

	results, err = s.products.SearchByTags("wireless,desk")
	s.Require().NoError(err)
	s.Len(results, 2)

	results, err = s.products.SearchByTags("nonexistent")
	s.Require().NoError(err)
	s.Empty(results)
}

func (s *ProductServiceTestSuite) TestReviewGatedOnDelivery() {
	customer := createTestUser(s.T(), s.db, models.UserTypeCustomer)
	cart := NewCartService(s.db)
	orders := NewOrderService(s.db, NewNotificationService(s.db, testConfig()))

	product, err := s.products.CreateProduct(s.seller.ID, validProductRequest())
	s.Require().NoError(err)

	// No order at all.
	_, err = s.products.AddReview(customer.ID, product.ID, &ReviewRequest{Rating: 4})
	s.Require().ErrorIs(err, apperrors.ErrForbidden)

	// Ordered but not delivered.
	s.Require().NoError(cart.AddToCart(customer.ID, product.ID, 1))
	order, err := orders.PlaceOrder(customer.ID, "42 Main Street")
	s.Require().NoError(err)

	_, err = s.products.AddReview(customer.ID, product.ID, &ReviewRequest{Rating: 4})
	s.Require().ErrorIs(err, apperrors.ErrForbidden)

	// Delivered.
	s.Require().NoError(s.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("delivery_status", models.DeliveryStatusDelivered).Error)

	review, err := s.products.AddReview(customer.ID, product.ID, &ReviewRequest{Rating: 4, Text: "solid"})
	s.Require().NoError(err)
	s.Equal(4, review.Rating)

	reviews, err := s.products.GetReviews(product.ID)
	s.Require().NoError(err)
	s.Len(reviews, 1)
}

func (s *ProductServiceTestSuite) TestReviewRatingBounds() {
	product, err := s.products.CreateProduct(s.seller.ID, validProductRequest())
	s.Require().NoError(err)

	customer := createTestUser(s.T(), s.db, models.UserTypeCustomer)
	_, err = s.products.AddReview(customer.ID, product.ID, &ReviewRequest{Rating: 6})
	s.Require().ErrorIs(err, apperrors.ErrValidation)

	_, err = s.products.AddReview(customer.ID, product.ID, &ReviewRequest{Rating: 0})
	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
