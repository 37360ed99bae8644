// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/novamart/marketplace-backend/internal/apperrors"
	"github.com/novamart/marketplace-backend/internal/models"
)

type CartServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	cart     *CartService
	customer *models.User
	seller   *models.User
	product  *models.Product
}

func (s *CartServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.cart = NewCartService(s.db)
	s.customer = createTestUser(s.T(), s.db, models.UserTypeCustomer)
	s.seller = createTestUser(s.T(), s.db, models.UserTypeSeller)
	s.product = createTestProduct(s.T(), s.db, s.seller.ID, "widget", 9.99, 50)
}

func (s *CartServiceTestSuite) TestAddToCartCreatesLine() {
	err := s.cart.AddToCart(s.customer.ID, s.product.ID, 2)
	s.Require().NoError(err)

	var item models.CartItem
	s.Require().NoError(s.db.Where("user_id = ?", s.customer.ID).First(&item).Error)
	s.Equal(s.product.ID, item.ProductID)
	s.Equal(2, item.Quantity)
}

func (s *CartServiceTestSuite) TestAddToCartAccumulatesQuantity() {
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, s.product.ID, 2))
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, s.product.ID, 3))

	var item models.CartItem
	s.Require().NoError(s.db.Where("user_id = ?", s.customer.ID).First(&item).Error)
	s.Equal(5, item.Quantity)

	var count int64
	s.Require().NoError(s.db.Model(&models.CartItem{}).Where("user_id = ?", s.customer.ID).Count(&count).Error)
	s.EqualValues(1, count)
}

func (s *CartServiceTestSuite) TestAddToCartRejectsNonPositiveQuantity() {
	err := s.cart.AddToCart(s.customer.ID, s.product.ID, 0)
	s.Require().ErrorIs(err, apperrors.ErrValidation)

	err = s.cart.AddToCart(s.customer.ID, s.product.ID, -1)
	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *CartServiceTestSuite) TestAddToCartUnknownProduct() {
	err := s.cart.AddToCart(s.customer.ID, "no-such-product-1", 1)
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *CartServiceTestSuite) TestRemoveFromCartIsIdempotent() {
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, s.product.ID, 1))

	s.Require().NoError(s.cart.RemoveFromCart(s.customer.ID, s.product.ID))
	s.Require().NoError(s.cart.RemoveFromCart(s.customer.ID, s.product.ID))

	var count int64
	s.Require().NoError(s.db.Model(&models.CartItem{}).Where("user_id = ?", s.customer.ID).Count(&count).Error)
	s.EqualValues(0, count)
}

func (s *CartServiceTestSuite) TestGetCartComputesLiveTotal() {
	other := createTestProduct(s.T(), s.db, s.seller.ID, "gadget", 5.00, 50)

	s.Require().NoError(s.cart.AddToCart(s.customer.ID, s.product.ID, 2)) // 19.98
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, other.ID, 1))    // 5.00

	contents, err := s.cart.GetCart(s.customer.ID)
	s.Require().NoError(err)
	s.Len(contents.Items, 2)
	s.InDelta(24.98, contents.Total, 0.001)
}

func (s *CartServiceTestSuite) TestGetCartEmpty() {
	contents, err := s.cart.GetCart(s.customer.ID)
	s.Require().NoError(err)
	s.Empty(contents.Items)
	s.Zero(contents.Total)
}

func TestCartServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}
