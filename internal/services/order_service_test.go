// internal/services/order_service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/novamart/marketplace-backend/internal/apperrors"
	"github.com/novamart/marketplace-backend/internal/models"
)

type OrderServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	cart     *CartService
	orders   *OrderService
	customer *models.User
	seller   *models.User
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.cart = NewCartService(s.db)
	s.orders = NewOrderService(s.db, NewNotificationService(s.db, testConfig()))
	s.customer = createTestUser(s.T(), s.db, models.UserTypeCustomer)
	s.seller = createTestUser(s.T(), s.db, models.UserTypeSeller)
}

func (s *OrderServiceTestSuite) stockOf(productID string) int {
	var product models.Product
	s.Require().NoError(s.db.First(&product, "id = ?", productID).Error)
	return product.Stock
}

func (s *OrderServiceTestSuite) TestPlaceOrderSnapshotsAndDecrements() {
	book := createTestProduct(s.T(), s.db, s.seller.ID, "book", 10.00, 30)
	pen := createTestProduct(s.T(), s.db, s.seller.ID, "pen", 7.50, 30)

	s.Require().NoError(s.cart.AddToCart(s.customer.ID, book.ID, 1))
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, pen.ID, 2))

	order, err := s.orders.PlaceOrder(s.customer.ID, "42 Main Street")
	s.Require().NoError(err)

	s.InDelta(25.00, order.TotalCost, 0.001)
	s.Equal(models.DeliveryStatusNotAssigned, order.DeliveryStatus)
	s.Len(order.Lines, 2)

	s.Equal(29, s.stockOf(book.ID))
	s.Equal(28, s.stockOf(pen.ID))

	// Cart is drained.
	var cartCount int64
	s.Require().NoError(s.db.Model(&models.CartItem{}).Where("user_id = ?", s.customer.ID).Count(&cartCount).Error)
	s.EqualValues(0, cartCount)

	// Purchaser is notified.
	var notification models.Notification
	s.Require().NoError(s.db.Where("user_id = ?", s.customer.ID).First(&notification).Error)
	s.Equal(fmt.Sprintf("Your order #%s has been placed successfully.", order.ShortID()), notification.Text)
}

func (s *OrderServiceTestSuite) TestPlaceOrderSnapshotSurvivesPriceChange() {
	book := createTestProduct(s.T(), s.db, s.seller.ID, "book", 10.00, 30)
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, book.ID, 1))

	order, err := s.orders.PlaceOrder(s.customer.ID, "42 Main Street")
	s.Require().NoError(err)

	// Reprice the catalog; history must not move.
	s.Require().NoError(s.db.Model(&models.Product{}).Where("id = ?", book.ID).
		Update("selling_price", 99.00).Error)

	history, err := s.orders.GetOrderHistory(s.customer.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Require().Len(history[0].Lines, 1)
	s.InDelta(10.00, history[0].Lines[0].UnitPrice, 0.001)
	s.Equal("book", history[0].Lines[0].ProductName)
	s.InDelta(order.TotalCost, history[0].TotalCost, 0.001)
}

func (s *OrderServiceTestSuite) TestPlaceOrderEmptyCart() {
	_, err := s.orders.PlaceOrder(s.customer.ID, "42 Main Street")
	s.Require().ErrorIs(err, apperrors.ErrEmptyCart)
}

func (s *OrderServiceTestSuite) TestPlaceOrderRequiresAddress() {
	book := createTestProduct(s.T(), s.db, s.seller.ID, "book", 10.00, 30)
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, book.ID, 1))

	_, err := s.orders.PlaceOrder(s.customer.ID, "   ")
	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *OrderServiceTestSuite) TestPlaceOrderInsufficientStockAbortsEverything() {
	book := createTestProduct(s.T(), s.db, s.seller.ID, "book", 10.00, 30)
	scarce := createTestProduct(s.T(), s.db, s.seller.ID, "scarce", 5.00, 1)

	s.Require().NoError(s.cart.AddToCart(s.customer.ID, book.ID, 1))
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, scarce.ID, 2))

	_, err := s.orders.PlaceOrder(s.customer.ID, "42 Main Street")
	s.Require().ErrorIs(err, apperrors.ErrStockExhausted)

	// The whole transaction rolled back: no order, stock untouched,
	// cart intact.
	var orderCount int64
	s.Require().NoError(s.db.Model(&models.Order{}).Count(&orderCount).Error)
	s.EqualValues(0, orderCount)

	s.Equal(30, s.stockOf(book.ID))
	s.Equal(1, s.stockOf(scarce.ID))

	var cartCount int64
	s.Require().NoError(s.db.Model(&models.CartItem{}).Where("user_id = ?", s.customer.ID).Count(&cartCount).Error)
	s.EqualValues(2, cartCount)
}

func (s *OrderServiceTestSuite) TestSequentialOrdersCannotOversell() {
	scarce := createTestProduct(s.T(), s.db, s.seller.ID, "scarce", 5.00, 1)
	other := createTestUser(s.T(), s.db, models.UserTypeCustomer)

	s.Require().NoError(s.cart.AddToCart(s.customer.ID, scarce.ID, 1))
	s.Require().NoError(s.cart.AddToCart(other.ID, scarce.ID, 1))

	_, err := s.orders.PlaceOrder(s.customer.ID, "42 Main Street")
	s.Require().NoError(err)

	_, err = s.orders.PlaceOrder(other.ID, "43 Main Street")
	s.Require().ErrorIs(err, apperrors.ErrStockExhausted)

	s.Equal(0, s.stockOf(scarce.ID))
}

func (s *OrderServiceTestSuite) TestPlaceOrderDropsDeletedProductLine() {
	book := createTestProduct(s.T(), s.db, s.seller.ID, "book", 10.00, 30)
	doomed := createTestProduct(s.T(), s.db, s.seller.ID, "doomed", 4.00, 30)

	s.Require().NoError(s.cart.AddToCart(s.customer.ID, book.ID, 1))
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, doomed.ID, 1))

	s.Require().NoError(s.db.Delete(&models.Product{}, "id = ?", doomed.ID).Error)

	order, err := s.orders.PlaceOrder(s.customer.ID, "42 Main Street")
	s.Require().NoError(err)
	s.Len(order.Lines, 1)
	s.Equal(book.ID, order.Lines[0].ProductID)
	s.InDelta(10.00, order.TotalCost, 0.001)
}

func (s *OrderServiceTestSuite) TestPlaceOrderAllLinesDroppedIsEmptyCart() {
	doomed := createTestProduct(s.T(), s.db, s.seller.ID, "doomed", 4.00, 30)
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, doomed.ID, 1))
	s.Require().NoError(s.db.Delete(&models.Product{}, "id = ?", doomed.ID).Error)

	_, err := s.orders.PlaceOrder(s.customer.ID, "42 Main Street")
	s.Require().ErrorIs(err, apperrors.ErrEmptyCart)
}

func (s *OrderServiceTestSuite) TestCancelOrderRestoresStockAndCleansUp() {
	book := createTestProduct(s.T(), s.db, s.seller.ID, "book", 10.00, 30)
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, book.ID, 3))

	order, err := s.orders.PlaceOrder(s.customer.ID, "42 Main Street")
	s.Require().NoError(err)
	s.Equal(27, s.stockOf(book.ID))

	s.Require().NoError(s.orders.CancelOrder(order.ID))

	s.Equal(30, s.stockOf(book.ID))

	var orderCount, lineCount int64
	s.Require().NoError(s.db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&orderCount).Error)
	s.EqualValues(0, orderCount)
	s.Require().NoError(s.db.Model(&models.OrderLine{}).Where("order_id = ?", order.ID).Count(&lineCount).Error)
	s.EqualValues(0, lineCount)

	var notification models.Notification
	s.Require().NoError(s.db.Where("user_id = ?", s.customer.ID).
		Order("id DESC").First(&notification).Error)
	s.Equal(fmt.Sprintf("Your order #%s has been cancelled by the admin.", order.ShortID()), notification.Text)
}

func (s *OrderServiceTestSuite) TestCancelAbsentOrderIsNoOp() {
	book := createTestProduct(s.T(), s.db, s.seller.ID, "book", 10.00, 30)
	_ = book

	order := &models.Order{}
	order.ID = s.customer.ID // any uuid that is not an order
	s.Require().NoError(s.orders.CancelOrder(order.ID))
}

func (s *OrderServiceTestSuite) TestCancelDeliveredOrderRejected() {
	book := createTestProduct(s.T(), s.db, s.seller.ID, "book", 10.00, 30)
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, book.ID, 1))

	order, err := s.orders.PlaceOrder(s.customer.ID, "42 Main Street")
	s.Require().NoError(err)

	s.Require().NoError(s.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("delivery_status", models.DeliveryStatusDelivered).Error)

	err = s.orders.CancelOrder(order.ID)
	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Equal(29, s.stockOf(book.ID))
}

func (s *OrderServiceTestSuite) TestOrderHistoryNewestFirst() {
	book := createTestProduct(s.T(), s.db, s.seller.ID, "book", 10.00, 30)

	s.Require().NoError(s.cart.AddToCart(s.customer.ID, book.ID, 1))
	first, err := s.orders.PlaceOrder(s.customer.ID, "42 Main Street")
	s.Require().NoError(err)

	s.Require().NoError(s.cart.AddToCart(s.customer.ID, book.ID, 2))
	second, err := s.orders.PlaceOrder(s.customer.ID, "42 Main Street")
	s.Require().NoError(err)

	history, err := s.orders.GetOrderHistory(s.customer.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	ids := []string{history[0].ID.String(), history[1].ID.String()}
	s.Contains(ids, first.ID.String())
	s.Contains(ids, second.ID.String())
}

func (s *OrderServiceTestSuite) TestGetUnassignedOrders() {
	book := createTestProduct(s.T(), s.db, s.seller.ID, "book", 10.00, 30)
	s.Require().NoError(s.cart.AddToCart(s.customer.ID, book.ID, 1))
	order, err := s.orders.PlaceOrder(s.customer.ID, "42 Main Street")
	s.Require().NoError(err)

	unassigned, err := s.orders.GetUnassignedOrders()
	s.Require().NoError(err)
	s.Require().Len(unassigned, 1)
	s.Equal(order.ID, unassigned[0].ID)

	s.Require().NoError(s.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("delivery_status", models.DeliveryStatusAssigned).Error)

	unassigned, err = s.orders.GetUnassignedOrders()
	s.Require().NoError(err)
	s.Empty(unassigned)
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
