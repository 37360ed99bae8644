// internal/handlers/shop.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/novamart/marketplace-backend/internal/services"
	"github.com/novamart/marketplace-backend/internal/utils"
)

type ShopHandler struct {
	cartService         *services.CartService
	orderService        *services.OrderService
	notificationService *services.NotificationService
}

func NewShopHandler(cartService *services.CartService, orderService *services.OrderService, notificationService *services.NotificationService) *ShopHandler {
	return &ShopHandler{
		cartService:         cartService,
		orderService:        orderService,
		notificationService: notificationService,
	}
}

// GET /shop/cart
func (h *ShopHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, cart)
}

// POST /shop/cart
func (h *ShopHandler) AddToCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.cartService.AddToCart(userID, req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"added": true})
}

// DELETE /shop/cart/:productId
func (h *ShopHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.cartService.RemoveFromCart(userID, c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"removed": true})
}

// POST /shop/orders
func (h *ShopHandler) PlaceOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	order, err := h.orderService.PlaceOrder(userID, req.Address)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, order)
}

// GET /shop/orders
func (h *ShopHandler) GetOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := h.orderService.GetOrderHistory(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, orders)
}

// GET /shop/notifications
func (h *ShopHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, notifications)
}
