// internal/handlers/delivery.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/novamart/marketplace-backend/internal/services"
	"github.com/novamart/marketplace-backend/internal/utils"
)

type DeliveryHandler struct {
	deliveryService *services.DeliveryService
}

func NewDeliveryHandler(deliveryService *services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// GET /delivery/orders
func (h *DeliveryHandler) GetAssignedOrders(c *gin.Context) {
	agentID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := h.deliveryService.GetAssignedOrdersByAgentID(agentID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, orders)
}

// PATCH /delivery/orders/:id/status
func (h *DeliveryHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order id", nil)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.deliveryService.UpdateStatus(orderID, req.Status); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"status": req.Status})
}
