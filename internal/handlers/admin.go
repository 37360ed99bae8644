// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/novamart/marketplace-backend/internal/services"
	"github.com/novamart/marketplace-backend/internal/utils"
)

type AdminHandler struct {
	adminService    *services.AdminService
	orderService    *services.OrderService
	deliveryService *services.DeliveryService
}

func NewAdminHandler(adminService *services.AdminService, orderService *services.OrderService, deliveryService *services.DeliveryService) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		orderService:    orderService,
		deliveryService: deliveryService,
	}
}

// GET /admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, stats)
}

// GET /admin/customers
func (h *AdminHandler) GetCustomers(c *gin.Context) {
	result, err := h.adminService.ListCustomers(utils.GetPaginationParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.PaginatedResponse(c, result)
}

// GET /admin/sellers
func (h *AdminHandler) GetSellers(c *gin.Context) {
	result, err := h.adminService.ListSellers(utils.GetPaginationParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.PaginatedResponse(c, result)
}

// GET /admin/orders/unassigned
func (h *AdminHandler) GetUnassignedOrders(c *gin.Context) {
	orders, err := h.orderService.GetUnassignedOrders()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, orders)
}

// POST /admin/orders/:id/assign
func (h *AdminHandler) AssignOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order id", nil)
		return
	}

	var req struct {
		AgentEmail string `json:"agent_email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.deliveryService.AssignOrder(orderID, req.AgentEmail); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"assigned": true})
}

// DELETE /admin/orders/:id
func (h *AdminHandler) CancelOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order id", nil)
		return
	}

	if err := h.orderService.CancelOrder(orderID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"cancelled": true})
}

// POST /admin/agents
func (h *AdminHandler) CreateAgent(c *gin.Context) {
	var req services.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	agent, err := h.deliveryService.CreateAgent(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, agent)
}

// GET /admin/agents
func (h *AdminHandler) GetAgents(c *gin.Context) {
	agents, err := h.deliveryService.ListAgents()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, agents)
}

// DELETE /admin/agents/:email
func (h *AdminHandler) DeleteAgent(c *gin.Context) {
	if err := h.deliveryService.DeleteAgent(c.Param("email")); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// POST /admin/admins
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	admin, err := h.adminService.CreateAdmin(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, admin)
}
