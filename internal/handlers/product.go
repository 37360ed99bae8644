// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/novamart/marketplace-backend/internal/services"
	"github.com/novamart/marketplace-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
	}
}

// GET /products
//
// Filters: ?tags=a,b selects by tag match, ?seller=me selects the
// caller's catalog; otherwise the full catalog is returned.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	if tags := c.Query("tags"); tags != "" {
		products, err := h.productService.SearchByTags(tags)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, products)
		return
	}

	if c.Query("seller") == "me" {
		sellerID, ok := currentUserID(c)
		if !ok {
			return
		}
		products, err := h.productService.GetSellerProducts(sellerID)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.SuccessResponse(c, products)
		return
	}

	products, err := h.productService.ListProducts()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, products)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.CreateProduct(sellerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, product)
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(sellerID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	userType, _ := utils.GetUserTypeFromContext(c)
	if err := h.productService.DeleteProduct(sellerID, c.Param("id"), userType == "admin"); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// POST /products/upload
func (h *ProductHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file is required", err.Error())
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, "Invalid image file", nil)
		return
	}

	result, err := h.storageService.UploadFile(file, header, h.storageService.ProductImageOptions())
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /products/:id/reviews
func (h *ProductHandler) GetReviews(c *gin.Context) {
	reviews, err := h.productService.GetReviews(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, reviews)
}

// POST /products/:id/reviews
func (h *ProductHandler) AddReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	review, err := h.productService.AddReview(userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, review)
}
