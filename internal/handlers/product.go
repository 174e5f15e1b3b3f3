// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/services"
	"github.com/swordshop/backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	query := services.ProductQuery{Search: c.Query("search")}

	var ok bool
	if query.CategoryID, ok = optionalID(c, "categoryId"); !ok {
		return
	}
	if query.SellerID, ok = optionalID(c, "sellerId"); !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		productStatus := models.ProductStatus(status)
		query.Status = &productStatus
	}
	if approval := c.Query("approvalStatus"); approval != "" {
		approvalStatus := models.ApprovalStatus(approval)
		query.ApprovalStatus = &approvalStatus
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), utils.CurrentUser(c), query, params.Window())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, products, total, params)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), utils.CurrentUser(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), utils.CurrentUser(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, product)
}

// PATCH /api/products/:id/status
func (h *ProductHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req services.UpdateProductStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateStatus(c.Request.Context(), utils.CurrentUser(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// PATCH /api/products/:id/approval
func (h *ProductHandler) UpdateApproval(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req services.UpdateProductApprovalRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateApproval(c.Request.Context(), utils.CurrentUser(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}
