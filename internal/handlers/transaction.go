package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swordshop/backend/internal/services"
	"github.com/swordshop/backend/internal/utils"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
}

func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// GET /api/transactions
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	txns, total, err := h.transactionService.ListTransactions(c.Request.Context(), utils.CurrentUser(c), params.Window())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, txns, total, params)
}

// GET /api/transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), utils.CurrentUser(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, txn)
}

// POST /api/transactions
func (h *TransactionHandler) Purchase(c *gin.Context) {
	var req services.PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	txn, err := h.transactionService.Purchase(c.Request.Context(), utils.CurrentUser(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, txn)
}

// PATCH /api/transactions/:id/status
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req services.UpdateTransactionStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	txn, err := h.transactionService.UpdateStatus(c.Request.Context(), utils.CurrentUser(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, txn)
}
