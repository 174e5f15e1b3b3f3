package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/metrics"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/repository"
	"github.com/swordshop/backend/internal/utils"
)

// TransactionService owns purchases and the escrow status flow that follows
// them.
type TransactionService struct {
	transactions repository.TransactionRepository
	products     repository.ProductRepository
	gate         *AuthorizationService
	activity     *ActivityService
	now          func() time.Time
}

type PurchaseRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
}

type UpdateTransactionStatusRequest struct {
	Status models.TransactionStatus `json:"status" validate:"required"`
}

func NewTransactionService(transactions repository.TransactionRepository, products repository.ProductRepository, gate *AuthorizationService, activity *ActivityService) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		products:     products,
		gate:         gate,
		activity:     activity,
		now:          time.Now,
	}
}

// Purchase buys an active product for actor. The product is marked sold and
// the pending transaction stored in one unit; when two buyers race, the one
// whose conditional update lands second gets InvalidState.
func (s *TransactionService) Purchase(ctx context.Context, actor *models.User, req *PurchaseRequest) (*models.Transaction, error) {
	if err := s.gate.Authorize(actor, CapabilityAuthenticated); err != nil {
		return nil, err
	}
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		metrics.RecordPurchase("not_found")
		return nil, storeError(err, i18n.KeyProductNotFound)
	}
	if product.Status != models.ProductStatusActive {
		metrics.RecordPurchase("unavailable")
		return nil, apperrors.InvalidState(i18n.KeyProductNotAvailable)
	}
	if product.SellerID == actor.ID {
		metrics.RecordPurchase("own_product")
		return nil, apperrors.InvalidOperation(i18n.KeyProductOwnPurchase)
	}

	txn := &models.Transaction{
		ProductID: product.ID,
		BuyerID:   actor.ID,
		SellerID:  product.SellerID,
		Amount:    product.Price,
		Status:    models.TransactionStatusPending,
	}
	if err := s.transactions.Purchase(ctx, txn); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			metrics.RecordPurchase("conflict")
			return nil, apperrors.InvalidState(i18n.KeyProductNotAvailable)
		}
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}

	metrics.RecordPurchase("success")
	s.activity.Record(ctx, actor, models.ActionTransactionCreated, "Produto: "+product.Title)
	return txn, nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Transaction, error) {
	if err := s.gate.Authorize(actor, CapabilityAuthenticated); err != nil {
		return nil, err
	}

	txn, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, i18n.KeyTransactionNotFound)
	}
	if err := s.gate.Authorize(actor, CapabilityOwnerOrAdmin, txn.BuyerID, txn.SellerID); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactions returns the actor's purchases and sales, or every
// transaction for admins.
func (s *TransactionService) ListTransactions(ctx context.Context, actor *models.User, page repository.Page) ([]models.Transaction, int64, error) {
	if err := s.gate.Authorize(actor, CapabilityAuthenticated); err != nil {
		return nil, 0, err
	}

	filter := repository.TransactionFilter{}
	if !actor.IsAdmin {
		id := actor.ID
		filter.ParticipantID = &id
	}

	txns, total, err := s.transactions.List(ctx, filter, page)
	if err != nil {
		return nil, 0, apperrors.Internal(i18n.KeyInternalError, err)
	}
	return txns, total, nil
}

// UpdateStatus settles a pending transaction. Cancelling or disputing leaves
// the product sold.
func (s *TransactionService) UpdateStatus(ctx context.Context, actor *models.User, id uuid.UUID, req *UpdateTransactionStatusRequest) (*models.Transaction, error) {
	if err := s.gate.Authorize(actor, CapabilityAuthenticated); err != nil {
		return nil, err
	}
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, apperrors.Validation(i18n.KeyTransactionInvalidStatus, nil)
	}

	txn, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, i18n.KeyTransactionNotFound)
	}
	if err := s.gate.Authorize(actor, CapabilityOwnerOrAdmin, txn.BuyerID, txn.SellerID); err != nil {
		return nil, err
	}

	from, to := txn.Status, req.Status
	if from == to {
		// Repeating a transition changes nothing; completedAt keeps its first value.
		return txn, nil
	}
	if !from.CanTransitionTo(to) {
		return nil, transitionError(i18n.KeyTransactionTransition, from, to)
	}

	var completedAt *time.Time
	if to == models.TransactionStatusCompleted {
		now := s.now()
		completedAt = &now
	}

	if err := s.transactions.UpdateStatus(ctx, id, from, to, completedAt); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, transitionError(i18n.KeyTransactionTransition, from, to)
		}
		return nil, storeError(err, i18n.KeyTransactionNotFound)
	}
	txn.Status = to
	txn.CompletedAt = completedAt

	metrics.RecordTransition("transaction", "status", string(to))
	s.activity.Record(ctx, actor, models.ActionTransactionStatus, string(to))
	return txn, nil
}
