// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/metrics"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/repository"
	"github.com/swordshop/backend/internal/utils"
)

// ProductService drives the two independent product axes: status
// (active, inactive, sold) and approval (pending, approved, rejected).
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	gate       *AuthorizationService
	activity   *ActivityService
}

type CreateProductRequest struct {
	Title       string       `json:"title" validate:"required,notblank,max=255"`
	Description string       `json:"description" validate:"required,notblank"`
	Price       models.Money `json:"price"`
	CategoryID  uuid.UUID    `json:"categoryId" validate:"required"`
	Game        string       `json:"game" validate:"required,notblank,max=255"`
	ImageURL    *string      `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
}

type UpdateProductStatusRequest struct {
	Status models.ProductStatus `json:"status" validate:"required"`
}

type UpdateProductApprovalRequest struct {
	ApprovalStatus  models.ApprovalStatus `json:"approvalStatus" validate:"required"`
	RejectionReason *string               `json:"rejectionReason,omitempty"`
}

// ProductQuery holds the browse filters. Empty fields do not filter.
type ProductQuery struct {
	CategoryID     *uuid.UUID
	SellerID       *uuid.UUID
	Status         *models.ProductStatus
	ApprovalStatus *models.ApprovalStatus
	Search         string
}

func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, gate *AuthorizationService, activity *ActivityService) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		gate:       gate,
		activity:   activity,
	}
}

// CreateProduct lists a new product for actor. It starts active and pending
// approval, and the actor becomes a seller in the same write.
func (s *ProductService) CreateProduct(ctx context.Context, actor *models.User, req *CreateProductRequest) (*models.Product, error) {
	if err := s.gate.Authorize(actor, CapabilityAuthenticated); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Game = strings.TrimSpace(req.Game)
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}
	if !req.Price.ValidPrice() {
		return nil, apperrors.Validation(i18n.KeyProductInvalidPrice, nil)
	}

	if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Validation(i18n.KeyProductCategoryMissing, err)
		}
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}

	var imageURL *string
	if req.ImageURL != nil && strings.TrimSpace(*req.ImageURL) != "" {
		trimmed := strings.TrimSpace(*req.ImageURL)
		imageURL = &trimmed
	}

	product := &models.Product{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		CategoryID:     req.CategoryID,
		SellerID:       actor.ID,
		Game:           req.Game,
		ImageURL:       imageURL,
		Status:         models.ProductStatusActive,
		ApprovalStatus: models.ApprovalStatusPending,
	}
	if err := s.products.CreateForSeller(ctx, product); err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}
	actor.IsSeller = true

	s.activity.Record(ctx, actor, models.ActionProductCreated, product.Title)
	return product, nil
}

// GetProduct returns a product. Products outside the approved catalogue are
// reported missing to everyone but their seller and admins.
func (s *ProductService) GetProduct(ctx context.Context, viewer *models.User, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, i18n.KeyProductNotFound)
	}
	if !product.VisibleTo(viewer) {
		return nil, apperrors.NotFound(i18n.KeyProductNotFound, nil)
	}
	return product, nil
}

// ListProducts browses products. Callers other than admins only see approved
// products, unless they filter on their own seller id.
func (s *ProductService) ListProducts(ctx context.Context, viewer *models.User, query ProductQuery, page repository.Page) ([]models.Product, int64, error) {
	if query.Status != nil && !query.Status.Valid() {
		return nil, 0, apperrors.Validation(i18n.KeyProductInvalidStatus, nil)
	}
	if query.ApprovalStatus != nil && !query.ApprovalStatus.Valid() {
		return nil, 0, apperrors.Validation(i18n.KeyProductInvalidApproval, nil)
	}

	filter := repository.ProductFilter{
		CategoryID:     query.CategoryID,
		SellerID:       query.SellerID,
		Status:         query.Status,
		ApprovalStatus: query.ApprovalStatus,
		Search:         strings.TrimSpace(query.Search),
	}

	ownListing := viewer != nil && query.SellerID != nil && *query.SellerID == viewer.ID
	if (viewer == nil || !viewer.IsAdmin) && !ownListing {
		approved := models.ApprovalStatusApproved
		filter.ApprovalStatus = &approved
	}

	products, total, err := s.products.List(ctx, filter, page)
	if err != nil {
		return nil, 0, apperrors.Internal(i18n.KeyInternalError, err)
	}
	return products, total, nil
}

// UpdateStatus moves a product between active and inactive. Sold is only
// reached through a purchase.
func (s *ProductService) UpdateStatus(ctx context.Context, actor *models.User, id uuid.UUID, req *UpdateProductStatusRequest) (*models.Product, error) {
	if err := s.gate.Authorize(actor, CapabilityAuthenticated); err != nil {
		return nil, err
	}
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, apperrors.Validation(i18n.KeyProductInvalidStatus, nil)
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, i18n.KeyProductNotFound)
	}
	if err := s.gate.Authorize(actor, CapabilityOwnerOrAdmin, product.SellerID); err != nil {
		return nil, err
	}

	from, to := product.Status, req.Status
	if from == to {
		return product, nil
	}
	if !from.CanTransitionTo(to) {
		return nil, transitionError(i18n.KeyProductStatusTransition, from, to)
	}

	if err := s.products.UpdateStatus(ctx, id, from, to); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, transitionError(i18n.KeyProductStatusTransition, from, to)
		}
		return nil, storeError(err, i18n.KeyProductNotFound)
	}
	product.Status = to

	metrics.RecordTransition("product", "status", string(to))
	s.activity.Record(ctx, actor, models.ActionProductStatus, product.Title+" - "+string(to))
	return product, nil
}

// UpdateApproval decides a pending product. Both outcomes are final.
func (s *ProductService) UpdateApproval(ctx context.Context, actor *models.User, id uuid.UUID, req *UpdateProductApprovalRequest) (*models.Product, error) {
	if err := s.gate.Authorize(actor, CapabilityAdmin); err != nil {
		return nil, err
	}
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}
	if !req.ApprovalStatus.Valid() {
		return nil, apperrors.Validation(i18n.KeyProductInvalidApproval, nil)
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, i18n.KeyProductNotFound)
	}

	from, to := product.ApprovalStatus, req.ApprovalStatus
	if from == to {
		return product, nil
	}
	if !from.CanTransitionTo(to) {
		return nil, apperrors.InvalidState(i18n.KeyProductApprovalFinal)
	}

	// A reason is only kept on rejection, and rejecting without one is allowed.
	var reason *string
	if to == models.ApprovalStatusRejected && req.RejectionReason != nil {
		if trimmed := strings.TrimSpace(*req.RejectionReason); trimmed != "" {
			reason = &trimmed
		}
	}

	if err := s.products.UpdateApproval(ctx, id, from, to, reason); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.InvalidState(i18n.KeyProductApprovalFinal)
		}
		return nil, storeError(err, i18n.KeyProductNotFound)
	}
	product.ApprovalStatus = to
	product.RejectionReason = reason

	details := product.Title
	if reason != nil {
		details += " - " + *reason
	}
	metrics.RecordTransition("product", "approval", string(to))
	s.activity.Record(ctx, actor, models.ActionProductApproval, details)
	return product, nil
}
