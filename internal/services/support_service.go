package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/metrics"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/repository"
	"github.com/swordshop/backend/internal/utils"
)

// SupportService handles user reports and support tickets.
type SupportService struct {
	reports  repository.ReportRepository
	tickets  repository.SupportRepository
	users    repository.UserRepository
	products repository.ProductRepository
	gate     *AuthorizationService
	activity *ActivityService
	now      func() time.Time
}

type CreateReportRequest struct {
	ReportedUserID    *uuid.UUID `json:"reportedUserId,omitempty"`
	ReportedProductID *uuid.UUID `json:"reportedProductId,omitempty"`
	Reason            string     `json:"reason" validate:"required,notblank,max=255"`
	Description       string     `json:"description" validate:"required,notblank"`
}

type UpdateReportStatusRequest struct {
	Status models.ReportStatus `json:"status" validate:"required"`
}

type CreateTicketRequest struct {
	Subject  string                `json:"subject" validate:"required,notblank,max=255"`
	Message  string                `json:"message" validate:"required,notblank"`
	Priority models.TicketPriority `json:"priority,omitempty"`
}

type UpdateTicketStatusRequest struct {
	Status models.TicketStatus `json:"status" validate:"required"`
}

type PostMessageRequest struct {
	Message string `json:"message" validate:"required,notblank"`
}

func NewSupportService(repos *repository.Repositories, gate *AuthorizationService, activity *ActivityService) *SupportService {
	return &SupportService{
		reports:  repos.Reports,
		tickets:  repos.Support,
		users:    repos.Users,
		products: repos.Products,
		gate:     gate,
		activity: activity,
		now:      time.Now,
	}
}

// CreateReport files a report against a user, a product, or both. At least
// one target is required and every named target must exist.
func (s *SupportService) CreateReport(ctx context.Context, actor *models.User, req *CreateReportRequest) (*models.Report, error) {
	if err := s.gate.Authorize(actor, CapabilityAuthenticated); err != nil {
		return nil, err
	}
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}
	if req.ReportedUserID == nil && req.ReportedProductID == nil {
		return nil, apperrors.Validation(i18n.KeyReportTargetRequired, nil)
	}

	if req.ReportedUserID != nil {
		if _, err := s.users.GetByID(ctx, *req.ReportedUserID); err != nil {
			return nil, storeError(err, i18n.KeyUserNotFound)
		}
	}
	if req.ReportedProductID != nil {
		if _, err := s.products.GetByID(ctx, *req.ReportedProductID); err != nil {
			return nil, storeError(err, i18n.KeyProductNotFound)
		}
	}

	report := &models.Report{
		ReporterID:        actor.ID,
		ReportedUserID:    req.ReportedUserID,
		ReportedProductID: req.ReportedProductID,
		Reason:            strings.TrimSpace(req.Reason),
		Description:       req.Description,
		Status:            models.ReportStatusPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}

	s.activity.Record(ctx, actor, models.ActionReportCreated, report.Reason)
	return report, nil
}

func (s *SupportService) ListReports(ctx context.Context, actor *models.User, page repository.Page) ([]models.Report, int64, error) {
	if err := s.gate.Authorize(actor, CapabilityAdmin); err != nil {
		return nil, 0, err
	}

	reports, total, err := s.reports.List(ctx, page)
	if err != nil {
		return nil, 0, apperrors.Internal(i18n.KeyInternalError, err)
	}
	return reports, total, nil
}

func (s *SupportService) UpdateReportStatus(ctx context.Context, actor *models.User, id uuid.UUID, req *UpdateReportStatusRequest) (*models.Report, error) {
	if err := s.gate.Authorize(actor, CapabilityAdmin); err != nil {
		return nil, err
	}
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, apperrors.Validation(i18n.KeyReportInvalidStatus, nil)
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, i18n.KeyReportNotFound)
	}

	from, to := report.Status, req.Status
	if from == to {
		return report, nil
	}
	if !from.CanTransitionTo(to) {
		return nil, transitionError(i18n.KeyReportTransition, from, to)
	}

	if err := s.reports.UpdateStatus(ctx, id, from, to); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, transitionError(i18n.KeyReportTransition, from, to)
		}
		return nil, storeError(err, i18n.KeyReportNotFound)
	}
	report.Status = to

	metrics.RecordTransition("report", "status", string(to))
	s.activity.Record(ctx, actor, models.ActionReportStatus, string(to))
	return report, nil
}

// CreateTicket opens a ticket. The opening message is also stored as the
// first entry of the conversation.
func (s *SupportService) CreateTicket(ctx context.Context, actor *models.User, req *CreateTicketRequest) (*models.SupportTicket, error) {
	if err := s.gate.Authorize(actor, CapabilityAuthenticated); err != nil {
		return nil, err
	}
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}
	if req.Priority == "" {
		req.Priority = models.TicketPriorityMedium
	}
	if !req.Priority.Valid() {
		return nil, apperrors.Validation(i18n.KeyTicketInvalidPriority, nil)
	}

	ticket := &models.SupportTicket{
		UserID:   actor.ID,
		Subject:  strings.TrimSpace(req.Subject),
		Message:  req.Message,
		Status:   models.TicketStatusOpen,
		Priority: req.Priority,
	}
	first := &models.SupportMessage{SenderID: actor.ID, Message: req.Message}
	if err := s.tickets.CreateTicket(ctx, ticket, first); err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}

	s.activity.Record(ctx, actor, models.ActionTicketCreated, ticket.Subject)
	return ticket, nil
}

// ListTickets returns every ticket for admins.
func (s *SupportService) ListTickets(ctx context.Context, actor *models.User, page repository.Page) ([]models.SupportTicket, int64, error) {
	if err := s.gate.Authorize(actor, CapabilityAdmin); err != nil {
		return nil, 0, err
	}
	return s.listTickets(ctx, repository.TicketFilter{}, page)
}

// MyTickets returns the tickets the actor opened.
func (s *SupportService) MyTickets(ctx context.Context, actor *models.User, page repository.Page) ([]models.SupportTicket, int64, error) {
	if err := s.gate.Authorize(actor, CapabilityAuthenticated); err != nil {
		return nil, 0, err
	}
	id := actor.ID
	return s.listTickets(ctx, repository.TicketFilter{UserID: &id}, page)
}

func (s *SupportService) listTickets(ctx context.Context, filter repository.TicketFilter, page repository.Page) ([]models.SupportTicket, int64, error) {
	tickets, total, err := s.tickets.ListTickets(ctx, filter, page)
	if err != nil {
		return nil, 0, apperrors.Internal(i18n.KeyInternalError, err)
	}
	return tickets, total, nil
}

// UpdateTicketStatus moves a ticket along its workflow. resolvedAt is set
// when the ticket is resolved and cleared when it is reopened.
func (s *SupportService) UpdateTicketStatus(ctx context.Context, actor *models.User, id uuid.UUID, req *UpdateTicketStatusRequest) (*models.SupportTicket, error) {
	if err := s.gate.Authorize(actor, CapabilityAdmin); err != nil {
		return nil, err
	}
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, apperrors.Validation(i18n.KeyTicketInvalidStatus, nil)
	}

	ticket, err := s.tickets.GetTicket(ctx, id)
	if err != nil {
		return nil, storeError(err, i18n.KeyTicketNotFound)
	}

	from, to := ticket.Status, req.Status
	if from == to {
		return ticket, nil
	}
	if !from.CanTransitionTo(to) {
		return nil, transitionError(i18n.KeyTicketTransition, from, to)
	}

	resolvedAt := ticket.ResolvedAt
	switch to {
	case models.TicketStatusResolved:
		now := s.now()
		resolvedAt = &now
	case models.TicketStatusOpen, models.TicketStatusInProgress:
		resolvedAt = nil
	}

	if err := s.tickets.UpdateTicketStatus(ctx, id, from, to, resolvedAt); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, transitionError(i18n.KeyTicketTransition, from, to)
		}
		return nil, storeError(err, i18n.KeyTicketNotFound)
	}
	ticket.Status = to
	ticket.ResolvedAt = resolvedAt

	metrics.RecordTransition("ticket", "status", string(to))
	s.activity.Record(ctx, actor, models.ActionTicketStatus, string(to))
	return ticket, nil
}

// Messages returns a ticket's conversation, oldest first.
func (s *SupportService) Messages(ctx context.Context, actor *models.User, ticketID uuid.UUID) ([]models.SupportMessage, error) {
	if _, err := s.ownedTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}

	messages, err := s.tickets.ListMessages(ctx, ticketID)
	if err != nil {
		return nil, apperrors.Internal(i18n.KeyInternalError, err)
	}
	return messages, nil
}

// PostMessage appends to a ticket's conversation. Closed tickets take no
// further messages.
func (s *SupportService) PostMessage(ctx context.Context, actor *models.User, ticketID uuid.UUID, req *PostMessageRequest) (*models.SupportMessage, error) {
	ticket, err := s.ownedTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidationFailure(utils.ValidateStruct(req)); err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketStatusClosed {
		return nil, apperrors.InvalidState(i18n.KeyTicketClosed)
	}

	msg := &models.SupportMessage{TicketID: ticket.ID, SenderID: actor.ID, Message: req.Message}
	if err := s.tickets.AddMessage(ctx, msg); err != nil {
		return nil, storeError(err, i18n.KeyTicketNotFound)
	}

	s.activity.Record(ctx, actor, models.ActionTicketMessagePosted, ticket.Subject)
	return msg, nil
}

func (s *SupportService) ownedTicket(ctx context.Context, actor *models.User, ticketID uuid.UUID) (*models.SupportTicket, error) {
	if err := s.gate.Authorize(actor, CapabilityAuthenticated); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, storeError(err, i18n.KeyTicketNotFound)
	}
	if err := s.gate.Authorize(actor, CapabilityOwnerOrAdmin, ticket.UserID); err != nil {
		return nil, err
	}
	return ticket, nil
}
