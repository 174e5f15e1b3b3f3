// Package repository is the entity store. Every conditional write takes the
// state the caller observed and fails with ErrConflict when the row has moved
// on, so concurrent requests cannot both apply a transition.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/swordshop/backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrConflict  = errors.New("record state changed concurrently")
)

// Page selects a window of a list. A zero Limit returns every row.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	if p.Page < 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

type ProductFilter struct {
	CategoryID     *uuid.UUID
	SellerID       *uuid.UUID
	Status         *models.ProductStatus
	ApprovalStatus *models.ApprovalStatus
	Search         string
}

type TransactionFilter struct {
	// ParticipantID limits the list to transactions where the user is buyer or seller.
	ParticipantID *uuid.UUID
}

type TicketFilter struct {
	UserID *uuid.UUID
}

type ActivityFilter struct {
	Actions []string
	Limit   int
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, page Page) ([]models.User, int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type ProductRepository interface {
	// CreateForSeller inserts the product and flags its seller in one unit.
	CreateForSeller(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter, page Page) ([]models.Product, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ProductStatus) error
	UpdateApproval(ctx context.Context, id uuid.UUID, from, to models.ApprovalStatus, reason *string) error
}

type TransactionRepository interface {
	// Purchase marks the product sold if it is still active and inserts the
	// transaction. It returns ErrConflict and writes nothing when the product
	// is no longer active.
	Purchase(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, filter TransactionFilter, page Page) ([]models.Transaction, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.TransactionStatus, completedAt *time.Time) error
}

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	List(ctx context.Context, page Page) ([]models.Report, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ReportStatus) error
}

type SupportRepository interface {
	CreateTicket(ctx context.Context, ticket *models.SupportTicket, first *models.SupportMessage) error
	GetTicket(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
	ListTickets(ctx context.Context, filter TicketFilter, page Page) ([]models.SupportTicket, int64, error)
	UpdateTicketStatus(ctx context.Context, id uuid.UUID, from, to models.TicketStatus, resolvedAt *time.Time) error
	AddMessage(ctx context.Context, msg *models.SupportMessage) error
	ListMessages(ctx context.Context, ticketID uuid.UUID) ([]models.SupportMessage, error)
}

type ActivityRepository interface {
	Append(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityFilter) ([]models.ActivityLog, error)
}

type StatsRepository interface {
	// Statistics counts entities; todayTransactions counts those created at or after since.
	Statistics(ctx context.Context, since time.Time) (*models.Statistics, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Repositories bundles one implementation of every store interface.
type Repositories struct {
	Users        UserRepository
	Categories   CategoryRepository
	Products     ProductRepository
	Transactions TransactionRepository
	Reports      ReportRepository
	Support      SupportRepository
	Activity     ActivityRepository
	Stats        StatsRepository
	Health       HealthChecker
}
