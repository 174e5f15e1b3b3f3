// Package memory is a process-local entity store with the same conditional
// write semantics as the relational one. It backs DATABASE_DRIVER=memory and
// the service and handler tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/repository"
)

type table[T any] struct {
	rows  map[uuid.UUID]T
	order []uuid.UUID
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]T)}
}

func (t *table[T]) insert(id uuid.UUID, row T) {
	t.rows[id] = row
	t.order = append(t.order, id)
}

// newestFirst returns the rows matching keep, most recent insert first.
func (t *table[T]) newestFirst(keep func(T) bool) []T {
	out := make([]T, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		row := t.rows[t.order[i]]
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func window[T any](rows []T, page repository.Page) []T {
	if page.Limit <= 0 {
		return rows
	}
	start := page.Offset()
	if start >= len(rows) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

type state struct {
	mu           sync.RWMutex
	now          func() time.Time
	users        *table[models.User]
	categories   *table[models.Category]
	products     *table[models.Product]
	transactions *table[models.Transaction]
	reports      *table[models.Report]
	tickets      *table[models.SupportTicket]
	messages     *table[models.SupportMessage]
	activity     *table[models.ActivityLog]
}

// New returns an empty store.
func New() *repository.Repositories {
	s := &state{
		now:          time.Now,
		users:        newTable[models.User](),
		categories:   newTable[models.Category](),
		products:     newTable[models.Product](),
		transactions: newTable[models.Transaction](),
		reports:      newTable[models.Report](),
		tickets:      newTable[models.SupportTicket](),
		messages:     newTable[models.SupportMessage](),
		activity:     newTable[models.ActivityLog](),
	}

	return &repository.Repositories{
		Users:        &userRepo{s},
		Categories:   &categoryRepo{s},
		Products:     &productRepo{s},
		Transactions: &transactionRepo{s},
		Reports:      &reportRepo{s},
		Support:      &supportRepo{s},
		Activity:     &activityRepo{s},
		Stats:        &statsRepo{s},
		Health:       &healthChecker{},
	}
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
}

func conflict(op string) error {
	return fmt.Errorf("%s: %w", op, repository.ErrConflict)
}

type userRepo struct{ s *state }

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users.rows {
		if existing.Email == user.Email {
			return fmt.Errorf("create user: %w", repository.ErrDuplicate)
		}
	}
	user.Prepare(r.s.now())
	r.s.users.insert(user.ID, *user)
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users.rows[id]
	if !ok {
		return nil, notFound("get user")
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users.rows {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, notFound("get user by email")
}

func (r *userRepo) List(ctx context.Context, page repository.Page) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.users.newestFirst(nil)
	return window(rows, page), int64(len(rows)), nil
}

// SetAdmin flags an existing user as admin. The HTTP surface never grants
// admin rights; this exists for bootstrapping the memory driver and tests.
func SetAdmin(repos *repository.Repositories, id uuid.UUID) error {
	r, ok := repos.Users.(*userRepo)
	if !ok {
		return fmt.Errorf("set admin: not a memory store")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users.rows[id]
	if !ok {
		return notFound("set admin")
	}
	user.IsAdmin = true
	r.s.users.rows[id] = user
	return nil
}

type categoryRepo struct{ s *state }

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.categories.rows {
		if existing.Name == category.Name {
			return fmt.Errorf("create category: %w", repository.ErrDuplicate)
		}
	}
	category.Prepare(r.s.now())
	r.s.categories.insert(category.ID, *category)
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	category, ok := r.s.categories.rows[id]
	if !ok {
		return nil, notFound("get category")
	}
	return &category, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.categories.newestFirst(nil)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

type productRepo struct{ s *state }

func (r *productRepo) CreateForSeller(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seller, ok := r.s.users.rows[product.SellerID]
	if !ok {
		return notFound("create product")
	}
	product.Prepare(r.s.now())
	r.s.products.insert(product.ID, *product)

	seller.IsSeller = true
	r.s.users.rows[seller.ID] = seller
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	product, ok := r.s.products.rows[id]
	if !ok {
		return nil, notFound("get product")
	}
	return &product, nil
}

func (r *productRepo) List(ctx context.Context, filter repository.ProductFilter, page repository.Page) ([]models.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	rows := r.s.products.newestFirst(func(p models.Product) bool {
		switch {
		case filter.CategoryID != nil && p.CategoryID != *filter.CategoryID:
			return false
		case filter.SellerID != nil && p.SellerID != *filter.SellerID:
			return false
		case filter.Status != nil && p.Status != *filter.Status:
			return false
		case filter.ApprovalStatus != nil && p.ApprovalStatus != *filter.ApprovalStatus:
			return false
		case search != "":
			return strings.Contains(strings.ToLower(p.Title), search) ||
				strings.Contains(strings.ToLower(p.Description), search)
		}
		return true
	})
	return window(rows, page), int64(len(rows)), nil
}

func (r *productRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ProductStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product, ok := r.s.products.rows[id]
	if !ok {
		return notFound("update product status")
	}
	if product.Status != from {
		return conflict("update product status")
	}
	product.Status = to
	r.s.products.rows[id] = product
	return nil
}

func (r *productRepo) UpdateApproval(ctx context.Context, id uuid.UUID, from, to models.ApprovalStatus, reason *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product, ok := r.s.products.rows[id]
	if !ok {
		return notFound("update product approval")
	}
	if product.ApprovalStatus != from {
		return conflict("update product approval")
	}
	product.ApprovalStatus = to
	product.RejectionReason = reason
	r.s.products.rows[id] = product
	return nil
}

type transactionRepo struct{ s *state }

func (r *transactionRepo) Purchase(ctx context.Context, txn *models.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product, ok := r.s.products.rows[txn.ProductID]
	if !ok || product.Status != models.ProductStatusActive {
		return conflict("mark product sold")
	}
	product.Status = models.ProductStatusSold
	r.s.products.rows[product.ID] = product

	txn.Prepare(r.s.now())
	r.s.transactions.insert(txn.ID, *txn)
	return nil
}

func (r *transactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	txn, ok := r.s.transactions.rows[id]
	if !ok {
		return nil, notFound("get transaction")
	}
	return &txn, nil
}

func (r *transactionRepo) List(ctx context.Context, filter repository.TransactionFilter, page repository.Page) ([]models.Transaction, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.transactions.newestFirst(func(t models.Transaction) bool {
		return filter.ParticipantID == nil || t.IsParticipant(*filter.ParticipantID)
	})
	return window(rows, page), int64(len(rows)), nil
}

func (r *transactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.TransactionStatus, completedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	txn, ok := r.s.transactions.rows[id]
	if !ok {
		return notFound("update transaction status")
	}
	if txn.Status != from {
		return conflict("update transaction status")
	}
	txn.Status = to
	txn.CompletedAt = completedAt
	r.s.transactions.rows[id] = txn
	return nil
}

type reportRepo struct{ s *state }

func (r *reportRepo) Create(ctx context.Context, report *models.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	report.Prepare(r.s.now())
	r.s.reports.insert(report.ID, *report)
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	report, ok := r.s.reports.rows[id]
	if !ok {
		return nil, notFound("get report")
	}
	return &report, nil
}

func (r *reportRepo) List(ctx context.Context, page repository.Page) ([]models.Report, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.reports.newestFirst(nil)
	return window(rows, page), int64(len(rows)), nil
}

func (r *reportRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.ReportStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	report, ok := r.s.reports.rows[id]
	if !ok {
		return notFound("update report status")
	}
	if report.Status != from {
		return conflict("update report status")
	}
	report.Status = to
	r.s.reports.rows[id] = report
	return nil
}

type supportRepo struct{ s *state }

func (r *supportRepo) CreateTicket(ctx context.Context, ticket *models.SupportTicket, first *models.SupportMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	ticket.Prepare(now)
	r.s.tickets.insert(ticket.ID, *ticket)

	if first != nil {
		first.TicketID = ticket.ID
		first.Prepare(now)
		r.s.messages.insert(first.ID, *first)
	}
	return nil
}

func (r *supportRepo) GetTicket(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ticket, ok := r.s.tickets.rows[id]
	if !ok {
		return nil, notFound("get ticket")
	}
	return &ticket, nil
}

func (r *supportRepo) ListTickets(ctx context.Context, filter repository.TicketFilter, page repository.Page) ([]models.SupportTicket, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.tickets.newestFirst(func(t models.SupportTicket) bool {
		return filter.UserID == nil || t.UserID == *filter.UserID
	})
	return window(rows, page), int64(len(rows)), nil
}

func (r *supportRepo) UpdateTicketStatus(ctx context.Context, id uuid.UUID, from, to models.TicketStatus, resolvedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ticket, ok := r.s.tickets.rows[id]
	if !ok {
		return notFound("update ticket status")
	}
	if ticket.Status != from {
		return conflict("update ticket status")
	}
	ticket.Status = to
	ticket.ResolvedAt = resolvedAt
	r.s.tickets.rows[id] = ticket
	return nil
}

func (r *supportRepo) AddMessage(ctx context.Context, msg *models.SupportMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tickets.rows[msg.TicketID]; !ok {
		return notFound("create ticket message")
	}
	msg.Prepare(r.s.now())
	r.s.messages.insert(msg.ID, *msg)
	return nil
}

func (r *supportRepo) ListMessages(ctx context.Context, ticketID uuid.UUID) ([]models.SupportMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.messages.newestFirst(func(m models.SupportMessage) bool {
		return m.TicketID == ticketID
	})
	// Conversations read oldest first.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

type activityRepo struct{ s *state }

func (r *activityRepo) Append(ctx context.Context, entry *models.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.Prepare(r.s.now())
	r.s.activity.insert(entry.ID, *entry)
	return nil
}

func (r *activityRepo) List(ctx context.Context, filter repository.ActivityFilter) ([]models.ActivityLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.activity.newestFirst(func(a models.ActivityLog) bool {
		if len(filter.Actions) == 0 {
			return true
		}
		for _, action := range filter.Actions {
			if a.Action == action {
				return true
			}
		}
		return false
	})
	return window(rows, repository.Page{Page: 1, Limit: filter.Limit}), nil
}

type statsRepo struct{ s *state }

func (r *statsRepo) Statistics(ctx context.Context, since time.Time) (*models.Statistics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := &models.Statistics{TotalUsers: int64(len(r.s.users.rows))}
	for _, u := range r.s.users.rows {
		if u.IsSeller {
			stats.TotalSellers++
		}
	}
	for _, p := range r.s.products.rows {
		stats.TotalProducts++
		if p.Status == models.ProductStatusActive {
			stats.ActiveProducts++
		}
		if p.ApprovalStatus == models.ApprovalStatusPending {
			stats.PendingApprovals++
		}
	}
	for _, t := range r.s.transactions.rows {
		if !t.CreatedAt.Before(since) {
			stats.TodayTransactions++
		}
	}
	for _, rep := range r.s.reports.rows {
		if rep.Status == models.ReportStatusPending {
			stats.PendingReports++
		}
	}
	for _, t := range r.s.tickets.rows {
		if t.Status == models.TicketStatusOpen || t.Status == models.TicketStatusInProgress {
			stats.OpenTickets++
		}
	}
	return stats, nil
}

type healthChecker struct{}

func (healthChecker) Ping(ctx context.Context) error {
	return ctx.Err()
}
