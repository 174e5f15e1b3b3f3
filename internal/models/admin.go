// internal/models/admin.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity actions recorded by the services.
const (
	ActionUserRegistered      = "user.registered"
	ActionUserLogin           = "user.login"
	ActionAdminLogin          = "admin.login"
	ActionCategoryCreated     = "category.created"
	ActionProductCreated      = "product.created"
	ActionProductStatus       = "product.status_changed"
	ActionProductApproval     = "product.approval_changed"
	ActionTransactionCreated  = "transaction.created"
	ActionTransactionStatus   = "transaction.status_changed"
	ActionReportCreated       = "report.created"
	ActionReportStatus        = "report.status_changed"
	ActionTicketCreated       = "ticket.created"
	ActionTicketStatus        = "ticket.status_changed"
	ActionTicketMessagePosted = "ticket.message_posted"
)

// ActivityLog is append-only. A nil UserID marks a system action.
type ActivityLog struct {
	BaseModel
	UserID  *uuid.UUID `json:"userId" gorm:"type:uuid;index"`
	Action  string     `json:"action" gorm:"size:100;not null;index"`
	Details *string    `json:"details" gorm:"type:text"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

type Session struct {
	ID        string    `json:"id" gorm:"size:64;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type Statistics struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalProducts     int64 `json:"totalProducts"`
	TodayTransactions int64 `json:"todayTransactions"`
	PendingReports    int64 `json:"pendingReports"`
	ActiveProducts    int64 `json:"activeProducts"`
	TotalSellers      int64 `json:"totalSellers"`
	PendingApprovals  int64 `json:"pendingApprovals"`
	OpenTickets       int64 `json:"openTickets"`
}
