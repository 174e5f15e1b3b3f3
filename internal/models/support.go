package models

import (
	"time"

	"github.com/google/uuid"
)

// Report flags a user, a product, or both for admin review.
type Report struct {
	BaseModel
	ReporterID        uuid.UUID    `json:"reporterId" gorm:"type:uuid;not null;index"`
	ReportedUserID    *uuid.UUID   `json:"reportedUserId" gorm:"type:uuid;index"`
	ReportedProductID *uuid.UUID   `json:"reportedProductId" gorm:"type:uuid;index"`
	Reason            string       `json:"reason" gorm:"size:255;not null"`
	Description       string       `json:"description" gorm:"type:text;not null"`
	Status            ReportStatus `json:"status" gorm:"type:varchar(20);not null;index"`

	Reporter        *User    `json:"-" gorm:"foreignKey:ReporterID;constraint:OnDelete:RESTRICT"`
	ReportedUser    *User    `json:"-" gorm:"foreignKey:ReportedUserID;constraint:OnDelete:SET NULL"`
	ReportedProduct *Product `json:"-" gorm:"foreignKey:ReportedProductID;constraint:OnDelete:SET NULL"`
}

type SupportTicket struct {
	BaseModel
	UserID     uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	Subject    string         `json:"subject" gorm:"size:255;not null"`
	Message    string         `json:"message" gorm:"type:text;not null"`
	Status     TicketStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	Priority   TicketPriority `json:"priority" gorm:"type:varchar(10);not null"`
	ResolvedAt *time.Time     `json:"resolvedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

type SupportMessage struct {
	BaseModel
	TicketID uuid.UUID `json:"ticketId" gorm:"type:uuid;not null;index"`
	SenderID uuid.UUID `json:"senderId" gorm:"type:uuid;not null"`
	Message  string    `json:"message" gorm:"type:text;not null"`

	Ticket *SupportTicket `json:"-" gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	Sender *User          `json:"-" gorm:"foreignKey:SenderID;constraint:OnDelete:RESTRICT"`
}
