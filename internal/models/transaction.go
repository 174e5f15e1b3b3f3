// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction records a purchase. SellerID and Amount are copied from the
// product when the purchase happens and never follow later product changes.
type Transaction struct {
	BaseModel
	ProductID   uuid.UUID         `json:"productId" gorm:"type:uuid;not null;index"`
	BuyerID     uuid.UUID         `json:"buyerId" gorm:"type:uuid;not null;index"`
	SellerID    uuid.UUID         `json:"sellerId" gorm:"type:uuid;not null;index"`
	Amount      Money             `json:"amount" gorm:"type:decimal(10,2);not null"`
	Status      TransactionStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	CompletedAt *time.Time        `json:"completedAt"`

	// Relationships
	Product *Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Buyer   *User    `json:"-" gorm:"foreignKey:BuyerID;constraint:OnDelete:RESTRICT"`
	Seller  *User    `json:"-" gorm:"foreignKey:SellerID;constraint:OnDelete:RESTRICT"`
}

func (t *Transaction) IsParticipant(userID uuid.UUID) bool {
	return t.BuyerID == userID || t.SellerID == userID
}
