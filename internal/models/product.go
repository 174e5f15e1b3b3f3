// internal/models/product.go
package models

import (
	"github.com/google/uuid"
)

type Category struct {
	BaseModel
	Name string `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Icon string `json:"icon" gorm:"size:100;not null"`
}

type Product struct {
	BaseModel
	Title           string         `json:"title" gorm:"size:255;not null"`
	Description     string         `json:"description" gorm:"type:text;not null"`
	Price           Money          `json:"price" gorm:"type:decimal(10,2);not null"`
	CategoryID      uuid.UUID      `json:"categoryId" gorm:"type:uuid;not null;index"`
	SellerID        uuid.UUID      `json:"sellerId" gorm:"type:uuid;not null;index"`
	Game            string         `json:"game" gorm:"size:255;not null"`
	ImageURL        *string        `json:"imageUrl" gorm:"type:text"`
	Status          ProductStatus  `json:"status" gorm:"type:varchar(20);not null;index"`
	ApprovalStatus  ApprovalStatus `json:"approvalStatus" gorm:"type:varchar(20);not null;index"`
	RejectionReason *string        `json:"rejectionReason" gorm:"type:text"`

	// Relationships
	Category *Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Seller   *User     `json:"-" gorm:"foreignKey:SellerID;constraint:OnDelete:RESTRICT"`
}

// VisibleTo reports whether viewer may see the product outside the approved
// catalogue. Sellers see their own listings and admins see everything.
func (p *Product) VisibleTo(viewer *User) bool {
	if p.ApprovalStatus == ApprovalStatusApproved {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.IsAdmin || viewer.ID == p.SellerID
}
