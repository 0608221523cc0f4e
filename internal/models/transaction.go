package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction records one payment attempt against a listing. Reference is the
// gateway correlation id; Balance is a snapshot of the listing balance after
// this payment was applied.
type Transaction struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Email             string         `gorm:"size:255;not null" json:"email"`
	Name              string         `gorm:"size:128" json:"name"`
	Amount            float64        `gorm:"not null" json:"amount"`
	Reference         string         `gorm:"size:128;uniqueIndex;not null" json:"reference"`
	PartPaymentAmount float64        `json:"part_payment_amount"` // expected minimum at initiation time
	Balance           float64        `json:"balance"`
	Status            string         `gorm:"size:20;not null;index;default:'PENDING'" json:"status"` // PENDING | SUCCESS | FAILED
	PaymentDate       *time.Time     `json:"payment_date"`
	TenantID          uint           `gorm:"not null;index" json:"tenant_id"`
	LandlordID        uint           `gorm:"not null;index" json:"landlord_id"`
	ListingID         uint           `gorm:"not null;index" json:"listing_id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Tenant   Tenant   `gorm:"foreignKey:TenantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Landlord Landlord `gorm:"foreignKey:LandlordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Listing  Listing  `gorm:"foreignKey:ListingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
