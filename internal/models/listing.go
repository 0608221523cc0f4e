package models

import (
	"time"

	"gorm.io/gorm"
)

// Listing is a rentable property. Price is in currency units (no minor units);
// Balance stays nil until the first part payment reserves the listing.
type Listing struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Title             string         `gorm:"size:255;not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description"`
	Location          string         `gorm:"size:255" json:"location"`
	State             string         `gorm:"size:64;index" json:"state"`
	Type              string         `gorm:"size:64" json:"type"` // e.g. FLAT, DUPLEX, SELF_CONTAIN
	Bedrooms          int            `json:"bedrooms"`
	Bathrooms         int            `json:"bathrooms"`
	Price             int64          `gorm:"not null" json:"price"`
	Balance           *float64       `json:"balance"`                                           // remaining amount owed; nil before first payment
	PartPayment       string         `gorm:"size:8;not null;default:'20%'" json:"part_payment"` // 10% | 20% | 30%
	PartPaymentAmount float64        `json:"part_payment_amount"`
	IsAvailable       bool           `gorm:"default:false;index" json:"is_available"`
	Status            string         `gorm:"size:20;not null;default:'PENDING';index" json:"status"` // PENDING | ACCEPTED | REJECTED
	IsClicked         uint           `gorm:"default:0" json:"is_clicked"`
	ImageURL          string         `gorm:"size:512" json:"image_url"`
	ThumbnailURL      string         `gorm:"size:512" json:"thumbnail_url"`
	LandlordID        uint           `gorm:"not null;index" json:"landlord_id"`
	TenantID          *uint          `gorm:"index" json:"tenant_id"` // tenant who reserved the listing; nil until first payment
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Landlord Landlord `gorm:"foreignKey:LandlordID" json:"-"`
}

func (Listing) TableName() string {
	return "listings"
}

// CurrentBalance returns the remaining amount owed, falling back to the full
// price before any payment has been made.
func (l *Listing) CurrentBalance() float64 {
	if l.Balance != nil {
		return *l.Balance
	}
	return float64(l.Price)
}
