package models

import (
	"time"

	"gorm.io/gorm"
)

type Inspection struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	TenantID      uint           `gorm:"not null;index" json:"tenant_id"`
	ListingID     uint           `gorm:"not null;index" json:"listing_id"`
	LandlordID    uint           `gorm:"not null;index" json:"landlord_id"`
	ScheduledDate time.Time      `gorm:"not null" json:"scheduled_date"`
	TimeRange     string         `gorm:"size:64" json:"time_range"`                          // e.g. "10am - 12pm"
	Days          string         `gorm:"size:16;not null" json:"days"`                       // weekday name, Monday..Saturday
	Status        string         `gorm:"size:20;not null;default:'SCHEDULED'" json:"status"` // SCHEDULED | CONFIRMED | CANCELLED
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Tenant   Tenant   `gorm:"foreignKey:TenantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Landlord Landlord `gorm:"foreignKey:LandlordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Listing  Listing  `gorm:"foreignKey:ListingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Inspection) TableName() string {
	return "inspections"
}
