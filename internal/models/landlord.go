package models

import (
	"time"

	"gorm.io/gorm"
)

type Landlord struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FullName     string         `gorm:"size:128;not null" json:"full_name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	IsLoggedIn   bool           `gorm:"default:false" json:"is_logged_in"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Listings []Listing `gorm:"foreignKey:LandlordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"listings,omitempty"`
}

func (Landlord) TableName() string {
	return "landlords"
}
