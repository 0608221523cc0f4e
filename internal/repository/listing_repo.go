package repository

import (
	"errors"

	"heavenlist/internal/domain"
	"heavenlist/internal/models"

	"gorm.io/gorm"
)

// ErrStaleListing means a conditional listing update matched no row: the
// listing changed under us (concurrent payment or moderation) or the guard
// predicate did not hold.
var ErrStaleListing = errors.New("listing was modified concurrently")

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(l *models.Listing) error {
	return r.db.Create(l).Error
}

func (r *ListingRepository) GetByID(id uint) (*models.Listing, error) {
	var l models.Listing
	if err := r.db.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListingRepository) GetByIDForLandlord(id, landlordID uint) (*models.Listing, error) {
	var l models.Listing
	if err := r.db.Where("id = ? AND landlord_id = ?", id, landlordID).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListingRepository) ListAvailable() ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.Where("status = ? AND is_available = ?", domain.ListingStatusAccepted, true).
		Order("created_at DESC").Find(&listings).Error
	return listings, err
}

func (r *ListingRepository) ListAll() ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.Order("created_at DESC").Find(&listings).Error
	return listings, err
}

func (r *ListingRepository) ListByLandlord(landlordID uint) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.Where("landlord_id = ?", landlordID).Order("created_at DESC").Find(&listings).Error
	return listings, err
}

func (r *ListingRepository) Update(l *models.Listing) error {
	return r.db.Save(l).Error
}

func (r *ListingRepository) Delete(id, landlordID uint) error {
	res := r.db.Where("id = ? AND landlord_id = ?", id, landlordID).Delete(&models.Listing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementClicks bumps the monotonic view counter without a read-modify-write.
func (r *ListingRepository) IncrementClicks(id uint) error {
	return r.db.Model(&models.Listing{}).Where("id = ?", id).
		UpdateColumn("is_clicked", gorm.Expr("is_clicked + 1")).Error
}

// SetModerationStatus flips status/availability only when the listing still
// holds fromStatus, so concurrent admin toggles serialize on the row. Returns
// ErrStaleListing when the guard fails.
func (r *ListingRepository) SetModerationStatus(id, landlordID uint, fromStatus, toStatus string, available bool) error {
	res := r.db.Model(&models.Listing{}).
		Where("id = ? AND landlord_id = ? AND status = ?", id, landlordID, fromStatus).
		Updates(map[string]interface{}{"status": toStatus, "is_available": available})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleListing
	}
	return nil
}

// CompareAndSetBalance writes balance/availability keyed on the previously
// read balance (null-safe), acting as the optimistic concurrency gate for all
// payment-side listing mutations. Runs on tx when given, else the repo's DB.
// claimTenantID records the reserving tenant; releaseClaim clears it again,
// used when a release returns the listing to its unpaid state.
func (r *ListingRepository) CompareAndSetBalance(tx *gorm.DB, id uint, expected *float64, balance float64, available bool, claimTenantID *uint, releaseClaim bool) error {
	db := tx
	if db == nil {
		db = r.db
	}
	q := db.Model(&models.Listing{}).Where("id = ?", id)
	if expected == nil {
		q = q.Where("balance IS NULL")
	} else {
		q = q.Where("balance = ?", *expected)
	}
	updates := map[string]interface{}{"balance": balance, "is_available": available}
	if claimTenantID != nil {
		updates["tenant_id"] = *claimTenantID
	} else if releaseClaim {
		updates["tenant_id"] = nil
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleListing
	}
	return nil
}
