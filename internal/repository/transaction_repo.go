package repository

import (
	"time"

	"heavenlist/internal/domain"
	"heavenlist/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(t *models.Transaction) error {
	return r.db.Create(t).Error
}

func (r *TransactionRepository) GetByReference(ref string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.Where("reference = ?", ref).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) ListByTenant(tenantID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&txns).Error
	return txns, err
}

func (r *TransactionRepository) ListByLandlord(landlordID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.Where("landlord_id = ?", landlordID).Order("created_at DESC").Find(&txns).Error
	return txns, err
}

// HasSuccessForTenantListing reports whether the tenant has a settled payment
// on the listing. Pending or failed attempts do not count.
func (r *TransactionRepository) HasSuccessForTenantListing(tenantID, listingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).
		Where("tenant_id = ? AND listing_id = ? AND status = ?", tenantID, listingID, domain.TransactionStatusSuccess).
		Count(&count).Error
	return count > 0, err
}

// FinalizeIfPending moves a transaction to a terminal status exactly once.
// The conditional update is the concurrency gate: of two racing verifications
// only one sees RowsAffected == 1.
func (r *TransactionRepository) FinalizeIfPending(reference, status string, at time.Time) (bool, error) {
	res := r.db.Model(&models.Transaction{}).
		Where("reference = ? AND status = ?", reference, domain.TransactionStatusPending).
		Updates(map[string]interface{}{"status": status, "payment_date": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CreateWithReservation persists the pending transaction and applies the
// optimistic balance write to the listing in one DB transaction, so initiation
// is all-or-nothing.
func (r *TransactionRepository) CreateWithReservation(t *models.Transaction, listings *ListingRepository, expected *float64, newBalance float64, available bool, claimTenantID *uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		return listings.CompareAndSetBalance(tx, t.ListingID, expected, newBalance, available, claimTenantID, false)
	})
}
