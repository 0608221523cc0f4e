package repository

import (
	"heavenlist/internal/models"

	"gorm.io/gorm"
)

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) Create(t *models.Tenant) error {
	return r.db.Create(t).Error
}

func (r *TenantRepository) GetByID(id uint) (*models.Tenant, error) {
	var t models.Tenant
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TenantRepository) GetByEmail(email string) (*models.Tenant, error) {
	var t models.Tenant
	if err := r.db.Where("email = ?", email).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TenantRepository) GetByGoogleID(googleID string) (*models.Tenant, error) {
	var t models.Tenant
	if err := r.db.Where("google_id = ?", googleID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAll returns every tenant. Used by OTP verification, which has to try each
// candidate because the code does not identify its owner.
func (r *TenantRepository) ListAll() ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := r.db.Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *TenantRepository) Update(t *models.Tenant) error {
	return r.db.Save(t).Error
}

func (r *TenantRepository) SetLoggedIn(id uint, loggedIn bool) error {
	return r.db.Model(&models.Tenant{}).Where("id = ?", id).Update("is_logged_in", loggedIn).Error
}

func (r *TenantRepository) UpdatePassword(id uint, hash string) error {
	return r.db.Model(&models.Tenant{}).Where("id = ?", id).Update("password_hash", hash).Error
}
