package repository

import (
	"heavenlist/internal/models"

	"gorm.io/gorm"
)

type LandlordRepository struct {
	db *gorm.DB
}

func NewLandlordRepository(db *gorm.DB) *LandlordRepository {
	return &LandlordRepository{db: db}
}

func (r *LandlordRepository) Create(l *models.Landlord) error {
	return r.db.Create(l).Error
}

func (r *LandlordRepository) GetByID(id uint) (*models.Landlord, error) {
	var l models.Landlord
	if err := r.db.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LandlordRepository) GetByEmail(email string) (*models.Landlord, error) {
	var l models.Landlord
	if err := r.db.Where("email = ?", email).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LandlordRepository) ListAll() ([]models.Landlord, error) {
	var landlords []models.Landlord
	if err := r.db.Find(&landlords).Error; err != nil {
		return nil, err
	}
	return landlords, nil
}

func (r *LandlordRepository) Update(l *models.Landlord) error {
	return r.db.Save(l).Error
}

func (r *LandlordRepository) SetLoggedIn(id uint, loggedIn bool) error {
	return r.db.Model(&models.Landlord{}).Where("id = ?", id).Update("is_logged_in", loggedIn).Error
}

func (r *LandlordRepository) UpdatePassword(id uint, hash string) error {
	return r.db.Model(&models.Landlord{}).Where("id = ?", id).Update("password_hash", hash).Error
}
