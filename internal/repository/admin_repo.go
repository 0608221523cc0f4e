package repository

import (
	"heavenlist/internal/models"

	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(a *models.Admin) error {
	return r.db.Create(a).Error
}

func (r *AdminRepository) GetByID(id uint) (*models.Admin, error) {
	var a models.Admin
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) GetByEmail(email string) (*models.Admin, error) {
	var a models.Admin
	if err := r.db.Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) ListAll() ([]models.Admin, error) {
	var admins []models.Admin
	if err := r.db.Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *AdminRepository) SetLoggedIn(id uint, loggedIn bool) error {
	return r.db.Model(&models.Admin{}).Where("id = ?", id).Update("is_logged_in", loggedIn).Error
}

func (r *AdminRepository) UpdatePassword(id uint, hash string) error {
	return r.db.Model(&models.Admin{}).Where("id = ?", id).Update("password_hash", hash).Error
}
