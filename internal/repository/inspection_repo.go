package repository

import (
	"heavenlist/internal/models"

	"gorm.io/gorm"
)

type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

func (r *InspectionRepository) Create(i *models.Inspection) error {
	return r.db.Create(i).Error
}

func (r *InspectionRepository) GetByID(id uint) (*models.Inspection, error) {
	var i models.Inspection
	if err := r.db.First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InspectionRepository) ListByTenant(tenantID uint) ([]models.Inspection, error) {
	var inspections []models.Inspection
	err := r.db.Where("tenant_id = ?", tenantID).Order("scheduled_date ASC").Find(&inspections).Error
	return inspections, err
}

func (r *InspectionRepository) ListByLandlord(landlordID uint) ([]models.Inspection, error) {
	var inspections []models.Inspection
	err := r.db.Where("landlord_id = ?", landlordID).Order("scheduled_date ASC").Find(&inspections).Error
	return inspections, err
}

func (r *InspectionRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Inspection{}).Where("id = ?", id).Update("status", status).Error
}
