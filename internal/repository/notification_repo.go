package repository

import (
	"time"

	"heavenlist/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListForUser(userID uint, role string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ? AND role = ?", userID, role).
		Order("created_at DESC").Limit(100).Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) MarkRead(id, userID uint) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", &now).Error
}
