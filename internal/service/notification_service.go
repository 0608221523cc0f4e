package service

import (
	"context"
	"encoding/json"
	"log"

	"heavenlist/internal/domain"
	"heavenlist/internal/models"
	"heavenlist/internal/repository"
	"heavenlist/internal/ws"
)

// NotificationService persists in-app notifications, pushes them over the
// websocket hub, and sends best-effort email. Email failures are logged and
// swallowed: the state change the notification describes already happened.
type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
	mail Mailer
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub, mail Mailer) *NotificationService {
	return &NotificationService{repo: repo, hub: hub, mail: mail}
}

func (s *NotificationService) ListForUser(userID uint, role string) ([]models.Notification, error) {
	return s.repo.ListForUser(userID, role)
}

func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.repo.MarkRead(id, userID)
}

func (s *NotificationService) NotifyTenant(tenantID uint, email, name, notifType, title, body string, data map[string]interface{}) {
	s.notify(domain.RoleTenant, tenantID, email, name, notifType, title, body, data)
}

func (s *NotificationService) NotifyLandlord(landlordID uint, email, name, notifType, title, body string, data map[string]interface{}) {
	s.notify(domain.RoleLandlord, landlordID, email, name, notifType, title, body, data)
}

func (s *NotificationService) notify(role string, userID uint, email, name, notifType, title, body string, data map[string]interface{}) {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	n := &models.Notification{
		UserID: userID,
		Role:   role,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	}
	if err := s.repo.Create(n); err != nil {
		log.Printf("[notify] persist %s for %s %d: %v", notifType, role, userID, err)
	}
	if s.hub != nil {
		s.hub.BroadcastToUser(role, userID, map[string]interface{}{
			"type":  notifType,
			"title": title,
			"body":  body,
			"data":  data,
		})
	}
	if s.mail != nil && email != "" {
		html := "<p>" + body + "</p>"
		if err := s.mail.Send(context.Background(), email, name, title, html); err != nil {
			log.Printf("[notify] email %s to %s: %v", notifType, email, err)
		}
	}
}
