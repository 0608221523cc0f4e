package service

import (
	"errors"
	"fmt"
	"time"

	"heavenlist/internal/domain"
	"heavenlist/internal/models"
	"heavenlist/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidDay              = errors.New("inspections run Monday through Saturday")
	ErrPaymentRequired         = errors.New("a successful payment is required before scheduling an inspection")
	ErrMissingContact          = errors.New("tenant or landlord has no usable email")
	ErrInspectionNotFound      = errors.New("inspection not found")
	ErrInvalidInspectionStatus = errors.New("invalid inspection status")
)

// Weekday names accepted for scheduling. Sunday is deliberately absent.
var inspectionDays = map[string]time.Weekday{
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

type InspectionService struct {
	inspectionRepo *repository.InspectionRepository
	listingRepo    *repository.ListingRepository
	tenantRepo     *repository.TenantRepository
	landlordRepo   *repository.LandlordRepository
	txnRepo        *repository.TransactionRepository
	notif          *NotificationService
}

func NewInspectionService(inspectionRepo *repository.InspectionRepository, listingRepo *repository.ListingRepository, tenantRepo *repository.TenantRepository, landlordRepo *repository.LandlordRepository, txnRepo *repository.TransactionRepository, notif *NotificationService) *InspectionService {
	return &InspectionService{
		inspectionRepo: inspectionRepo,
		listingRepo:    listingRepo,
		tenantRepo:     tenantRepo,
		landlordRepo:   landlordRepo,
		txnRepo:        txnRepo,
		notif:          notif,
	}
}

// NextOccurrence returns the next calendar date strictly after today that
// falls on the target weekday. When today already is that weekday the date
// lands a full week out, never today.
func NextOccurrence(today time.Time, target time.Weekday) time.Time {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	delta := (int(target) - int(day.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return day.AddDate(0, 0, delta)
}

// Schedule books the next occurrence of the requested weekday for a tenant
// who has completed a payment on the listing.
func (s *InspectionService) Schedule(tenantID, listingID uint, requestedDay, timeRange string) (*models.Inspection, error) {
	target, ok := inspectionDays[requestedDay]
	if !ok {
		return nil, ErrInvalidDay
	}
	paid, err := s.txnRepo.HasSuccessForTenantListing(tenantID, listingID)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, ErrPaymentRequired
	}
	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	tenant, err := s.tenantRepo.GetByID(tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	landlord, err := s.landlordRepo.GetByID(listing.LandlordID)
	if err != nil {
		return nil, ErrMissingContact
	}
	if tenant.Email == "" || landlord.Email == "" {
		return nil, ErrMissingContact
	}
	inspection := &models.Inspection{
		TenantID:      tenantID,
		ListingID:     listingID,
		LandlordID:    landlord.ID,
		ScheduledDate: NextOccurrence(time.Now(), target),
		TimeRange:     timeRange,
		Days:          requestedDay,
		Status:        domain.InspectionStatusScheduled,
	}
	if err := s.inspectionRepo.Create(inspection); err != nil {
		return nil, err
	}
	if s.notif != nil {
		when := inspection.ScheduledDate.Format("Monday, 2 January 2006")
		body := fmt.Sprintf("Inspection for listing #%d scheduled on %s (%s).", listingID, when, timeRange)
		data := map[string]interface{}{"inspection_id": inspection.ID, "listing_id": listingID}
		s.notif.NotifyTenant(tenant.ID, tenant.Email, tenant.FullName, "INSPECTION_SCHEDULED", "Inspection scheduled", body, data)
		s.notif.NotifyLandlord(landlord.ID, landlord.Email, landlord.FullName, "INSPECTION_SCHEDULED", "Inspection scheduled", body, data)
	}
	return inspection, nil
}

// Confirm moves an inspection to a new status. The status must belong to the
// inspection enum; arbitrary strings are refused.
func (s *InspectionService) Confirm(inspectionID uint, newStatus string) (*models.Inspection, error) {
	if !domain.ValidInspectionStatus(newStatus) {
		return nil, ErrInvalidInspectionStatus
	}
	inspection, err := s.inspectionRepo.GetByID(inspectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInspectionNotFound
		}
		return nil, err
	}
	tenant, err := s.tenantRepo.GetByID(inspection.TenantID)
	if err != nil {
		return nil, ErrMissingContact
	}
	if _, err := s.listingRepo.GetByID(inspection.ListingID); err != nil {
		return nil, ErrListingNotFound
	}
	if _, err := s.landlordRepo.GetByID(inspection.LandlordID); err != nil {
		return nil, ErrMissingContact
	}
	if err := s.inspectionRepo.UpdateStatus(inspectionID, newStatus); err != nil {
		return nil, err
	}
	inspection.Status = newStatus
	if s.notif != nil {
		body := fmt.Sprintf("Your inspection for listing #%d is now %s.", inspection.ListingID, newStatus)
		s.notif.NotifyTenant(tenant.ID, tenant.Email, tenant.FullName, "INSPECTION_UPDATED", "Inspection update", body,
			map[string]interface{}{"inspection_id": inspection.ID, "status": newStatus})
	}
	return inspection, nil
}

func (s *InspectionService) ListForTenant(tenantID uint) ([]models.Inspection, error) {
	return s.inspectionRepo.ListByTenant(tenantID)
}

func (s *InspectionService) ListForLandlord(landlordID uint) ([]models.Inspection, error) {
	return s.inspectionRepo.ListByLandlord(landlordID)
}
