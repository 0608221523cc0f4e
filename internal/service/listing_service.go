package service

import (
	"errors"
	"strconv"
	"strings"

	"heavenlist/internal/domain"
	"heavenlist/internal/models"
	"heavenlist/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrInvalidStatus      = errors.New("invalid listing status")
	ErrInvalidTransition  = errors.New("listing already in requested status")
	ErrInvalidPartPayment = errors.New("part payment must be one of 10%, 20%, 30%")
)

type ListingInput struct {
	Title       string
	Description string
	Location    string
	State       string
	Type        string
	Bedrooms    int
	Bathrooms   int
	Price       int64
	PartPayment string
}

type ListingService struct {
	listingRepo *repository.ListingRepository
}

func NewListingService(listingRepo *repository.ListingRepository) *ListingService {
	return &ListingService{listingRepo: listingRepo}
}

// ParsePartPayment turns a percentage string like "20%" into its fraction.
func ParsePartPayment(s string) (float64, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), "%")
	pct, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, ErrInvalidPartPayment
	}
	return float64(pct) / 100, nil
}

func validPartPayment(s string) bool {
	for _, opt := range domain.PartPaymentOptions {
		if s == opt {
			return true
		}
	}
	return false
}

// Create registers a new listing for moderation: pending and unavailable
// until an admin accepts it.
func (s *ListingService) Create(landlordID uint, in ListingInput) (*models.Listing, error) {
	if !validPartPayment(in.PartPayment) {
		return nil, ErrInvalidPartPayment
	}
	frac, err := ParsePartPayment(in.PartPayment)
	if err != nil {
		return nil, err
	}
	l := &models.Listing{
		Title:             in.Title,
		Description:       in.Description,
		Location:          in.Location,
		State:             in.State,
		Type:              in.Type,
		Bedrooms:          in.Bedrooms,
		Bathrooms:         in.Bathrooms,
		Price:             in.Price,
		PartPayment:       in.PartPayment,
		PartPaymentAmount: float64(in.Price) * frac,
		Status:            domain.ListingStatusPending,
		IsAvailable:       false,
		LandlordID:        landlordID,
	}
	if err := s.listingRepo.Create(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ListingService) Update(landlordID, listingID uint, in ListingInput) (*models.Listing, error) {
	l, err := s.listingRepo.GetByIDForLandlord(listingID, landlordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if !validPartPayment(in.PartPayment) {
		return nil, ErrInvalidPartPayment
	}
	frac, _ := ParsePartPayment(in.PartPayment)
	l.Title = in.Title
	l.Description = in.Description
	l.Location = in.Location
	l.State = in.State
	l.Type = in.Type
	l.Bedrooms = in.Bedrooms
	l.Bathrooms = in.Bathrooms
	l.Price = in.Price
	l.PartPayment = in.PartPayment
	l.PartPaymentAmount = float64(in.Price) * frac
	if err := s.listingRepo.Update(l); err != nil {
		return nil, err
	}
	return l, nil
}

// SetImage records the uploaded photo URLs on a landlord's listing.
func (s *ListingService) SetImage(landlordID, listingID uint, imageURL, thumbnailURL string) (*models.Listing, error) {
	l, err := s.listingRepo.GetByIDForLandlord(listingID, landlordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	l.ImageURL = imageURL
	l.ThumbnailURL = thumbnailURL
	if err := s.listingRepo.Update(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ListingService) Delete(landlordID, listingID uint) error {
	if err := s.listingRepo.Delete(listingID, landlordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	return nil
}

// Get returns a listing and bumps its view counter.
func (s *ListingService) Get(listingID uint) (*models.Listing, error) {
	l, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if err := s.listingRepo.IncrementClicks(listingID); err == nil {
		l.IsClicked++
	}
	return l, nil
}

func (s *ListingService) Browse() ([]models.Listing, error) {
	return s.listingRepo.ListAvailable()
}

func (s *ListingService) ListMine(landlordID uint) ([]models.Listing, error) {
	return s.listingRepo.ListByLandlord(landlordID)
}

func (s *ListingService) ListAll() ([]models.Listing, error) {
	return s.listingRepo.ListAll()
}

// Verify is the admin moderation action. Accepting makes the listing
// available; rejecting hides it. Re-applying the current status is refused
// rather than silently ignored.
func (s *ListingService) Verify(listingID, landlordID uint, targetStatus string) (*models.Listing, error) {
	if targetStatus != domain.ListingStatusAccepted && targetStatus != domain.ListingStatusRejected {
		return nil, ErrInvalidStatus
	}
	return s.moderate(listingID, landlordID, targetStatus)
}

// Unverify only supports moving a listing to rejected.
func (s *ListingService) Unverify(listingID, landlordID uint, targetStatus string) (*models.Listing, error) {
	if targetStatus != domain.ListingStatusRejected {
		return nil, ErrInvalidStatus
	}
	return s.moderate(listingID, landlordID, targetStatus)
}

func (s *ListingService) moderate(listingID, landlordID uint, targetStatus string) (*models.Listing, error) {
	l, err := s.listingRepo.GetByIDForLandlord(listingID, landlordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if l.Status == targetStatus {
		return nil, ErrInvalidTransition
	}
	// A fully paid listing stays unavailable even when re-accepted.
	available := targetStatus == domain.ListingStatusAccepted && (l.Balance == nil || *l.Balance > 0)
	// Keyed on the status we just read, so a racing payment or second admin
	// cannot interleave between read and write.
	if err := s.listingRepo.SetModerationStatus(listingID, landlordID, l.Status, targetStatus, available); err != nil {
		if errors.Is(err, repository.ErrStaleListing) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	l.Status = targetStatus
	l.IsAvailable = available
	return l, nil
}
