package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"heavenlist/config"
	"heavenlist/internal/domain"
	"heavenlist/internal/models"
	"heavenlist/internal/repository"
	"heavenlist/pkg/payment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrListingUnavailable   = errors.New("listing is not accepting payments")
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrAmountTooLow         = errors.New("amount is below the required part payment")
	ErrAmountTooHigh        = errors.New("amount exceeds the listing price")
	ErrAmountExceedsBalance = errors.New("amount exceeds the outstanding balance")
	ErrNotListingTenant     = errors.New("only the tenant who reserved the listing can pay its balance")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrAlreadyFinalized     = errors.New("transaction already finalized")
	ErrPaymentConflict      = errors.New("listing balance changed, retry the payment")
	ErrPaymentGateway       = errors.New("payment gateway error")
)

type PaymentService struct {
	cfg          *config.Config
	provider     payment.Provider
	listingRepo  *repository.ListingRepository
	txnRepo      *repository.TransactionRepository
	tenantRepo   *repository.TenantRepository
	landlordRepo *repository.LandlordRepository
	notif        *NotificationService
}

func NewPaymentService(cfg *config.Config, provider payment.Provider, listingRepo *repository.ListingRepository, txnRepo *repository.TransactionRepository, tenantRepo *repository.TenantRepository, landlordRepo *repository.LandlordRepository, notif *NotificationService) *PaymentService {
	return &PaymentService{
		cfg:          cfg,
		provider:     provider,
		listingRepo:  listingRepo,
		txnRepo:      txnRepo,
		tenantRepo:   tenantRepo,
		landlordRepo: landlordRepo,
		notif:        notif,
	}
}

type InitiateResult struct {
	Reference   string              `json:"reference"`
	CheckoutURL string              `json:"checkout_url"`
	Transaction *models.Transaction `json:"transaction"`
}

// Initiate starts a part payment: it validates the amount against the
// listing's required minimum, opens a hosted charge with the gateway, and
// persists the pending transaction together with the optimistic balance
// reservation in one DB transaction.
func (s *PaymentService) Initiate(ctx context.Context, tenantID, landlordID, listingID uint, amount float64, email, name string) (*InitiateResult, error) {
	listing, err := s.payableListing(listingID, landlordID)
	if err != nil {
		return nil, err
	}
	if _, err := s.tenantRepo.GetByID(tenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	frac, err := ParsePartPayment(listing.PartPayment)
	if err != nil {
		return nil, err
	}
	expected := float64(listing.Price) * frac
	if amount < expected {
		return nil, ErrAmountTooLow
	}
	if amount > float64(listing.Price) {
		return nil, ErrAmountTooHigh
	}
	// First payment claims the listing for this tenant.
	var claim *uint
	if listing.TenantID == nil {
		claim = &tenantID
	}
	return s.charge(ctx, listing, tenantID, amount, expected, email, name, claim)
}

// PayBalance pays down the remaining balance. Only the tenant who reserved
// the listing may do so, and never more than what is owed.
func (s *PaymentService) PayBalance(ctx context.Context, tenantID, landlordID, listingID uint, amount float64, email, name string) (*InitiateResult, error) {
	listing, err := s.payableListing(listingID, landlordID)
	if err != nil {
		return nil, err
	}
	if listing.TenantID == nil || *listing.TenantID != tenantID {
		return nil, ErrNotListingTenant
	}
	if amount > listing.CurrentBalance() {
		return nil, ErrAmountExceedsBalance
	}
	return s.charge(ctx, listing, tenantID, amount, listing.PartPaymentAmount, email, name, nil)
}

// Verify finalizes the transaction for a gateway reference exactly once. On
// success the reservation made at initiation becomes settled; on failure it
// is released back onto the listing.
func (s *PaymentService) Verify(ctx context.Context, reference string) (*models.Transaction, error) {
	txn, err := s.txnRepo.GetByReference(reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if txn.Status != domain.TransactionStatusPending {
		return nil, ErrAlreadyFinalized
	}
	status, err := s.provider.ChargeStatus(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	now := time.Now()
	if status == payment.StatusSuccess {
		ok, err := s.txnRepo.FinalizeIfPending(reference, domain.TransactionStatusSuccess, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAlreadyFinalized
		}
		txn.Status = domain.TransactionStatusSuccess
		txn.PaymentDate = &now
		s.notifyPaymentSettled(txn)
		return txn, nil
	}
	ok, err := s.txnRepo.FinalizeIfPending(reference, domain.TransactionStatusFailed, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyFinalized
	}
	txn.Status = domain.TransactionStatusFailed
	txn.PaymentDate = &now
	s.releaseReservation(txn)
	return txn, nil
}

func (s *PaymentService) payableListing(listingID, landlordID uint) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByIDForLandlord(listingID, landlordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if listing.Status != domain.ListingStatusAccepted || !listing.IsAvailable {
		return nil, ErrListingUnavailable
	}
	return listing, nil
}

func (s *PaymentService) charge(ctx context.Context, listing *models.Listing, tenantID uint, amount, expectedMinimum float64, email, name string, claim *uint) (*InitiateResult, error) {
	// Fresh reference per initiation; the transaction id cannot be used
	// because the row does not exist until the gateway accepts the charge.
	reference := "HL-" + uuid.New().String()
	resp, err := s.provider.InitializeCharge(ctx, payment.ChargeRequest{
		Reference:     reference,
		Amount:        amount,
		Currency:      s.cfg.Korapay.Currency,
		CustomerName:  name,
		CustomerEmail: email,
		RedirectURL:   s.cfg.Korapay.RedirectURL,
		Narration:     fmt.Sprintf("Rent payment for listing #%d", listing.ID),
	})
	if err != nil {
		if errors.Is(err, payment.ErrDuplicateReference) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	if resp.Reference != "" {
		reference = resp.Reference
	}
	newBalance := listing.CurrentBalance() - amount
	available := newBalance > 0
	txn := &models.Transaction{
		Email:             email,
		Name:              name,
		Amount:            amount,
		Reference:         reference,
		PartPaymentAmount: expectedMinimum,
		Balance:           newBalance,
		Status:            domain.TransactionStatusPending,
		TenantID:          tenantID,
		LandlordID:        listing.LandlordID,
		ListingID:         listing.ID,
	}
	if err := s.txnRepo.CreateWithReservation(txn, s.listingRepo, listing.Balance, newBalance, available, claim); err != nil {
		if errors.Is(err, repository.ErrStaleListing) {
			return nil, ErrPaymentConflict
		}
		return nil, err
	}
	return &InitiateResult{Reference: reference, CheckoutURL: resp.CheckoutURL, Transaction: txn}, nil
}

// releaseReservation returns a failed payment's amount to the listing
// balance. Retried a few times because the write is compare-and-swap.
// When the release restores the full price nothing paid-for remains, so the
// tenant claim made at initiation is dropped and the next tenant can reserve.
func (s *PaymentService) releaseReservation(txn *models.Transaction) {
	for attempt := 0; attempt < 3; attempt++ {
		listing, err := s.listingRepo.GetByID(txn.ListingID)
		if err != nil {
			log.Printf("[payment] release %s: load listing %d: %v", txn.Reference, txn.ListingID, err)
			return
		}
		newBalance := listing.CurrentBalance() + txn.Amount
		if newBalance > float64(listing.Price) {
			newBalance = float64(listing.Price)
		}
		available := listing.Status == domain.ListingStatusAccepted && newBalance > 0
		releaseClaim := newBalance == float64(listing.Price)
		err = s.listingRepo.CompareAndSetBalance(nil, listing.ID, listing.Balance, newBalance, available, nil, releaseClaim)
		if err == nil {
			return
		}
		if !errors.Is(err, repository.ErrStaleListing) {
			log.Printf("[payment] release %s: %v", txn.Reference, err)
			return
		}
	}
	log.Printf("[payment] release %s: gave up after concurrent listing updates", txn.Reference)
}

func (s *PaymentService) notifyPaymentSettled(txn *models.Transaction) {
	if s.notif == nil {
		return
	}
	body := fmt.Sprintf("Payment of %.2f for listing #%d confirmed. Outstanding balance: %.2f.", txn.Amount, txn.ListingID, txn.Balance)
	data := map[string]interface{}{"reference": txn.Reference, "listing_id": txn.ListingID, "balance": txn.Balance}
	if tenant, err := s.tenantRepo.GetByID(txn.TenantID); err == nil {
		s.notif.NotifyTenant(tenant.ID, tenant.Email, tenant.FullName, "PAYMENT_CONFIRMED", "Payment confirmed", body, data)
	}
	if landlord, err := s.landlordRepo.GetByID(txn.LandlordID); err == nil {
		s.notif.NotifyLandlord(landlord.ID, landlord.Email, landlord.FullName, "PAYMENT_RECEIVED", "Payment received", body, data)
	}
}

// History endpoints.

func (s *PaymentService) TenantTransactions(tenantID uint) ([]models.Transaction, error) {
	return s.txnRepo.ListByTenant(tenantID)
}

func (s *PaymentService) LandlordTransactions(landlordID uint) ([]models.Transaction, error) {
	return s.txnRepo.ListByLandlord(landlordID)
}
