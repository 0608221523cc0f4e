package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"heavenlist/config"
	"heavenlist/internal/database"
	"heavenlist/internal/domain"
	"heavenlist/internal/models"
	"heavenlist/pkg/payment"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access",
			RefreshSecret: "test-refresh",
			ResetSecret:   "test-reset",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
			ResetExpiry:   10 * time.Minute,
			Issuer:        "heavenlist-test",
		},
		OTP: config.OTPConfig{
			Seed:       "test-seed",
			Digits:     6,
			AdminStep:  5 * time.Minute,
			TenantStep: 15 * time.Minute,
			Skew:       1,
		},
		Korapay: config.KorapayConfig{
			Currency:    "NGN",
			RedirectURL: "https://app.test/payments/verify",
		},
	}
}

// fakeMailer records sends; it never fails unless told to.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

func (m *fakeMailer) Send(_ context.Context, toEmail, _, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return fmt.Errorf("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{To: toEmail, Subject: subject, HTML: html})
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// fakeProvider answers charges without a network. Status is keyed per
// reference so one test can settle several transactions differently.
type fakeProvider struct {
	mu        sync.Mutex
	initErr   error
	statuses  map[string]string
	initiated []payment.ChargeRequest
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{statuses: map[string]string{}}
}

func (p *fakeProvider) InitializeCharge(_ context.Context, r payment.ChargeRequest) (*payment.ChargeResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initErr != nil {
		return nil, p.initErr
	}
	p.initiated = append(p.initiated, r)
	return &payment.ChargeResponse{
		Reference:   r.Reference,
		CheckoutURL: "https://checkout.test/" + r.Reference,
	}, nil
}

func (p *fakeProvider) ChargeStatus(_ context.Context, reference string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.statuses[reference]; ok {
		return s, nil
	}
	return payment.StatusPending, nil
}

func (p *fakeProvider) setStatus(reference, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses[reference] = status
}

func seedTenant(t *testing.T, db *gorm.DB, email string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{FullName: "Test Tenant", Email: email, IsVerified: true}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func seedLandlord(t *testing.T, db *gorm.DB, email string) *models.Landlord {
	t.Helper()
	landlord := &models.Landlord{FullName: "Test Landlord", Email: email, IsVerified: true}
	require.NoError(t, db.Create(landlord).Error)
	return landlord
}

func seedListing(t *testing.T, db *gorm.DB, landlordID uint, price int64, partPayment string, status string) *models.Listing {
	t.Helper()
	frac, err := ParsePartPayment(partPayment)
	require.NoError(t, err)
	l := &models.Listing{
		Title:             "3 Bedroom Flat, Lekki",
		Location:          "Lekki Phase 1",
		State:             "Lagos",
		Price:             price,
		PartPayment:       partPayment,
		PartPaymentAmount: float64(price) * frac,
		Status:            status,
		IsAvailable:       status == domain.ListingStatusAccepted,
		LandlordID:        landlordID,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}
