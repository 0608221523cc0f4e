package service

import (
	"context"
	"testing"

	"heavenlist/internal/domain"
	"heavenlist/internal/models"
	"heavenlist/internal/repository"
	"heavenlist/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type paymentFixture struct {
	db       *gorm.DB
	provider *fakeProvider
	svc      *PaymentService
	tenant   *models.Tenant
	landlord *models.Landlord
	listing  *models.Listing
}

func newPaymentFixture(t *testing.T, price int64, partPayment, listingStatus string) *paymentFixture {
	t.Helper()
	db := newTestDB(t)
	provider := newFakeProvider()
	listingRepo := repository.NewListingRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	landlordRepo := repository.NewLandlordRepository(db)
	svc := NewPaymentService(testConfig(), provider, listingRepo, txnRepo, tenantRepo, landlordRepo, nil)

	landlord := seedLandlord(t, db, "owner@example.com")
	tenant := seedTenant(t, db, "renter@example.com")
	listing := seedListing(t, db, landlord.ID, price, partPayment, listingStatus)
	return &paymentFixture{db: db, provider: provider, svc: svc, tenant: tenant, landlord: landlord, listing: listing}
}

func (f *paymentFixture) initiate(t *testing.T, amount float64) *InitiateResult {
	t.Helper()
	res, err := f.svc.Initiate(context.Background(), f.tenant.ID, f.landlord.ID, f.listing.ID, amount, f.tenant.Email, f.tenant.FullName)
	require.NoError(t, err)
	return res
}

func (f *paymentFixture) reloadListing(t *testing.T) *models.Listing {
	t.Helper()
	var l models.Listing
	require.NoError(t, f.db.First(&l, f.listing.ID).Error)
	return &l
}

func TestInitiateRejectsAmountBelowPartPayment(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)

	_, err := f.svc.Initiate(context.Background(), f.tenant.ID, f.landlord.ID, f.listing.ID, 150_000, f.tenant.Email, f.tenant.FullName)
	assert.ErrorIs(t, err, ErrAmountTooLow)

	l := f.reloadListing(t)
	assert.Nil(t, l.Balance)
	assert.Nil(t, l.TenantID)
}

func TestInitiateRejectsAmountAbovePrice(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)

	_, err := f.svc.Initiate(context.Background(), f.tenant.ID, f.landlord.ID, f.listing.ID, 1_000_001, f.tenant.Email, f.tenant.FullName)
	assert.ErrorIs(t, err, ErrAmountTooHigh)
}

func TestInitiateRejectsUnacceptedListing(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusPending)

	_, err := f.svc.Initiate(context.Background(), f.tenant.ID, f.landlord.ID, f.listing.ID, 250_000, f.tenant.Email, f.tenant.FullName)
	assert.ErrorIs(t, err, ErrListingUnavailable)
}

func TestInitiateReservesBalanceAndClaimsListing(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)

	res := f.initiate(t, 250_000)
	assert.NotEmpty(t, res.Reference)
	assert.NotEmpty(t, res.CheckoutURL)
	assert.Equal(t, domain.TransactionStatusPending, res.Transaction.Status)
	assert.Equal(t, 750_000.0, res.Transaction.Balance)

	l := f.reloadListing(t)
	require.NotNil(t, l.Balance)
	assert.Equal(t, 750_000.0, *l.Balance)
	require.NotNil(t, l.TenantID)
	assert.Equal(t, f.tenant.ID, *l.TenantID)
	assert.True(t, l.IsAvailable)
}

func TestVerifySuccessIsFinalAndIdempotent(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)
	res := f.initiate(t, 250_000)
	f.provider.setStatus(res.Reference, payment.StatusSuccess)

	txn, err := f.svc.Verify(context.Background(), res.Reference)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSuccess, txn.Status)
	require.NotNil(t, txn.PaymentDate)

	// Balance was applied at initiation; settling must not move it again.
	l := f.reloadListing(t)
	require.NotNil(t, l.Balance)
	assert.Equal(t, 750_000.0, *l.Balance)

	_, err = f.svc.Verify(context.Background(), res.Reference)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestVerifyFailureReleasesReservation(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)
	res := f.initiate(t, 250_000)
	f.provider.setStatus(res.Reference, payment.StatusFailed)

	txn, err := f.svc.Verify(context.Background(), res.Reference)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusFailed, txn.Status)

	l := f.reloadListing(t)
	require.NotNil(t, l.Balance)
	assert.Equal(t, 1_000_000.0, *l.Balance)
	assert.True(t, l.IsAvailable)
}

func TestVerifyFailureFreesListingForAnotherTenant(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)
	res := f.initiate(t, 250_000)
	f.provider.setStatus(res.Reference, payment.StatusFailed)

	_, err := f.svc.Verify(context.Background(), res.Reference)
	require.NoError(t, err)

	// The failed first payment must drop the claim along with the balance.
	l := f.reloadListing(t)
	assert.Nil(t, l.TenantID)

	other := seedTenant(t, f.db, "other@example.com")
	res, err = f.svc.Initiate(context.Background(), other.ID, f.landlord.ID, f.listing.ID, 250_000, other.Email, other.FullName)
	require.NoError(t, err)
	f.provider.setStatus(res.Reference, payment.StatusSuccess)
	_, err = f.svc.Verify(context.Background(), res.Reference)
	require.NoError(t, err)

	l = f.reloadListing(t)
	require.NotNil(t, l.TenantID)
	assert.Equal(t, other.ID, *l.TenantID)

	_, err = f.svc.PayBalance(context.Background(), other.ID, f.landlord.ID, f.listing.ID, 100_000, other.Email, other.FullName)
	assert.NoError(t, err)
}

func TestFailedBalancePaymentKeepsClaim(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)
	res := f.initiate(t, 250_000)
	f.provider.setStatus(res.Reference, payment.StatusSuccess)
	_, err := f.svc.Verify(context.Background(), res.Reference)
	require.NoError(t, err)

	res, err = f.svc.PayBalance(context.Background(), f.tenant.ID, f.landlord.ID, f.listing.ID, 200_000, f.tenant.Email, f.tenant.FullName)
	require.NoError(t, err)
	f.provider.setStatus(res.Reference, payment.StatusFailed)
	_, err = f.svc.Verify(context.Background(), res.Reference)
	require.NoError(t, err)

	// The settled part payment still holds the listing for this tenant.
	l := f.reloadListing(t)
	require.NotNil(t, l.Balance)
	assert.Equal(t, 750_000.0, *l.Balance)
	require.NotNil(t, l.TenantID)
	assert.Equal(t, f.tenant.ID, *l.TenantID)
}

func TestVerifyUnknownReference(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)

	_, err := f.svc.Verify(context.Background(), "HL-does-not-exist")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestPayBalanceRejectsOtherTenant(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)
	f.initiate(t, 250_000)

	other := seedTenant(t, f.db, "other@example.com")
	_, err := f.svc.PayBalance(context.Background(), other.ID, f.landlord.ID, f.listing.ID, 100_000, other.Email, other.FullName)
	assert.ErrorIs(t, err, ErrNotListingTenant)
}

func TestPayBalanceRejectsOverpayment(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)
	f.initiate(t, 250_000)

	_, err := f.svc.PayBalance(context.Background(), f.tenant.ID, f.landlord.ID, f.listing.ID, 750_001, f.tenant.Email, f.tenant.FullName)
	assert.ErrorIs(t, err, ErrAmountExceedsBalance)

	// A rejected attempt must leave the listing untouched.
	l := f.reloadListing(t)
	require.NotNil(t, l.Balance)
	assert.Equal(t, 750_000.0, *l.Balance)
}

func TestPayBalanceToZeroMakesListingUnavailable(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)
	f.initiate(t, 250_000)

	res, err := f.svc.PayBalance(context.Background(), f.tenant.ID, f.landlord.ID, f.listing.ID, 750_000, f.tenant.Email, f.tenant.FullName)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Transaction.Balance)

	l := f.reloadListing(t)
	require.NotNil(t, l.Balance)
	assert.Equal(t, 0.0, *l.Balance)
	assert.False(t, l.IsAvailable)
}

func TestInitiateGatewayErrorLeavesNoState(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)
	f.provider.initErr = assert.AnError

	_, err := f.svc.Initiate(context.Background(), f.tenant.ID, f.landlord.ID, f.listing.ID, 250_000, f.tenant.Email, f.tenant.FullName)
	assert.ErrorIs(t, err, ErrPaymentGateway)

	var count int64
	require.NoError(t, f.db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
	l := f.reloadListing(t)
	assert.Nil(t, l.Balance)
}

func TestTransactionHistories(t *testing.T) {
	f := newPaymentFixture(t, 1_000_000, "20%", domain.ListingStatusAccepted)
	f.initiate(t, 250_000)

	byTenant, err := f.svc.TenantTransactions(f.tenant.ID)
	require.NoError(t, err)
	assert.Len(t, byTenant, 1)

	byLandlord, err := f.svc.LandlordTransactions(f.landlord.ID)
	require.NoError(t, err)
	assert.Len(t, byLandlord, 1)
}
