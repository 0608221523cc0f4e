package service

import (
	"testing"

	"heavenlist/internal/domain"
	"heavenlist/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePartPayment(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{in: "10%", want: 0.10},
		{in: "20%", want: 0.20},
		{in: "30%", want: 0.30},
	}
	for _, tt := range tests {
		got, err := ParsePartPayment(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := ParsePartPayment("abc%")
	assert.ErrorIs(t, err, ErrInvalidPartPayment)
}

func TestCreateListingStartsPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(repository.NewListingRepository(db))
	landlord := seedLandlord(t, db, "owner@example.com")

	l, err := svc.Create(landlord.ID, ListingInput{
		Title:       "2 Bedroom Flat, Yaba",
		Location:    "Yaba",
		State:       "Lagos",
		Price:       800_000,
		PartPayment: "30%",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusPending, l.Status)
	assert.False(t, l.IsAvailable)
	assert.Equal(t, 240_000.0, l.PartPaymentAmount)
}

func TestCreateListingRejectsUnknownPartPayment(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(repository.NewListingRepository(db))
	landlord := seedLandlord(t, db, "owner@example.com")

	_, err := svc.Create(landlord.ID, ListingInput{
		Title:       "2 Bedroom Flat, Yaba",
		Location:    "Yaba",
		State:       "Lagos",
		Price:       800_000,
		PartPayment: "25%",
	})
	assert.ErrorIs(t, err, ErrInvalidPartPayment)
}

func TestVerifyAcceptsPendingListing(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(repository.NewListingRepository(db))
	landlord := seedLandlord(t, db, "owner@example.com")
	l := seedListing(t, db, landlord.ID, 800_000, "20%", domain.ListingStatusPending)

	got, err := svc.Verify(l.ID, landlord.ID, domain.ListingStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusAccepted, got.Status)
	assert.True(t, got.IsAvailable)
}

func TestVerifyRejectsSameStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(repository.NewListingRepository(db))
	landlord := seedLandlord(t, db, "owner@example.com")
	l := seedListing(t, db, landlord.ID, 800_000, "20%", domain.ListingStatusAccepted)

	_, err := svc.Verify(l.ID, landlord.ID, domain.ListingStatusAccepted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestVerifyRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(repository.NewListingRepository(db))
	landlord := seedLandlord(t, db, "owner@example.com")
	l := seedListing(t, db, landlord.ID, 800_000, "20%", domain.ListingStatusPending)

	_, err := svc.Verify(l.ID, landlord.ID, "PUBLISHED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUnverifyOnlyAllowsRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(repository.NewListingRepository(db))
	landlord := seedLandlord(t, db, "owner@example.com")
	l := seedListing(t, db, landlord.ID, 800_000, "20%", domain.ListingStatusAccepted)

	_, err := svc.Unverify(l.ID, landlord.ID, domain.ListingStatusAccepted)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	got, err := svc.Unverify(l.ID, landlord.ID, domain.ListingStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusRejected, got.Status)
	assert.False(t, got.IsAvailable)
}

func TestReacceptFullyPaidListingStaysUnavailable(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(repository.NewListingRepository(db))
	landlord := seedLandlord(t, db, "owner@example.com")
	l := seedListing(t, db, landlord.ID, 800_000, "20%", domain.ListingStatusAccepted)

	zero := 0.0
	require.NoError(t, db.Model(l).Updates(map[string]interface{}{"balance": &zero, "is_available": false}).Error)

	_, err := svc.Unverify(l.ID, landlord.ID, domain.ListingStatusRejected)
	require.NoError(t, err)

	got, err := svc.Verify(l.ID, landlord.ID, domain.ListingStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusAccepted, got.Status)
	assert.False(t, got.IsAvailable)
}

func TestGetBumpsClickCounter(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(repository.NewListingRepository(db))
	landlord := seedLandlord(t, db, "owner@example.com")
	l := seedListing(t, db, landlord.ID, 800_000, "20%", domain.ListingStatusAccepted)

	got, err := svc.Get(l.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.IsClicked)

	got, err = svc.Get(l.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), got.IsClicked)
}

func TestDeleteRequiresOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(repository.NewListingRepository(db))
	landlord := seedLandlord(t, db, "owner@example.com")
	other := seedLandlord(t, db, "other@example.com")
	l := seedListing(t, db, landlord.ID, 800_000, "20%", domain.ListingStatusAccepted)

	err := svc.Delete(other.ID, l.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)

	require.NoError(t, svc.Delete(landlord.ID, l.ID))
}
