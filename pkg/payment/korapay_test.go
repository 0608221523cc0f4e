package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeChargeSendsAuthAndBody(t *testing.T) {
	var gotAuth string
	var gotReq korapayChargeReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/charges/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":true,"data":{"reference":"HL-abc","checkout_url":"https://checkout.korapay.com/HL-abc"}}`))
	}))
	defer srv.Close()

	p := NewKorapayProvider(srv.URL, "sk_test_123")
	resp, err := p.InitializeCharge(context.Background(), ChargeRequest{
		Reference:     "HL-abc",
		Amount:        250_000,
		Currency:      "NGN",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	assert.Equal(t, "HL-abc", gotReq.Reference)
	assert.Equal(t, 250_000.0, gotReq.Amount)
	assert.Equal(t, "jane@example.com", gotReq.Customer.Email)
	assert.Equal(t, "https://checkout.korapay.com/HL-abc", resp.CheckoutURL)
}

func TestInitializeChargeConflictMapsToDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	p := NewKorapayProvider(srv.URL, "sk_test_123")
	_, err := p.InitializeCharge(context.Background(), ChargeRequest{Reference: "HL-dup", Amount: 1, Currency: "NGN"})
	assert.ErrorIs(t, err, ErrDuplicateReference)
}

func TestInitializeChargeRejectsMissingCheckoutURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":false,"message":"invalid key","data":{}}`))
	}))
	defer srv.Close()

	p := NewKorapayProvider(srv.URL, "sk_test_123")
	_, err := p.InitializeCharge(context.Background(), ChargeRequest{Reference: "HL-x", Amount: 1, Currency: "NGN"})
	assert.Error(t, err)
}

func TestChargeStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/charges/HL-abc", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":true,"data":{"status":"success"}}`))
	}))
	defer srv.Close()

	p := NewKorapayProvider(srv.URL, "sk_test_123")
	status, err := p.ChargeStatus(context.Background(), "HL-abc")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, status)
}

func TestChargeStatusErrorStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewKorapayProvider(srv.URL, "sk_test_123")
	_, err := p.ChargeStatus(context.Background(), "HL-missing")
	assert.Error(t, err)
}
