package payment

import (
	"context"
	"errors"
)

// Charge statuses as reported by the gateway. Anything other than success is
// treated as a failed charge by callers.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// ErrDuplicateReference is returned when the gateway rejects an initialization
// because the reference was already used.
var ErrDuplicateReference = errors.New("payment reference already used")

type ChargeRequest struct {
	Reference     string
	Amount        float64
	Currency      string
	CustomerName  string
	CustomerEmail string
	RedirectURL   string
	Narration     string
}

type ChargeResponse struct {
	Reference   string
	CheckoutURL string
}

// Provider abstracts the payment gateway: initialize a hosted charge, then
// query its status by reference.
type Provider interface {
	InitializeCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
	ChargeStatus(ctx context.Context, reference string) (string, error)
}
