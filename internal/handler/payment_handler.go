package handler

import (
	"errors"
	"log"
	"net/http"

	"heavenlist/internal/middleware"
	"heavenlist/internal/service"
	"heavenlist/pkg/payment"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type InitiatePaymentRequest struct {
	ListingID  uint    `json:"listing_id" binding:"required"`
	LandlordID uint    `json:"landlord_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Name       string  `json:"name"`
}

func paymentErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrListingNotFound), errors.Is(err, service.ErrTenantNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrListingUnavailable),
		errors.Is(err, service.ErrAmountTooLow),
		errors.Is(err, service.ErrAmountTooHigh),
		errors.Is(err, service.ErrAmountExceedsBalance),
		errors.Is(err, service.ErrInvalidPartPayment):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotListingTenant):
		return http.StatusForbidden
	case errors.Is(err, service.ErrPaymentConflict), errors.Is(err, payment.ErrDuplicateReference):
		return http.StatusConflict
	case errors.Is(err, service.ErrPaymentGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Initiate opens a hosted charge for a part payment on a listing.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := middleware.GetEmail(c)
	name := req.Name
	if name == "" {
		name = email
	}
	res, err := h.svc.Initiate(c.Request.Context(), middleware.GetUserID(c), req.LandlordID, req.ListingID, req.Amount, email, name)
	if err != nil {
		status := paymentErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("[payment] initiate: %v", err)
			c.JSON(status, gin.H{"error": "could not initiate payment"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// PayBalance opens a charge against the outstanding balance of a listing the
// tenant already reserved.
func (h *PaymentHandler) PayBalance(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := middleware.GetEmail(c)
	name := req.Name
	if name == "" {
		name = email
	}
	res, err := h.svc.PayBalance(c.Request.Context(), middleware.GetUserID(c), req.LandlordID, req.ListingID, req.Amount, email, name)
	if err != nil {
		status := paymentErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("[payment] pay balance: %v", err)
			c.JSON(status, gin.H{"error": "could not initiate payment"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Verify is hit by the gateway redirect with ?reference=. It settles the
// transaction exactly once; a repeat visit reports the already-final state.
func (h *PaymentHandler) Verify(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing reference"})
		return
	}
	txn, err := h.svc.Verify(c.Request.Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyFinalized):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPaymentGateway):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			log.Printf("[payment] verify %s: %v", reference, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify payment"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"data"`
}

// Webhook handles gateway charge notifications. The status is never trusted
// from the payload; the transaction is re-verified against the gateway API.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var evt webhookEvent
	if err := c.ShouldBindJSON(&evt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if evt.Data.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing reference"})
		return
	}
	if _, err := h.svc.Verify(c.Request.Context(), evt.Data.Reference); err != nil {
		// Already-finalized is the normal case when the redirect landed first.
		if !errors.Is(err, service.ErrAlreadyFinalized) {
			log.Printf("[payment] webhook %s %s: %v", evt.Event, evt.Data.Reference, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func (h *PaymentHandler) TenantTransactions(c *gin.Context) {
	txns, err := h.svc.TenantTransactions(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

func (h *PaymentHandler) LandlordTransactions(c *gin.Context) {
	txns, err := h.svc.LandlordTransactions(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}
