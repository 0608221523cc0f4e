package handler

import (
	"net/http"

	"heavenlist/internal/models"
	"heavenlist/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler carries the moderation surface: listing review and the
// verify/unverify transitions.
type AdminHandler struct {
	listingSvc *service.ListingService
}

func NewAdminHandler(listingSvc *service.ListingService) *AdminHandler {
	return &AdminHandler{listingSvc: listingSvc}
}

func (h *AdminHandler) ListListings(c *gin.Context) {
	listings, err := h.listingSvc.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

type ModerationRequest struct {
	LandlordID uint   `json:"landlord_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

func (h *AdminHandler) moderate(c *gin.Context, unverify bool) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	var req ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var (
		l   *models.Listing
		err error
	)
	if unverify {
		l, err = h.listingSvc.Unverify(id, req.LandlordID, req.Status)
	} else {
		l, err = h.listingSvc.Verify(id, req.LandlordID, req.Status)
	}
	if err != nil {
		switch err {
		case service.ErrListingNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrInvalidStatus:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case service.ErrInvalidTransition:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "moderation failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": l})
}

// Verify accepts or rejects a pending (or re-toggled) listing.
func (h *AdminHandler) Verify(c *gin.Context) {
	h.moderate(c, false)
}

// Unverify only supports moving a listing to rejected.
func (h *AdminHandler) Unverify(c *gin.Context) {
	h.moderate(c, true)
}
