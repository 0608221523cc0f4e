package handler

import (
	"net/http"
	"strconv"

	"heavenlist/internal/middleware"
	"heavenlist/internal/service"

	"github.com/gin-gonic/gin"
)

type InspectionHandler struct {
	svc *service.InspectionService
}

func NewInspectionHandler(svc *service.InspectionService) *InspectionHandler {
	return &InspectionHandler{svc: svc}
}

type ScheduleInspectionRequest struct {
	ListingID uint   `json:"listing_id" binding:"required"`
	Day       string `json:"day" binding:"required"`
	TimeRange string `json:"time_range" binding:"required"`
}

// Schedule books the next occurrence of the requested weekday for the tenant.
func (h *InspectionHandler) Schedule(c *gin.Context) {
	var req ScheduleInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inspection, err := h.svc.Schedule(middleware.GetUserID(c), req.ListingID, req.Day, req.TimeRange)
	if err != nil {
		switch err {
		case service.ErrInvalidDay:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case service.ErrPaymentRequired:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case service.ErrListingNotFound, service.ErrTenantNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrMissingContact:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not schedule inspection"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inspection": inspection})
}

type ConfirmInspectionRequest struct {
	Status string `json:"status" binding:"required"`
}

// Confirm lets a landlord update the status of an inspection.
func (h *InspectionHandler) Confirm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inspection id"})
		return
	}
	var req ConfirmInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inspection, err := h.svc.Confirm(uint(id), req.Status)
	if err != nil {
		switch err {
		case service.ErrInvalidInspectionStatus:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case service.ErrInspectionNotFound, service.ErrListingNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrMissingContact:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update inspection"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"inspection": inspection})
}

func (h *InspectionHandler) ListForTenant(c *gin.Context) {
	inspections, err := h.svc.ListForTenant(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load inspections"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inspections": inspections})
}

func (h *InspectionHandler) ListForLandlord(c *gin.Context) {
	inspections, err := h.svc.ListForLandlord(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load inspections"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inspections": inspections})
}
