package handler

import (
	"net/http"
	"strconv"

	"heavenlist/internal/middleware"
	"heavenlist/internal/service"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	svc *service.ListingService
}

func NewListingHandler(svc *service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

type ListingRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description"`
	Location    string `json:"location" binding:"required"`
	State       string `json:"state" binding:"required"`
	Type        string `json:"type"`
	Bedrooms    int    `json:"bedrooms"`
	Bathrooms   int    `json:"bathrooms"`
	Price       int64  `json:"price" binding:"required,min=1"`
	PartPayment string `json:"part_payment" binding:"required,oneof=10% 20% 30%"`
}

func (r *ListingRequest) input() service.ListingInput {
	return service.ListingInput{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		State:       r.State,
		Type:        r.Type,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		Price:       r.Price,
		PartPayment: r.PartPayment,
	}
}

func listingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return 0, false
	}
	return uint(id), true
}

// Create registers a landlord's listing; it stays pending until moderated.
func (h *ListingHandler) Create(c *gin.Context) {
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := h.svc.Create(middleware.GetUserID(c), req.input())
	if err != nil {
		switch err {
		case service.ErrInvalidPartPayment:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create listing"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"listing": l})
}

func (h *ListingHandler) Update(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := h.svc.Update(middleware.GetUserID(c), id, req.input())
	if err != nil {
		switch err {
		case service.ErrListingNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrInvalidPartPayment:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update listing"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": l})
}

func (h *ListingHandler) Delete(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(middleware.GetUserID(c), id); err != nil {
		switch err {
		case service.ErrListingNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete listing"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "listing deleted"})
}

func (h *ListingHandler) ListMine(c *gin.Context) {
	listings, err := h.svc.ListMine(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// Browse returns accepted, available listings for tenants.
func (h *ListingHandler) Browse(c *gin.Context) {
	listings, err := h.svc.Browse()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// Get returns one listing and counts the view.
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	l, err := h.svc.Get(id)
	if err != nil {
		switch err {
		case service.ErrListingNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load listing"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": l})
}
