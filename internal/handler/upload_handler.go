package handler

import (
	"fmt"
	"log"
	"net/http"

	"heavenlist/internal/middleware"
	"heavenlist/internal/service"
	"heavenlist/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 10 << 20 // 10 MB

type UploadHandler struct {
	cld        cloudinary.Client
	listingSvc *service.ListingService
}

func NewUploadHandler(cld cloudinary.Client, listingSvc *service.ListingService) *UploadHandler {
	return &UploadHandler{cld: cld, listingSvc: listingSvc}
}

// UploadListingImage accepts a multipart "image" field, stores it on
// Cloudinary with eager optimization, and saves the URLs on the listing.
func (h *UploadHandler) UploadListingImage(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10 MB"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}
	defer file.Close()

	landlordID := middleware.GetUserID(c)
	publicID := fmt.Sprintf("listing-%d", id)
	url, thumb, err := h.cld.UploadImage(c.Request.Context(), file, "listings", publicID)
	if err != nil {
		log.Printf("[upload] listing %d: %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
		return
	}
	l, err := h.listingSvc.SetImage(landlordID, id, url, thumb)
	if err != nil {
		switch err {
		case service.ErrListingNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save image"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": l})
}
