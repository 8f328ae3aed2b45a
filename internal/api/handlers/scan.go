package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aniela13/card-scanner/internal/models"
	"github.com/Aniela13/card-scanner/internal/services"
	"github.com/Aniela13/card-scanner/internal/store"
)

type ScanHandler struct {
	scanner *services.Scanner
}

func NewScanHandler(scanner *services.Scanner) *ScanHandler {
	return &ScanHandler{scanner: scanner}
}

// Scan accepts a captured card image as a multipart upload, forwards it
// to the recognition service, and returns the pending card awaiting a
// sale price.
func (h *ScanHandler) Scan(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image provided"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer src.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	card, err := h.scanner.Scan(c.Request.Context(), buf.Bytes())
	if err != nil {
		status, message := scanErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, card)
}

// Save finalizes the pending card with the user-supplied sale price.
func (h *ScanHandler) Save(c *gin.Context) {
	var req models.SaveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.scanner.Finalize(req.SalePrice)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingPrice), errors.Is(err, services.ErrInvalidPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrPersistence):
			log.Printf("save card failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save card"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, card)
}

// Reset abandons the pending scan.
func (h *ScanHandler) Reset(c *gin.Context) {
	h.scanner.Reset()
	c.Status(http.StatusNoContent)
}

func scanErrorResponse(err error) (int, string) {
	var svcErr *services.ServiceError
	switch {
	case errors.Is(err, services.ErrScanInFlight):
		return http.StatusConflict, err.Error()
	case errors.As(err, &svcErr):
		// The service's own message, verbatim.
		return http.StatusUnprocessableEntity, svcErr.Message
	case errors.Is(err, services.ErrNormalization):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, services.ErrNetwork):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
