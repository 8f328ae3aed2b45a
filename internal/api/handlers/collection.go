package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aniela13/card-scanner/internal/metrics"
	"github.com/Aniela13/card-scanner/internal/models"
	"github.com/Aniela13/card-scanner/internal/store"
)

type CollectionHandler struct {
	collection store.Collection
}

func NewCollectionHandler(collection store.Collection) *CollectionHandler {
	return &CollectionHandler{collection: collection}
}

// GetCollection lists every saved card, newest first, along with the
// number of stored entries that could not be decoded.
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	cards, skipped, err := h.collection.LoadAll()
	if err != nil {
		log.Printf("load collection failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collection"})
		return
	}

	store.SortNewestFirst(cards)
	metrics.UpdateCollectionMetrics(len(cards), skipped, store.TotalValue(cards))

	c.JSON(http.StatusOK, models.CollectionResponse{Cards: cards, Skipped: skipped})
}

// DeleteCard removes a saved card. Deleting an unknown id succeeds; the
// end state is the same either way.
func (h *CollectionHandler) DeleteCard(c *gin.Context) {
	id := c.Param("id")
	if err := h.collection.Delete(id); err != nil {
		log.Printf("delete card %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete card"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStats returns the collection aggregates and the collector rank.
func (h *CollectionHandler) GetStats(c *gin.Context) {
	cards, skipped, err := h.collection.LoadAll()
	if err != nil {
		log.Printf("load collection failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collection"})
		return
	}

	totalValue := store.TotalValue(cards)
	metrics.UpdateCollectionMetrics(len(cards), skipped, totalValue)

	c.JSON(http.StatusOK, models.CollectionStats{
		TotalCards: len(cards),
		TotalValue: totalValue,
		Rank:       models.RankForCount(len(cards)),
	})
}
