// Package store provides the durable collection of saved cards. Cards
// are kept as JSON values in a key/value table so the stored record is
// the source of truth; nothing is re-derived on read.
package store

import (
	"errors"
	"sort"

	"github.com/Aniela13/card-scanner/internal/models"
)

// KeyPrefix namespaces collection entries in the key/value substrate.
const KeyPrefix = "card:"

// ErrPersistence wraps any fault of the durable substrate (serialization,
// disk, quota). Callers get this instead of driver-level errors.
var ErrPersistence = errors.New("persistence error")

// Collection is the capability handed to callers that need the durable
// card collection. All call sites depend on this interface rather than a
// package-level database handle.
type Collection interface {
	// LoadAll returns every decodable card in storage order, plus the
	// number of entries that failed to decode and were skipped.
	LoadAll() ([]models.Card, int, error)

	// Save writes the card under its id. A repeat save with the same id
	// overwrites the previous value.
	Save(card models.Card) error

	// Delete removes the card with the given id. Deleting an id that was
	// never saved is not an error.
	Delete(id string) error
}

// TotalValue sums the sale price over the given cards, treating an unset
// price as zero.
func TotalValue(cards []models.Card) float64 {
	var total float64
	for _, c := range cards {
		if c.SalePrice != nil {
			total += *c.SalePrice
		}
	}
	return total
}

// SortNewestFirst orders cards for presentation, most recent scan first.
// Storage order is arbitrary so the listing sorts explicitly.
func SortNewestFirst(cards []models.Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].ScannedAt.After(cards[j].ScannedAt)
	})
}
