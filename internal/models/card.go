package models

import (
	"time"
)

// Placeholder values used when the recognition service omits a field.
const (
	PlaceholderName = "Name not available"
	PlaceholderSet  = "Set not available"
)

// PriceQuote is one reference price surfaced from the recognition
// service, e.g. {"Holo Market Price", "12.50"}. Amounts are kept as
// strings formatted to two decimals so the frontend renders them as-is.
type PriceQuote struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// Card is one normalized entry in the collection. A Card starts out
// pending (no SalePrice) right after a scan and becomes durable once the
// user confirms a sale price. Persisted cards are immutable except for
// deletion.
type Card struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	SetName   string       `json:"set_name"`
	ImageURL  string       `json:"image_url"`
	Quotes    []PriceQuote `json:"price_quotes"`
	ScannedAt time.Time    `json:"timestamp"`
	SalePrice *float64     `json:"sale_price,omitempty"`
}

// SaveCardRequest finalizes the pending scan. The price arrives as the
// raw input string so validation happens in exactly one place.
type SaveCardRequest struct {
	SalePrice string `json:"sale_price"`
}

// CollectionResponse is the full listing, newest first. Skipped counts
// entries in durable storage that could not be decoded (and were left in
// place rather than dropped).
type CollectionResponse struct {
	Cards   []Card `json:"cards"`
	Skipped int    `json:"skipped"`
}

// CollectionStats are the aggregates shown on the profile view.
type CollectionStats struct {
	TotalCards int     `json:"total_cards"`
	TotalValue float64 `json:"total_value"`
	Rank       Rank    `json:"rank"`
}
