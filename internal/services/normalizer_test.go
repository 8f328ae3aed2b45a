package services

import (
	"errors"
	"testing"

	"github.com/Aniela13/card-scanner/internal/models"
)

func TestNormalize_NestedHolofoilOnly(t *testing.T) {
	raw := []byte(`{
		"card_info": {
			"name": "Charizard",
			"set": {"name": "Base Set"},
			"tcgplayer": {"prices": {"holofoil": {"market": 12.5}}}
		}
	}`)

	card, err := Normalize(raw, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(card.Quotes) != 1 {
		t.Fatalf("expected exactly 1 quote, got %d", len(card.Quotes))
	}
	if card.Quotes[0].Label != "Holo Market Price" {
		t.Errorf("expected label 'Holo Market Price', got %q", card.Quotes[0].Label)
	}
	if card.Quotes[0].Amount != "12.50" {
		t.Errorf("expected amount '12.50', got %q", card.Quotes[0].Amount)
	}
}

func TestNormalize_AllProbesPreserveOrder(t *testing.T) {
	raw := []byte(`{
		"card_info": {
			"name": "Pikachu",
			"tcgplayer": {"prices": {
				"lowPrice": 0.25,
				"normal": {"market": 1.1},
				"holofoil": {"market": 42}
			}}
		}
	}`)

	card, err := Normalize(raw, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.PriceQuote{
		{Label: "Holo Market Price", Amount: "42.00"},
		{Label: "Normal Market Price", Amount: "1.10"},
		{Label: "Low Price (CardMarket)", Amount: "0.25"},
	}
	if len(card.Quotes) != len(want) {
		t.Fatalf("expected %d quotes, got %d", len(want), len(card.Quotes))
	}
	for i, q := range want {
		if card.Quotes[i] != q {
			t.Errorf("quote %d: expected %+v, got %+v", i, q, card.Quotes[i])
		}
	}
}

func TestNormalize_ServiceError(t *testing.T) {
	card, err := Normalize([]byte(`{"error": "not found"}`), "")
	if card != nil {
		t.Error("expected no card on service error")
	}

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T: %v", err, err)
	}
	if svcErr.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", svcErr.Message)
	}
}

func TestNormalize_Placeholders(t *testing.T) {
	card, err := Normalize([]byte(`{}`), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if card.Name != models.PlaceholderName {
		t.Errorf("expected placeholder name, got %q", card.Name)
	}
	if card.SetName != models.PlaceholderSet {
		t.Errorf("expected placeholder set, got %q", card.SetName)
	}
	if card.ImageURL != "" {
		t.Errorf("expected empty image url, got %q", card.ImageURL)
	}
	if len(card.Quotes) != 0 {
		t.Errorf("expected no quotes, got %d", len(card.Quotes))
	}
}

func TestNormalize_ImageFallbackChain(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback string
		want     string
	}{
		{
			name: "large preferred",
			raw:  `{"card_info": {"images": {"large": "https://img/large.png", "small": "https://img/small.png"}}}`,
			want: "https://img/large.png",
		},
		{
			name: "small when no large",
			raw:  `{"card_info": {"images": {"small": "https://img/small.png"}}}`,
			want: "https://img/small.png",
		},
		{
			name:     "staged capture when service has none",
			raw:      `{"card_info": {"name": "Eevee"}}`,
			fallback: "/images/scanned/abc.png",
			want:     "/images/scanned/abc.png",
		},
		{
			name: "empty when nothing available",
			raw:  `{}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, err := Normalize([]byte(tt.raw), tt.fallback)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if card.ImageURL != tt.want {
				t.Errorf("expected image %q, got %q", tt.want, card.ImageURL)
			}
		})
	}
}

func TestNormalize_FlatResponseShape(t *testing.T) {
	raw := []byte(`{
		"nombre": "Mewtwo",
		"expansionf": "Jungle",
		"url": "https://img/mewtwo.png",
		"tcg": {"market": 3.75, "low": "1.20", "error": "partial", "empty": 0}
	}`)

	card, err := Normalize(raw, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if card.Name != "Mewtwo" {
		t.Errorf("expected name 'Mewtwo', got %q", card.Name)
	}
	if card.SetName != "Jungle" {
		t.Errorf("expected set 'Jungle', got %q", card.SetName)
	}
	if card.ImageURL != "https://img/mewtwo.png" {
		t.Errorf("expected flat url, got %q", card.ImageURL)
	}

	// "error" and falsy entries are excluded; remaining labels sorted.
	want := []models.PriceQuote{
		{Label: "low", Amount: "1.20"},
		{Label: "market", Amount: "3.75"},
	}
	if len(card.Quotes) != len(want) {
		t.Fatalf("expected %d quotes, got %d: %+v", len(want), len(card.Quotes), card.Quotes)
	}
	for i, q := range want {
		if card.Quotes[i] != q {
			t.Errorf("quote %d: expected %+v, got %+v", i, q, card.Quotes[i])
		}
	}
}

func TestNormalize_NestedWrapperTakesPrecedence(t *testing.T) {
	raw := []byte(`{
		"nombre": "Flat Name",
		"card_info": {"name": "Nested Name"}
	}`)

	card, err := Normalize(raw, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Name != "Nested Name" {
		t.Errorf("expected nested name to win, got %q", card.Name)
	}
}

func TestNormalize_ZeroAndMissingPricesSkipped(t *testing.T) {
	raw := []byte(`{
		"card_info": {
			"tcgplayer": {"prices": {
				"holofoil": {"market": 0},
				"normal": {"low": 9.99}
			}}
		}
	}`)

	card, err := Normalize(raw, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(card.Quotes) != 0 {
		t.Errorf("expected no quotes, got %+v", card.Quotes)
	}
}

func TestNormalize_StringPriceValue(t *testing.T) {
	raw := []byte(`{
		"card_info": {
			"tcgplayer": {"prices": {"normal": {"market": "7.5"}}}
		}
	}`)

	card, err := Normalize(raw, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(card.Quotes) != 1 || card.Quotes[0].Amount != "7.50" {
		t.Errorf("expected one quote of '7.50', got %+v", card.Quotes)
	}
}

func TestNormalize_MalformedPriceFails(t *testing.T) {
	raw := []byte(`{
		"card_info": {
			"tcgplayer": {"prices": {"normal": {"market": "not a number"}}}
		}
	}`)

	card, err := Normalize(raw, "")
	if card != nil {
		t.Error("expected no card for malformed price")
	}
	if !errors.Is(err, ErrNormalization) {
		t.Errorf("expected ErrNormalization, got %v", err)
	}
}

func TestNormalize_MalformedJSONFails(t *testing.T) {
	card, err := Normalize([]byte(`not json at all`), "")
	if card != nil {
		t.Error("expected no card for malformed JSON")
	}
	if !errors.Is(err, ErrNormalization) {
		t.Errorf("expected ErrNormalization, got %v", err)
	}
}

func TestNormalize_AssignsIDAndTimestamp(t *testing.T) {
	first, err := Normalize([]byte(`{"card_info": {"name": "Snorlax"}}`), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Normalize([]byte(`{"card_info": {"name": "Snorlax"}}`), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID == "" || second.ID == "" {
		t.Error("expected non-empty ids")
	}
	if first.ID == second.ID {
		t.Error("expected distinct ids for successive scans")
	}
	if first.ScannedAt.IsZero() {
		t.Error("expected timestamp to be set")
	}
	if first.SalePrice != nil {
		t.Error("normalized card must not carry a sale price")
	}
}
