package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Aniela13/card-scanner/internal/models"
)

// The recognition service is free to answer in two shapes: a flat object
// (nombre/expansionf/url plus a tcg price map) or the richer form with
// everything nested under card_info. Field extraction below probes the
// nested location first and falls back to the flat one, so both shapes
// normalize to the same Card.

// priceProbe is one known location of a reference price, relative to the
// tcgplayer price block. Probes run in fixed priority order and each one
// is independently optional.
type priceProbe struct {
	label string
	path  []string
}

var priceProbes = []priceProbe{
	{label: "Holo Market Price", path: []string{"holofoil", "market"}},
	{label: "Normal Market Price", path: []string{"normal", "market"}},
	{label: "Low Price (CardMarket)", path: []string{"lowPrice"}},
}

// Normalize converts a raw recognition service response into a Card with
// no sale price attached. fallbackImageRef is the locally staged capture,
// used when the service provides no image of its own.
//
// An explicit "error" field in the payload becomes a *ServiceError with
// the service's message verbatim. Anything else that cannot be
// reconciled becomes ErrNormalization. Missing name, set, or image never
// fail; they fall back to placeholders.
func Normalize(raw []byte, fallbackImageRef string) (*models.Card, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNormalization, err)
	}

	if msg := stringField(payload, "error"); msg != "" {
		return nil, &ServiceError{Message: msg}
	}

	// The substantive payload is the card_info wrapper when present,
	// otherwise the top level itself.
	info := payload
	if wrapped, ok := payload["card_info"].(map[string]any); ok {
		info = wrapped
	}

	name := firstNonEmpty(
		stringField(info, "name"),
		stringField(payload, "nombre"),
		models.PlaceholderName,
	)

	setName := firstNonEmpty(
		stringField(info, "set", "name"),
		stringField(info, "expansionf"),
		stringField(payload, "expansionf"),
		models.PlaceholderSet,
	)

	imageURL := firstNonEmpty(
		stringField(info, "images", "large"),
		stringField(info, "images", "small"),
		stringField(payload, "url"),
		fallbackImageRef,
	)

	quotes, err := extractQuotes(info, payload)
	if err != nil {
		return nil, err
	}

	return &models.Card{
		ID:        uuid.New().String(),
		Name:      name,
		SetName:   setName,
		ImageURL:  imageURL,
		Quotes:    quotes,
		ScannedAt: time.Now().UTC(),
	}, nil
}

// extractQuotes builds the price quote list. The tcgplayer price block
// is probed in fixed priority order; when the response has no such block
// a flat tcg map (label -> price) is used instead.
func extractQuotes(info, payload map[string]any) ([]models.PriceQuote, error) {
	quotes := []models.PriceQuote{}

	if prices, ok := lookup(info, "tcgplayer", "prices"); ok {
		priceMap, ok := prices.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: tcgplayer prices is not an object", ErrNormalization)
		}
		for _, probe := range priceProbes {
			value, ok := lookup(priceMap, probe.path...)
			if !ok || !truthy(value) {
				continue
			}
			amount, err := formatAmount(value)
			if err != nil {
				return nil, err
			}
			quotes = append(quotes, models.PriceQuote{Label: probe.label, Amount: amount})
		}
		return quotes, nil
	}

	if flat, ok := payload["tcg"].(map[string]any); ok {
		labels := make([]string, 0, len(flat))
		for label := range flat {
			if label == "error" {
				continue
			}
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			value := flat[label]
			if !truthy(value) {
				continue
			}
			quotes = append(quotes, models.PriceQuote{Label: label, Amount: stringify(value)})
		}
	}

	return quotes, nil
}

// lookup walks a nested path of object keys and reports whether a value
// exists there.
func lookup(m map[string]any, path ...string) (any, bool) {
	var current any = m
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// stringField returns the string at the given path, or "" when the path
// is absent or holds a non-string.
func stringField(m map[string]any, path ...string) string {
	value, ok := lookup(m, path...)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// truthy mirrors the presence check applied to raw price values: zero,
// empty string, false, and null all contribute nothing.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// formatAmount renders a price value to two decimal places. A truthy
// value that cannot be coerced to a number fails normalization instead
// of producing a garbage amount.
func formatAmount(value any) (string, error) {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", fmt.Errorf("%w: malformed price value %q", ErrNormalization, v)
		}
		return strconv.FormatFloat(f, 'f', 2, 64), nil
	default:
		return "", fmt.Errorf("%w: unexpected price value type %T", ErrNormalization, value)
	}
}

// stringify renders a flat tcg map price the way the service sent it,
// trimming the trailing zeros JSON decoding would otherwise add.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
