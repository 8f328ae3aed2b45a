package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/Aniela13/card-scanner/internal/metrics"
	"github.com/Aniela13/card-scanner/internal/models"
	"github.com/Aniela13/card-scanner/internal/store"
)

// ImageRecognizer is what the scanner needs from the recognition client.
type ImageRecognizer interface {
	Recognize(ctx context.Context, image []byte) ([]byte, error)
}

// Scanner runs the scan session: forward a capture to the recognition
// service, hold the normalized card as pending, and finalize it into the
// collection once the user confirms a sale price.
//
// At most one scan may be in flight at a time. The slot is taken at the
// start of Scan and released on every exit path, so a failed or slow
// scan can never wedge the session.
type Scanner struct {
	recognizer ImageRecognizer
	images     *ImageStorage
	collection store.Collection

	mu       sync.Mutex
	scanning bool
	pending  *models.Card

	// stagedFile is the on-disk capture backing the pending card. It is
	// removed whenever the scan it belongs to is abandoned instead of
	// saved, so failed scans never leak files.
	stagedFile string
}

func NewScanner(recognizer ImageRecognizer, images *ImageStorage, collection store.Collection) *Scanner {
	return &Scanner{
		recognizer: recognizer,
		images:     images,
		collection: collection,
	}
}

// Scan processes one captured image end to end and returns the pending
// card awaiting a sale price. A failed recognition or normalization
// clears the staged preview so the UI never shows a mismatched state.
func (s *Scanner) Scan(ctx context.Context, image []byte) (*models.Card, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	// A fresh scan replaces whatever was pending before it.
	s.discardStaged()

	// Stage the local capture first; it doubles as the image fallback
	// when the service response carries no image of its own.
	var stagedFile, stagedRef string
	if s.images != nil {
		if filename, err := s.images.SaveImage(image); err == nil {
			stagedFile = filename
			stagedRef = s.images.PublicURL(filename)
		}
	}

	raw, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		s.removeFile(stagedFile)
		metrics.ScansTotal.WithLabelValues("network_error").Inc()
		return nil, err
	}

	card, err := Normalize(raw, stagedRef)
	if err != nil {
		s.removeFile(stagedFile)
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			metrics.ScansTotal.WithLabelValues("service_error").Inc()
		} else {
			metrics.ScansTotal.WithLabelValues("normalization_error").Inc()
		}
		return nil, err
	}

	s.mu.Lock()
	s.pending = card
	s.stagedFile = stagedFile
	s.mu.Unlock()

	metrics.ScansTotal.WithLabelValues("success").Inc()
	return card, nil
}

// Finalize attaches the user-supplied sale price to the pending card and
// persists it. The price input is the raw form string: empty input (or
// no pending card) is ErrMissingPrice, anything that does not parse to a
// finite non-negative number is ErrInvalidPrice.
func (s *Scanner) Finalize(priceInput string) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil || strings.TrimSpace(priceInput) == "" {
		return nil, ErrMissingPrice
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(priceInput), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return nil, ErrInvalidPrice
	}

	card := *s.pending
	card.SalePrice = &price

	if err := s.collection.Save(card); err != nil {
		return nil, err
	}

	// The saved card now owns the staged capture.
	s.pending = nil
	s.stagedFile = ""
	return &card, nil
}

// Reset abandons the pending scan, removing the staged capture. This is
// the user-cancel and navigate-away path.
func (s *Scanner) Reset() {
	s.discardStaged()
}

// Pending returns the card awaiting a sale price, or nil.
func (s *Scanner) Pending() *models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Scanner) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanning {
		return ErrScanInFlight
	}
	s.scanning = true
	return nil
}

func (s *Scanner) release() {
	s.mu.Lock()
	s.scanning = false
	s.mu.Unlock()
}

// discardStaged drops the pending card and removes its staged capture.
func (s *Scanner) discardStaged() {
	s.mu.Lock()
	staged := s.stagedFile
	s.pending = nil
	s.stagedFile = ""
	s.mu.Unlock()

	s.removeFile(staged)
}

func (s *Scanner) removeFile(filename string) {
	if s.images != nil && filename != "" {
		s.images.Remove(filename)
	}
}
