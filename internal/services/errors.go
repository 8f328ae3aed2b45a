package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the scan and save flow. Handlers map these to HTTP
// statuses; nothing below this layer touches the response writer.
var (
	// ErrNetwork covers transport failures and non-2xx answers from the
	// recognition service.
	ErrNetwork = errors.New("recognition service unreachable")

	// ErrNormalization means the service response could not be
	// reconciled into a card.
	ErrNormalization = errors.New("could not process service response")

	// ErrMissingPrice is returned when there is no pending card or the
	// sale price input is empty.
	ErrMissingPrice = errors.New("sale price is required")

	// ErrInvalidPrice is returned when the sale price input is not a
	// finite, non-negative number.
	ErrInvalidPrice = errors.New("invalid sale price")

	// ErrScanInFlight is returned when a scan is started while another
	// one is still outstanding.
	ErrScanInFlight = errors.New("a scan is already in progress")
)

// ServiceError is an error the recognition service reported explicitly
// in its payload. The message is surfaced to the user verbatim.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service reported error: %s", e.Message)
}
