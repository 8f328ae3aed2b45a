package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/Aniela13/card-scanner/internal/metrics"
)

const (
	recognizerDefaultTimeout = 30 * time.Second
	recognizerCacheSize      = 50

	// Error bodies from the service are truncated to this length before
	// being shown to the user.
	errorBodyLimit = 50
)

// Recognizer sends captured card images to the external recognition
// service and returns the raw JSON response for normalization.
type Recognizer struct {
	client   *http.Client
	endpoint string
	limiter  *rate.Limiter

	// cache maps sha256(image) to the raw response so re-submitting the
	// same photo does not burn another service call.
	cache *lru.Cache[string, []byte]
}

// NewRecognizer creates a recognizer for the given endpoint, e.g.
// http://localhost:5000/process_image.
func NewRecognizer(endpoint string) *Recognizer {
	cache, err := lru.New[string, []byte](recognizerCacheSize)
	if err != nil {
		// Only possible with a non-positive size.
		panic(err)
	}

	return &Recognizer{
		client: &http.Client{
			Timeout: recognizerDefaultTimeout,
		},
		endpoint: endpoint,
		// One request per second with a small burst is plenty for an
		// interactive scanner and keeps a misbehaving client from
		// hammering the service.
		limiter: rate.NewLimiter(rate.Limit(1), 3),
		cache:   cache,
	}
}

// Recognize POSTs the image as a multipart body and returns the raw JSON
// response. Transport failures and non-2xx statuses both come back as
// ErrNetwork; the caller surfaces them as connectivity problems.
func (r *Recognizer) Recognize(ctx context.Context, image []byte) ([]byte, error) {
	sum := sha256.Sum256(image)
	key := hex.EncodeToString(sum[:])
	if raw, ok := r.cache.Get(key); ok {
		metrics.RecognizerCacheHits.Inc()
		return raw, nil
	}
	metrics.RecognizerCacheMisses.Inc()

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", "photo.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(image); err != nil {
		return nil, fmt.Errorf("write image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	start := time.Now()
	resp, err := r.client.Do(req)
	metrics.RecognizerLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrNetwork, resp.StatusCode, truncate(string(body), errorBodyLimit))
	}

	r.cache.Add(key, body)
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
