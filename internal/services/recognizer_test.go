package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestRecognize_ReturnsRawBody(t *testing.T) {
	var gotField string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("expected multipart image field: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotField = header.Filename

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"card_info": {"name": "Pikachu"}}`))
	}))
	defer server.Close()

	recognizer := NewRecognizer(server.URL)
	raw, err := recognizer.Recognize(context.Background(), []byte("fake image bytes"))
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if !strings.Contains(string(raw), "Pikachu") {
		t.Errorf("unexpected body: %s", raw)
	}
	if gotField != "photo.png" {
		t.Errorf("expected upload filename photo.png, got %q", gotField)
	}
}

func TestRecognize_NonOKStatusIsNetworkError(t *testing.T) {
	longBody := strings.Repeat("x", 200)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, longBody, http.StatusInternalServerError)
	}))
	defer server.Close()

	recognizer := NewRecognizer(server.URL)
	_, err := recognizer.Recognize(context.Background(), []byte("img"))
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}

	// The error body is truncated before being surfaced.
	if strings.Contains(err.Error(), longBody) {
		t.Error("expected error body to be truncated")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestRecognize_UnreachableServiceIsNetworkError(t *testing.T) {
	// Closed server: the request cannot reach anything.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	recognizer := NewRecognizer(server.URL)
	_, err := recognizer.Recognize(context.Background(), []byte("img"))
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestRecognize_CachesRepeatSubmissions(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"card_info": {"name": "Pikachu"}}`))
	}))
	defer server.Close()

	recognizer := NewRecognizer(server.URL)
	image := []byte("the same photo")

	for i := 0; i < 3; i++ {
		if _, err := recognizer.Recognize(context.Background(), image); err != nil {
			t.Fatalf("recognize %d: %v", i, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 upstream call for repeated image, got %d", calls.Load())
	}

	// A different image misses the cache.
	if _, err := recognizer.Recognize(context.Background(), []byte("another photo")); err != nil {
		t.Fatalf("recognize different image: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls.Load())
	}
}

func TestRecognize_ErrorResponsesAreNotCached(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	recognizer := NewRecognizer(server.URL)
	image := []byte("img")

	for i := 0; i < 2; i++ {
		if _, err := recognizer.Recognize(context.Background(), image); !errors.Is(err, ErrNetwork) {
			t.Fatalf("recognize %d: expected ErrNetwork, got %v", i, err)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("failed responses must not be cached, got %d calls", calls.Load())
	}
}
