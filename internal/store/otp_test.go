package store

import (
	"errors"
	"testing"
	"time"
)

func TestMemoryOTPStoreRoundTrip(t *testing.T) {
	s := NewMemoryOTPStore(0)
	s.Store("resident@example.com", "123456")

	code, err := s.Fetch("resident@example.com")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if code != "123456" {
		t.Fatalf("expected 123456, got %s", code)
	}

	if err := s.Delete("resident@example.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Fetch("resident@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryOTPStoreOverwrite(t *testing.T) {
	s := NewMemoryOTPStore(0)
	s.Store("resident@example.com", "111111")
	s.Store("resident@example.com", "222222")

	code, err := s.Fetch("resident@example.com")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if code != "222222" {
		t.Fatalf("expected latest code, got %s", code)
	}
}

func TestMemoryOTPStoreExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryOTPStore(5 * time.Minute)
	s.WithClock(func() time.Time { return now })

	s.Store("resident@example.com", "123456")

	now = now.Add(4 * time.Minute)
	if _, err := s.Fetch("resident@example.com"); err != nil {
		t.Fatalf("code should still be valid: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := s.Fetch("resident@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}

	// The expired entry is dropped, so a delete also misses.
	if err := s.Delete("resident@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestMemoryOTPStoreUnknownEmail(t *testing.T) {
	s := NewMemoryOTPStore(0)
	if _, err := s.Fetch("nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
