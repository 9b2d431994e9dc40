package store

import (
	"sync"
	"time"
)

const defaultOTPTTL = 5 * time.Minute

// MemoryOTPStore keeps at most one active code per email address.
// Entries live only for the process lifetime and expire after the
// configured TTL. All access goes through one mutex, so concurrent
// send/verify calls for the same email serialize instead of racing.
type MemoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	ttl     time.Duration
	now     func() time.Time
}

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// NewMemoryOTPStore constructs a store with the given TTL; ttl <= 0
// selects the default of five minutes.
func NewMemoryOTPStore(ttl time.Duration) *MemoryOTPStore {
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	return &MemoryOTPStore{
		entries: make(map[string]otpEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Store saves a code for the email, overwriting any prior unconsumed code.
func (s *MemoryOTPStore) Store(email, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = otpEntry{
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}
}

// Fetch returns the active code for the email. Expired entries are
// dropped and reported as missing.
func (s *MemoryOTPStore) Fetch(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[email]
	if !ok {
		return "", ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, email)
		return "", ErrNotFound
	}
	return entry.code, nil
}

// Delete removes the entry, enforcing single-use semantics.
func (s *MemoryOTPStore) Delete(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[email]; !ok {
		return ErrNotFound
	}
	delete(s.entries, email)
	return nil
}

// WithClock overrides the internal clock, used in tests.
func (s *MemoryOTPStore) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}
