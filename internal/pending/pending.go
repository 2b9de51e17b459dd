// Package pending holds registrations that have been started but not yet
// verified by email code. The store is in-memory on purpose: a restart
// cancels in-flight registrations, which only costs the user a retry.
package pending

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNoPending = errors.New("no pending registration for this email")
	ErrExpired   = errors.New("verification code expired")
)

// Registration is the submitted profile waiting for its email code. The
// password stays plaintext here; it is hashed when the user row is created
// after a successful verify.
type Registration struct {
	Code      string
	Login     string
	Password  string
	FirstName string
	LastName  string
	City      string
	Email     string
	Status    string
	ExpiresAt time.Time
}

type Store struct {
	sync.Mutex
	records map[string]Registration
	ttl     time.Duration
}

// NewStore creates a store whose entries expire after ttl. A background
// sweep removes expired entries so abandoned registrations do not pile up
// between reads.
func NewStore(ttl, sweepEvery time.Duration) *Store {
	s := &Store{
		records: make(map[string]Registration),
		ttl:     ttl,
	}
	go s.sweep(sweepEvery)
	return s
}

func (s *Store) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	for range ticker.C {
		now := time.Now()
		s.Lock()
		for email, rec := range s.records {
			if now.After(rec.ExpiresAt) {
				delete(s.records, email)
			}
		}
		s.Unlock()
	}
}

// Put stores a registration keyed by email, replacing any earlier attempt
// for the same address, and stamps its expiry.
func (s *Store) Put(email string, rec Registration) {
	rec.ExpiresAt = time.Now().Add(s.ttl)

	s.Lock()
	s.records[email] = rec
	s.Unlock()
}

// Get returns the pending registration for email. An expired record is
// removed and reported as ErrExpired; the record is otherwise left in place
// so a wrong code can be retried until expiry.
func (s *Store) Get(email string) (Registration, error) {
	s.Lock()
	defer s.Unlock()

	rec, ok := s.records[email]
	if !ok {
		return Registration{}, ErrNoPending
	}
	if time.Now().After(rec.ExpiresAt) {
		delete(s.records, email)
		return Registration{}, ErrExpired
	}
	return rec, nil
}

// Delete removes the record once verification completes.
func (s *Store) Delete(email string) {
	s.Lock()
	delete(s.records, email)
	s.Unlock()
}

// Len reports the number of records currently held.
func (s *Store) Len() int {
	s.Lock()
	defer s.Unlock()
	return len(s.records)
}
