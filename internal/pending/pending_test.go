package pending

import (
	"errors"
	"testing"
	"time"
)

func TestPutGetDelete(t *testing.T) {
	s := NewStore(time.Minute, time.Hour)

	rec := Registration{Code: "123456", Login: "ivan", Email: "ivan@example.com"}
	s.Put("ivan@example.com", rec)

	got, err := s.Get("ivan@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.Code != "123456" || got.Login != "ivan" {
		t.Fatalf("got %+v", got)
	}
	if got.ExpiresAt.IsZero() {
		t.Fatal("Put did not stamp ExpiresAt")
	}

	s.Delete("ivan@example.com")
	if _, err := s.Get("ivan@example.com"); !errors.Is(err, ErrNoPending) {
		t.Fatalf("err = %v, want ErrNoPending", err)
	}
}

func TestGetUnknown(t *testing.T) {
	s := NewStore(time.Minute, time.Hour)

	if _, err := s.Get("nobody@example.com"); !errors.Is(err, ErrNoPending) {
		t.Fatalf("err = %v, want ErrNoPending", err)
	}
}

func TestRecordSurvivesRetries(t *testing.T) {
	s := NewStore(time.Minute, time.Hour)
	s.Put("a@example.com", Registration{Code: "654321"})

	// A wrong-code attempt reads the record but must not consume it.
	for i := 0; i < 3; i++ {
		if _, err := s.Get("a@example.com"); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
	}
}

func TestPutReplacesEarlierAttempt(t *testing.T) {
	s := NewStore(time.Minute, time.Hour)
	s.Put("a@example.com", Registration{Code: "111111"})
	s.Put("a@example.com", Registration{Code: "222222"})

	got, err := s.Get("a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.Code != "222222" {
		t.Fatalf("Code = %q, want the latest attempt", got.Code)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestExpiry(t *testing.T) {
	s := NewStore(10*time.Millisecond, time.Hour)
	s.Put("a@example.com", Registration{Code: "123456"})

	time.Sleep(20 * time.Millisecond)

	if _, err := s.Get("a@example.com"); !errors.Is(err, ErrExpired) {
		t.Fatalf("err = %v, want ErrExpired", err)
	}

	// The expired record is dropped on read, so the next attempt starts over.
	if _, err := s.Get("a@example.com"); !errors.Is(err, ErrNoPending) {
		t.Fatalf("err = %v, want ErrNoPending after expiry", err)
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	s := NewStore(5*time.Millisecond, 10*time.Millisecond)
	s.Put("a@example.com", Registration{Code: "123456"})
	s.Put("b@example.com", Registration{Code: "654321"})

	deadline := time.Now().Add(time.Second)
	for s.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("sweep did not clear expired records, Len() = %d", s.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
