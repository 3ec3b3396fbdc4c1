package prescription

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStatusFor(t *testing.T) {
	now := day(2026, time.March, 15)
	if got := StatusFor(day(2026, time.March, 10), now); got != StatusExpired {
		t.Errorf("past expiry: expected Expired, got %s", got)
	}
	if got := StatusFor(day(2026, time.April, 1), now); got != StatusActive {
		t.Errorf("future expiry: expected Active, got %s", got)
	}
}

func TestResolve_ActivePastExpiryBecomesExpired(t *testing.T) {
	p := &Prescription{Status: StatusActive, ExpiryDate: day(2026, time.March, 1)}
	changed := Resolve(p, day(2026, time.March, 15))
	if !changed {
		t.Error("expected resolve to report a change")
	}
	if p.Status != StatusExpired {
		t.Errorf("expected Expired, got %s", p.Status)
	}
}

func TestResolve_ActiveFutureExpiryUnchanged(t *testing.T) {
	p := &Prescription{Status: StatusActive, ExpiryDate: day(2026, time.April, 1)}
	if Resolve(p, day(2026, time.March, 15)) {
		t.Error("expected no change for future expiry")
	}
	if p.Status != StatusActive {
		t.Errorf("expected Active, got %s", p.Status)
	}
}

func TestResolve_NeverPromotesExpired(t *testing.T) {
	// Even with the expiry edited forward, the resolver leaves Expired alone.
	p := &Prescription{Status: StatusExpired, ExpiryDate: day(2026, time.April, 1)}
	if Resolve(p, day(2026, time.March, 15)) {
		t.Error("resolver must not promote Expired back to Active")
	}
	if p.Status != StatusExpired {
		t.Errorf("expected Expired, got %s", p.Status)
	}
}

func TestDeriveExpiry(t *testing.T) {
	got := DeriveExpiry(day(2024, time.January, 1), 10)
	want := day(2024, time.January, 11)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
