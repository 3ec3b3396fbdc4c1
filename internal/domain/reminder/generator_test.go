package reminder

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/medication"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOccurrences_Daily(t *testing.T) {
	start := date(2026, time.March, 1)
	days := Occurrences(medication.FrequencyDaily, start, 30)
	if len(days) != 30 {
		t.Fatalf("expected 30 occurrences, got %d", len(days))
	}
	if !days[0].Equal(start) {
		t.Errorf("expected first occurrence %v, got %v", start, days[0])
	}
	if !days[29].Equal(date(2026, time.March, 30)) {
		t.Errorf("expected last occurrence 2026-03-30, got %v", days[29])
	}
}

func TestOccurrences_Alternate(t *testing.T) {
	start := date(2026, time.March, 1)
	days := Occurrences(medication.FrequencyAlternate, start, 30)
	if len(days) != 15 {
		t.Fatalf("expected 15 occurrences, got %d", len(days))
	}
	// Anchored at the start date: offsets 0, 2, 4, ...
	for i, d := range days {
		want := start.AddDate(0, 0, 2*i)
		if !d.Equal(want) {
			t.Errorf("occurrence %d: expected %v, got %v", i, want, d)
		}
	}
}

func TestOccurrences_CustomGeneratesDaily(t *testing.T) {
	start := date(2026, time.March, 1)
	days := Occurrences(medication.FrequencyCustom, start, 30)
	if len(days) != 30 {
		t.Fatalf("expected 30 occurrences for Custom, got %d", len(days))
	}
}

func TestOccurrences_NormalizesStartToMidnight(t *testing.T) {
	start := time.Date(2026, time.March, 1, 14, 37, 9, 0, time.UTC)
	days := Occurrences(medication.FrequencyDaily, start, 3)
	for i, d := range days {
		if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
			t.Errorf("occurrence %d not midnight-normalized: %v", i, d)
		}
	}
}

func TestOccurrences_ZeroHorizon(t *testing.T) {
	days := Occurrences(medication.FrequencyDaily, date(2026, time.March, 1), 0)
	if len(days) != 0 {
		t.Errorf("expected no occurrences for zero horizon, got %d", len(days))
	}
}

func TestBuildBatch_AllPending(t *testing.T) {
	owner, med := uuid.New(), uuid.New()
	days := []time.Time{date(2026, time.March, 1), date(2026, time.March, 2)}
	batch := buildBatch(owner, med, "09:00", days)
	if len(batch) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(batch))
	}
	for i, r := range batch {
		if r.Taken || r.Snoozed || r.SnoozeCount != 0 {
			t.Errorf("reminder %d not pending: %+v", i, r)
		}
		if r.UserID != owner || r.MedicationID != med {
			t.Errorf("reminder %d has wrong references", i)
		}
		if r.TimeOfDay != "09:00" {
			t.Errorf("reminder %d time: got %q", i, r.TimeOfDay)
		}
	}
}
