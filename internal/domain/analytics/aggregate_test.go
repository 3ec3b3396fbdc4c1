package analytics

import (
	"testing"
	"time"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		taken, total, want int
	}{
		{7, 10, 70},
		{0, 0, 0},
		{0, 5, 0},
		{5, 5, 100},
		{2, 3, 67},
		{1, 3, 33},
	}
	for _, tt := range tests {
		if got := Percentage(tt.taken, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.taken, tt.total, got, tt.want)
		}
	}
}

func TestMonthlyBuckets_WindowAndOrder(t *testing.T) {
	now := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	issued := []time.Time{
		time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), // outside window
		time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),    // a year ago
	}

	buckets := MonthlyBuckets(issued, now)
	if len(buckets) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(buckets))
	}
	if buckets[0].Month != "Mar 2026" {
		t.Errorf("expected oldest bucket Mar 2026, got %s", buckets[0].Month)
	}
	if buckets[5].Month != "Aug 2026" {
		t.Errorf("expected newest bucket Aug 2026, got %s", buckets[5].Month)
	}
	if buckets[0].Count != 1 {
		t.Errorf("expected 1 in March, got %d", buckets[0].Count)
	}
	if buckets[5].Count != 2 {
		t.Errorf("expected 2 in August, got %d", buckets[5].Count)
	}
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total != 3 {
		t.Errorf("out-of-window issues must be dropped, counted %d", total)
	}
}

func TestMonthlyBuckets_EndOfMonthAnchor(t *testing.T) {
	// March 31 minus months must not skip short months.
	now := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	buckets := MonthlyBuckets(nil, now)
	if buckets[4].Month != "Feb 2026" {
		t.Errorf("expected Feb 2026 before current month, got %s", buckets[4].Month)
	}
}

func TestWeeklyTrend(t *testing.T) {
	trend := WeeklyTrend(80)
	if len(trend) != 4 {
		t.Fatalf("expected 4 points, got %d", len(trend))
	}
	if trend[3] != 80 {
		t.Errorf("expected final point to be the current percentage, got %d", trend[3])
	}
}
