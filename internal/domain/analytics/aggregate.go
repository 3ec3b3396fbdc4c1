// Package analytics computes adherence ratios and activity histograms and
// composes them into role-scoped overview reports.
package analytics

import (
	"math"
	"time"
)

// Percentage is the rounded adherence ratio. Zero total is defined as 0%,
// never a division error.
func Percentage(taken, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(taken) / float64(total)))
}

// MonthCount is one histogram bucket, labeled "Jan 2026" style.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// MonthlyBuckets buckets issue timestamps into the trailing six calendar
// months including the current one, oldest first. Timestamps outside the
// window are dropped silently.
func MonthlyBuckets(issued []time.Time, now time.Time) []MonthCount {
	const window = 6

	type ym struct {
		year  int
		month time.Month
	}
	// Anchor at the first of the month so AddDate cannot skip short months.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	index := make(map[ym]int, window)
	buckets := make([]MonthCount, window)
	for i := 0; i < window; i++ {
		t := anchor.AddDate(0, i-(window-1), 0)
		key := ym{t.Year(), t.Month()}
		index[key] = i
		buckets[i] = MonthCount{Month: t.Format("Jan 2006")}
	}
	for _, t := range issued {
		if i, ok := index[ym{t.Year(), t.Month()}]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// weeklyBaseline is fixed reference data for the first three points of the
// weekly trend. Real historical weekly computation is not implemented yet;
// only the final point reflects the patient's current adherence.
var weeklyBaseline = []int{65, 72, 68}

// WeeklyTrend returns the 4-point series: three baseline points plus the
// current adherence percentage.
func WeeklyTrend(current int) []int {
	trend := make([]int, 0, len(weeklyBaseline)+1)
	trend = append(trend, weeklyBaseline...)
	return append(trend, current)
}
