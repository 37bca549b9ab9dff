package daterange

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, in, out time.Time) DateRange {
	t.Helper()
	dr, err := New(in, out)
	if err != nil {
		t.Fatalf("New(%v, %v): %v", in, out, err)
	}
	return dr
}

func TestNewRejectsEmptyAndInvertedRanges(t *testing.T) {
	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
	}{
		{"zero nights", day(2026, 3, 10), day(2026, 3, 10)},
		{"inverted", day(2026, 3, 12), day(2026, 3, 10)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.checkIn, tc.checkOut); !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
		})
	}
}

func TestNewTruncatesToDay(t *testing.T) {
	in := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	out := time.Date(2026, 3, 12, 7, 0, 0, 0, time.UTC)
	dr := mustRange(t, in, out)
	if !dr.CheckIn.Equal(day(2026, 3, 10)) {
		t.Errorf("check-in not truncated: %v", dr.CheckIn)
	}
	if !dr.CheckOut.Equal(day(2026, 3, 12)) {
		t.Errorf("check-out not truncated: %v", dr.CheckOut)
	}
	if dr.Nights() != 2 {
		t.Errorf("Nights() = %d, want 2", dr.Nights())
	}
}

func TestOverlapsHalfOpenBoundaries(t *testing.T) {
	base := mustRange(t, day(2026, 3, 10), day(2026, 3, 15))
	cases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"identical", mustRangeHelper(day(2026, 3, 10), day(2026, 3, 15)), true},
		{"contained", mustRangeHelper(day(2026, 3, 11), day(2026, 3, 13)), true},
		{"overlaps start", mustRangeHelper(day(2026, 3, 8), day(2026, 3, 11)), true},
		{"overlaps end", mustRangeHelper(day(2026, 3, 14), day(2026, 3, 18)), true},
		{"one shared night", mustRangeHelper(day(2026, 3, 14), day(2026, 3, 15)), true},
		{"checkout meets checkin", mustRangeHelper(day(2026, 3, 5), day(2026, 3, 10)), false},
		{"checkin meets checkout", mustRangeHelper(day(2026, 3, 15), day(2026, 3, 20)), false},
		{"strictly before", mustRangeHelper(day(2026, 3, 1), day(2026, 3, 4)), false},
		{"strictly after", mustRangeHelper(day(2026, 3, 20), day(2026, 3, 22)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
			// overlap is symmetric
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Errorf("reverse Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}

func mustRangeHelper(in, out time.Time) DateRange {
	dr, _ := New(in, out)
	return dr
}

func TestContainsDate(t *testing.T) {
	dr := mustRangeHelper(day(2026, 3, 10), day(2026, 3, 12))
	if !dr.ContainsDate(day(2026, 3, 10)) {
		t.Error("check-in day should be contained")
	}
	if !dr.ContainsDate(day(2026, 3, 11)) {
		t.Error("middle night should be contained")
	}
	if dr.ContainsDate(day(2026, 3, 12)) {
		t.Error("check-out day must not be contained")
	}
}
