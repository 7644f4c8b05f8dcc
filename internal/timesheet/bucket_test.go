package timesheet

import (
	"errors"
	"testing"
	"time"

	"github.com/crewclock/crewclock/internal/apperr"
	"github.com/crewclock/crewclock/internal/models"
)

func TestWeekStartOf(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"wednesday maps to preceding monday",
			time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC),
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday maps to itself at midnight",
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the week begun the previous monday",
			time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC),
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStartOf(tt.in); !got.Equal(tt.want) {
				t.Errorf("WeekStartOf(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekEndOf(t *testing.T) {
	ws := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	want := time.Date(2026, 3, 8, 23, 59, 59, 999000000, time.UTC)
	if got := WeekEndOf(ws); !got.Equal(want) {
		t.Errorf("WeekEndOf(%v) = %v, want %v", ws, got, want)
	}
}

func entry(in, out time.Time) models.TimeEntry {
	return models.TimeEntry{ClockInTime: in, ClockOutTime: &out}
}

func TestBuildWeeklyBuckets(t *testing.T) {
	week1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)  // Monday
	week2 := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC) // Wednesday next week

	entries := []models.TimeEntry{
		entry(week2, week2.Add(4*time.Hour)),
		entry(week1.AddDate(0, 0, 1), week1.AddDate(0, 0, 1).Add(8*time.Hour)),
		entry(week1, week1.Add(6*time.Hour)),
	}

	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	buckets, err := BuildWeeklyBuckets(entries, []string{"2026-03-02"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}

	// Most recent week first.
	if buckets[0].WeekIdentifier != "2026-03-09" {
		t.Errorf("first bucket = %s, want 2026-03-09", buckets[0].WeekIdentifier)
	}
	if buckets[1].WeekIdentifier != "2026-03-02" {
		t.Errorf("second bucket = %s, want 2026-03-02", buckets[1].WeekIdentifier)
	}

	// Entries inside a bucket are ascending by clock-in.
	old := buckets[1]
	if len(old.Entries) != 2 {
		t.Fatalf("expected 2 entries in older bucket, got %d", len(old.Entries))
	}
	if !old.Entries[0].ClockInTime.Before(old.Entries[1].ClockInTime) {
		t.Error("entries not sorted ascending by clock-in")
	}

	// 6h (no break) + 8h (break deducted to 7.5h) = 13.5.
	if old.TotalHours != 13.5 {
		t.Errorf("older bucket total = %v, want 13.5", old.TotalHours)
	}

	if !old.Archived {
		t.Error("submitted week should be archived")
	}
	if old.Overdue {
		t.Error("archived week must never be overdue")
	}

	// The newer week is unsubmitted and its end plus grace has passed.
	if buckets[0].Archived {
		t.Error("unsubmitted week must not be archived")
	}
	if !buckets[0].Overdue {
		t.Error("expected unsubmitted past week to be overdue")
	}
}

func TestBuildWeeklyBucketsWithinGrace(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	entries := []models.TimeEntry{entry(in, in.Add(2*time.Hour))}

	// Two days after week end, still inside the three-day grace window.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	buckets, err := BuildWeeklyBuckets(entries, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buckets[0].Overdue {
		t.Error("week inside grace period should not be overdue")
	}
}

func TestBuildWeeklyBucketsCorruptEntry(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := in.Add(-time.Hour)
	entries := []models.TimeEntry{entry(in, out)}

	_, err := BuildWeeklyBuckets(entries, nil, in)
	if err == nil {
		t.Fatal("expected error for negative duration entry")
	}
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestHasOpenEntries(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	b := WeeklyBucket{Entries: []models.TimeEntry{entry(in, in.Add(time.Hour))}}
	if b.HasOpenEntries() {
		t.Error("bucket of closed entries reported open")
	}
	b.Entries = append(b.Entries, models.TimeEntry{ClockInTime: in})
	if !b.HasOpenEntries() {
		t.Error("bucket with an open entry not reported open")
	}
}
