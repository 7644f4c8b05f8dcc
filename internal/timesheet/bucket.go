package timesheet

import (
	"sort"
	"time"

	"github.com/crewclock/crewclock/internal/models"
)

// OverdueGrace is how long after a week ends before an unsubmitted week is
// flagged overdue. Presentation only; it never blocks submission.
const OverdueGrace = 3 * 24 * time.Hour

// WeeklyBucket is a Monday-Sunday grouping of one user's entries. Buckets
// are derived fresh on every aggregation, never cached across loads.
type WeeklyBucket struct {
	WeekIdentifier string
	WeekStart      time.Time
	WeekEnd        time.Time
	Entries        []models.TimeEntry
	TotalHours     float64
	Archived       bool
	Overdue        bool
}

// HasOpenEntries reports whether any entry in the bucket lacks a clock-out.
func (b *WeeklyBucket) HasOpenEntries() bool {
	for i := range b.Entries {
		if b.Entries[i].Open() {
			return true
		}
	}
	return false
}

// WeekStartOf returns the Monday 00:00:00.000 of the calendar week
// containing t, in t's location. Sunday belongs to the week that began
// the previous Monday.
func WeekStartOf(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// WeekEndOf returns the Sunday 23:59:59.999 closing the week that starts
// at weekStart.
func WeekEndOf(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 7).Add(-time.Millisecond)
}

// WeekIdentifierOf is the ISO date (YYYY-MM-DD) of the week's Monday.
func WeekIdentifierOf(weekStart time.Time) string {
	return weekStart.Format("2006-01-02")
}

// BuildWeeklyBuckets groups entries into calendar weeks. Within a bucket
// entries are sorted ascending by clock-in; buckets are sorted descending
// by week start (most recent first). TotalHours sums the break-adjusted
// durations of closed entries, unrounded. A bucket is archived iff its
// identifier is in submittedWeeks; an active bucket is overdue once now
// passes weekEnd plus the grace period.
//
// Any entry with a clock-out before its clock-in fails the whole build
// with a ValidationError: no partial weekly results are returned.
func BuildWeeklyBuckets(entries []models.TimeEntry, submittedWeeks []string, now time.Time) ([]WeeklyBucket, error) {
	submitted := make(map[string]struct{}, len(submittedWeeks))
	for _, w := range submittedWeeks {
		submitted[w] = struct{}{}
	}

	grouped := make(map[string]*WeeklyBucket)
	for _, entry := range entries {
		weekStart := WeekStartOf(entry.ClockInTime)
		id := WeekIdentifierOf(weekStart)

		bucket, ok := grouped[id]
		if !ok {
			bucket = &WeeklyBucket{
				WeekIdentifier: id,
				WeekStart:      weekStart,
				WeekEnd:        WeekEndOf(weekStart),
			}
			grouped[id] = bucket
		}
		bucket.Entries = append(bucket.Entries, entry)
	}

	buckets := make([]WeeklyBucket, 0, len(grouped))
	for _, bucket := range grouped {
		sort.Slice(bucket.Entries, func(i, j int) bool {
			return bucket.Entries[i].ClockInTime.Before(bucket.Entries[j].ClockInTime)
		})

		var total time.Duration
		for i := range bucket.Entries {
			d, _, err := EntryDuration(&bucket.Entries[i])
			if err != nil {
				return nil, err
			}
			total += d
		}
		bucket.TotalHours = Hours(total)

		_, bucket.Archived = submitted[bucket.WeekIdentifier]
		if !bucket.Archived {
			bucket.Overdue = now.After(bucket.WeekEnd.Add(OverdueGrace))
		}

		buckets = append(buckets, *bucket)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].WeekStart.After(buckets[j].WeekStart)
	})

	return buckets, nil
}
