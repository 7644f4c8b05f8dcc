package timesheet

import (
	"sort"
	"time"

	"github.com/crewclock/crewclock/internal/models"
)

// MaxSitesPerDayExport caps how many site columns a single day occupies in
// the CSV export. When a day spans more sites, the largest apportioned
// hours win the columns; the remainder is still counted in the day total
// and the week's site totals.
const MaxSitesPerDayExport = 3

// UnassignedSite is the synthetic bucket for days where no entry resolves
// to a site.
const UnassignedSite = "Unassigned"

// Lookups are the read-only indexes an allocation pass resolves jobs and
// sites through. Built once per aggregation call from fetched snapshots
// and never mutated during a cycle.
type Lookups struct {
	Jobs  map[string]models.Job
	Sites map[string]models.Site
}

func NewLookups(jobs []models.Job, sites []models.Site) Lookups {
	lk := Lookups{
		Jobs:  make(map[string]models.Job, len(jobs)),
		Sites: make(map[string]models.Site, len(sites)),
	}
	for _, j := range jobs {
		lk.Jobs[j.ID] = j
	}
	for _, s := range sites {
		lk.Sites[s.ID] = s
	}
	return lk
}

// SiteHours is one site's apportioned share of a day.
type SiteHours struct {
	SiteName string
	Hours    float64
}

// DailyAllocation is the processed view of one worked calendar day: the
// merged working-hours window and the day's break-adjusted total split
// across sites proportionally to raw session duration.
type DailyAllocation struct {
	Date         time.Time
	DayName      string
	WorkingStart time.Time
	WorkingEnd   time.Time
	Sites        []SiteHours
	TotalHours   float64
}

// WeekReport is the allocation result for a whole week. It is the
// semantic source of truth for both the CSV export and the webhook
// payload. Hour values are unrounded; rounding happens at the formatting
// boundary.
type WeekReport struct {
	WeekStart       time.Time
	WeekEnd         time.Time
	Days            []DailyAllocation
	SiteTotals      map[string]float64
	GrandTotalHours float64
}

// ProcessWeek groups a bucket's entries by calendar day and apportions
// each day's break-adjusted total across the sites worked that day.
//
// A day where no entry has a clock-out is skipped entirely: an open day
// cannot be reported. The break deduction is applied once per day to the
// summed raw duration, then distributed proportionally so the site hours
// sum back to the day total exactly (modulo floating point).
func ProcessWeek(bucket *WeeklyBucket, lookups Lookups) (*WeekReport, error) {
	byDay := make(map[string][]models.TimeEntry)
	var dayKeys []string
	for _, e := range bucket.Entries {
		key := e.ClockInTime.Format("2006-01-02")
		if _, ok := byDay[key]; !ok {
			dayKeys = append(dayKeys, key)
		}
		byDay[key] = append(byDay[key], e)
	}
	sort.Strings(dayKeys)

	report := &WeekReport{
		WeekStart:  bucket.WeekStart,
		WeekEnd:    bucket.WeekEnd,
		SiteTotals: make(map[string]float64),
	}

	for _, key := range dayKeys {
		entries := byDay[key]
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].ClockInTime.Before(entries[j].ClockInTime)
		})

		day, err := processDay(entries, lookups)
		if err != nil {
			return nil, err
		}
		if day == nil {
			continue
		}

		for _, sh := range day.Sites {
			report.SiteTotals[sh.SiteName] += sh.Hours
		}
		if len(day.Sites) == 0 && day.TotalHours > 0 {
			report.SiteTotals[UnassignedSite] += day.TotalHours
		}
		report.GrandTotalHours += day.TotalHours
		report.Days = append(report.Days, *day)
	}

	return report, nil
}

// processDay merges one calendar day's sessions. Returns nil when no
// entry in the day is closed.
func processDay(entries []models.TimeEntry, lookups Lookups) (*DailyAllocation, error) {
	earliestIn := entries[0].ClockInTime
	var latestOut time.Time

	var rawTotal time.Duration
	siteRaw := make(map[string]time.Duration)
	var siteOrder []string

	for i := range entries {
		e := &entries[i]
		if e.ClockOutTime == nil {
			continue
		}
		if e.ClockOutTime.After(latestOut) {
			latestOut = *e.ClockOutTime
		}

		raw, err := RawDuration(e.ClockInTime, *e.ClockOutTime)
		if err != nil {
			return nil, err
		}
		rawTotal += raw

		siteName := resolveSite(e, lookups)
		if siteName == "" {
			continue
		}
		if _, ok := siteRaw[siteName]; !ok {
			siteOrder = append(siteOrder, siteName)
		}
		siteRaw[siteName] += raw
	}

	if latestOut.IsZero() {
		return nil, nil
	}

	adjustedHours := Hours(ApplyBreak(rawTotal))

	sites := make([]SiteHours, 0, len(siteOrder))
	for _, name := range siteOrder {
		share := 0.0
		if rawTotal > 0 {
			share = (float64(siteRaw[name]) / float64(rawTotal)) * adjustedHours
		}
		sites = append(sites, SiteHours{SiteName: name, Hours: share})
	}
	// Deterministic ordering: largest share first, ties by name. This is
	// also the truncation order for the capped CSV site columns.
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].Hours != sites[j].Hours {
			return sites[i].Hours > sites[j].Hours
		}
		return sites[i].SiteName < sites[j].SiteName
	})

	date := time.Date(
		earliestIn.Year(), earliestIn.Month(), earliestIn.Day(),
		0, 0, 0, 0, earliestIn.Location(),
	)

	return &DailyAllocation{
		Date:         date,
		DayName:      date.Weekday().String(),
		WorkingStart: earliestIn,
		WorkingEnd:   latestOut,
		Sites:        sites,
		TotalHours:   adjustedHours,
	}, nil
}

// resolveSite maps an entry to a site title: via its job's parent site if
// a job is attached, else via a directly allocated site. Missing lookups
// leave the entry unattributed rather than failing the batch.
func resolveSite(e *models.TimeEntry, lookups Lookups) string {
	if e.JobID != nil {
		if job, ok := lookups.Jobs[*e.JobID]; ok {
			if site, ok := lookups.Sites[job.SiteID]; ok {
				return site.Title
			}
		}
		return ""
	}
	if e.SiteID != nil {
		if site, ok := lookups.Sites[*e.SiteID]; ok {
			return site.Title
		}
	}
	return ""
}
