package export

import (
	"sort"

	"github.com/crewclock/crewclock/internal/models"
	"github.com/crewclock/crewclock/internal/timesheet"
)

// Payload is the webhook submission document. The CSV export is a textual
// projection of the same values; the two must agree numerically.
type Payload struct {
	Employee       EmployeeInfo       `json:"employee"`
	Week           WeekRange          `json:"week"`
	TotalHours     float64            `json:"totalHours"`
	DailyBreakdown []DayBreakdown     `json:"dailyBreakdown"`
	SiteTotals     map[string]float64 `json:"siteTotals"`
}

type EmployeeInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WeekRange carries the week bounds as ISO dates (YYYY-MM-DD).
type WeekRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DayBreakdown struct {
	Date       string     `json:"date"`
	DayName    string     `json:"dayName"`
	Work       []SiteWork `json:"work"`
	TotalHours float64    `json:"totalHours"`
}

type SiteWork struct {
	SiteName string  `json:"siteName"`
	Hours    float64 `json:"hours"`
}

// BuildPayload renders a week report for webhook submission. Hour values
// are rounded to two decimals here, at the presentation boundary. Days
// with no closed entries are already absent from the report and therefore
// never appear in the breakdown.
func BuildPayload(employee *models.User, report *timesheet.WeekReport) Payload {
	days := make([]DayBreakdown, 0, len(report.Days))
	for _, day := range report.Days {
		work := make([]SiteWork, 0, len(day.Sites))
		for _, sh := range day.Sites {
			work = append(work, SiteWork{
				SiteName: sh.SiteName,
				Hours:    timesheet.Round2(sh.Hours),
			})
		}
		days = append(days, DayBreakdown{
			Date:       day.Date.Format("02/01/2006"),
			DayName:    day.DayName,
			Work:       work,
			TotalHours: timesheet.Round2(day.TotalHours),
		})
	}

	siteTotals := make(map[string]float64, len(report.SiteTotals))
	for name, hours := range report.SiteTotals {
		siteTotals[name] = timesheet.Round2(hours)
	}

	return Payload{
		Employee: EmployeeInfo{ID: employee.ID, Name: employee.Name},
		Week: WeekRange{
			Start: report.WeekStart.Format("2006-01-02"),
			End:   report.WeekEnd.Format("2006-01-02"),
		},
		TotalHours:     timesheet.Round2(report.GrandTotalHours),
		DailyBreakdown: days,
		SiteTotals:     siteTotals,
	}
}

// SortedSiteNames returns a report's site names in alphabetical order,
// the order the CSV summary section lists them in.
func SortedSiteNames(siteTotals map[string]float64) []string {
	names := make([]string, 0, len(siteTotals))
	for name := range siteTotals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
