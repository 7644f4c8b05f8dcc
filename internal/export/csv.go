package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/crewclock/crewclock/internal/timesheet"
)

// csvHeader is the fixed body-table header of a weekly timesheet CSV.
var csvHeader = []string{
	"Week", "Day", "Date", "Working Hours",
	"Site 1 Job No", "Hours Less Break",
	"Site 2 Job No", "Hours Less Break",
	"Site 3 Job No", "Hours Less Break",
	"Total Hours",
}

// Filename builds the export file name for a week:
// Timesheet-<name with spaces underscored>-<weekStartISO>_to_<weekEndISO>.csv
func Filename(employeeName string, weekStart, weekEnd time.Time) string {
	name := strings.ReplaceAll(employeeName, " ", "_")
	return fmt.Sprintf("Timesheet-%s-%s_to_%s.csv",
		name, weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02"))
}

// RenderCSV renders a week report as a timesheet document. The body table
// has one row per calendar day from week start to week end inclusive;
// days with no reportable work keep their row with blank hour columns.
// Each day carries up to MaxSitesPerDayExport site/hours column pairs in
// the processor's deterministic order. A summary section lists each site
// alphabetically with its week total, then the grand total.
func RenderCSV(employeeName string, report *timesheet.WeekReport) string {
	dayByDate := make(map[string]timesheet.DailyAllocation, len(report.Days))
	for _, day := range report.Days {
		dayByDate[day.Date.Format("2006-01-02")] = day
	}

	var rows []string
	rows = append(rows, joinRow([]string{fmt.Sprintf("Timesheet for %s", employeeName)}))
	rows = append(rows, "")
	rows = append(rows, joinRow(csvHeader))
	rows = append(rows, joinRow([]string{"Week 1"}))

	for d := report.WeekStart; !d.After(report.WeekEnd); d = d.AddDate(0, 0, 1) {
		dayName := d.Weekday().String()
		dateGB := d.Format("02/01/2006")

		row := []string{"", dayName, dateGB}
		if day, ok := dayByDate[d.Format("2006-01-02")]; ok {
			workingHours := fmt.Sprintf("%s till %s",
				day.WorkingStart.Format("15:04"), day.WorkingEnd.Format("15:04"))
			row = append(row, workingHours)
			for i := 0; i < timesheet.MaxSitesPerDayExport; i++ {
				if i < len(day.Sites) {
					row = append(row, day.Sites[i].SiteName, formatHours(day.Sites[i].Hours))
				} else {
					row = append(row, "", "")
				}
			}
			row = append(row, formatHours(day.TotalHours))
		} else {
			row = append(row, "", "", "", "", "", "", "", "")
		}
		rows = append(rows, joinRow(row))
	}

	rows = append(rows, "", "", "")
	for _, siteName := range SortedSiteNames(report.SiteTotals) {
		row := []string{"", siteName, "", "", "", "", "", "", "", formatHours(report.SiteTotals[siteName])}
		rows = append(rows, joinRow(row))
	}
	rows = append(rows, "", "")
	rows = append(rows, joinRow([]string{"", "", "", "", "", "", "", "", "Total Hours", formatHours(report.GrandTotalHours)}))

	return strings.Join(rows, "\n")
}

func formatHours(hours float64) string {
	return fmt.Sprintf("%.2f", timesheet.Round2(hours))
}

func joinRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, cell := range cells {
		escaped[i] = escapeCell(cell)
	}
	return strings.Join(escaped, ",")
}

// escapeCell quotes a field containing a comma, quote, or newline,
// doubling any internal quotes.
func escapeCell(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
