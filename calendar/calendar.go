// Package calendar builds the month view and countdown shown around the
// wedding date.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Week holds seven day numbers, Sunday first. Zero marks a blank cell.
type Week [7]int

// Month is the calendar of the month containing the wedding.
type Month struct {
	Year    int
	Month   time.Month
	Weeks   []Week
	Wedding int
}

// NewMonth lays out the month that contains date.
func NewMonth(date time.Time) Month {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	days := first.AddDate(0, 1, -1).Day()

	m := Month{Year: date.Year(), Month: date.Month(), Wedding: date.Day()}
	var w Week
	col := int(first.Weekday())
	for day := 1; day <= days; day++ {
		w[col] = day
		col++
		if col == 7 {
			m.Weeks = append(m.Weeks, w)
			w = Week{}
			col = 0
		}
	}
	if col > 0 {
		m.Weeks = append(m.Weeks, w)
	}
	return m
}

// Heading formats the wedding date the way the invitation shows it, e.g.
// "2025.05.31 SAT".
func Heading(date time.Time) string {
	return fmt.Sprintf("%04d.%02d.%02d %s", date.Year(), int(date.Month()), date.Day(),
		strings.ToUpper(date.Weekday().String()[:3]))
}

// DaysUntil counts calendar days from now to the wedding in the wedding's
// time zone. It is negative once the day has passed.
func DaysUntil(now, wedding time.Time) int {
	loc := wedding.Location()
	n := now.In(loc)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	day := time.Date(wedding.Year(), wedding.Month(), wedding.Day(), 0, 0, 0, 0, loc)
	return int(day.Sub(today).Round(time.Hour).Hours() / 24)
}

// DDay renders the countdown label: "D-12", "D-Day" or "D+3".
func DDay(now, wedding time.Time) string {
	switch d := DaysUntil(now, wedding); {
	case d > 0:
		return fmt.Sprintf("D-%d", d)
	case d == 0:
		return "D-Day"
	default:
		return fmt.Sprintf("D+%d", -d)
	}
}
