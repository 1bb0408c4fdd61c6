// Package dates normalizes the date strings found in spreadsheet exports and
// derives the reporting metadata (month name, week, year) from them.
//
// ISO-like values win because they are unambiguous. Slash-separated values are
// always day/month/year: the exports come from Brazilian Portuguese locales and
// month/day/year is never assumed.
package dates

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

//nolint:gochecknoglobals // Compiled once
var isoPrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)

//nolint:gochecknoglobals // Portuguese month names, lowercase as pt-BR renders them
var monthNames = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Normalize parses candidate into a calendar date at 00:00 UTC.
// ok is false when no supported representation matches.
func Normalize(candidate string) (date time.Time, ok bool) {
	clean := strings.TrimSpace(candidate)
	if clean == "" {
		return date, ok
	}

	if m := isoPrefix.FindStringSubmatch(clean); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		date, ok = civil(year, month, day)
		return date, ok
	}

	if strings.Contains(clean, "/") {
		datePart := strings.Fields(clean)[0]
		parts := strings.Split(datePart, "/")
		if len(parts) != 3 {
			return date, ok
		}

		day, dayErr := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, monthErr := strconv.Atoi(strings.TrimSpace(parts[1]))
		year, yearErr := strconv.Atoi(strings.TrimSpace(parts[2]))
		if dayErr != nil || monthErr != nil || yearErr != nil {
			return date, ok
		}

		if year <= 1900 || month < 1 || month > 12 || day < 1 || day > 31 {
			return date, ok
		}

		date, ok = civil(year, month, day)
		return date, ok
	}

	return date, ok
}

// civil builds the date and rejects values time.Date would silently roll over (31/02, month 13).
func civil(year, month, day int) (date time.Time, ok bool) {
	if month < 1 || month > 12 || day < 1 {
		return date, ok
	}

	date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		date = time.Time{}
		return date, ok
	}

	ok = true
	return date, ok
}

// FromTime truncates an instant to its calendar date in the instant's own location.
func FromTime(t time.Time) (date time.Time) {
	date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return date
}

// MonthName returns the lowercase Portuguese month name for date.
func MonthName(date time.Time) (name string) {
	name = monthNames[date.Month()-1]
	return name
}

// Week returns the Jan-1 anchored week number:
// ceil((daysSinceJan1 + weekdayOfJan1 + 1) / 7), weekday 0=Sunday.
func Week(date time.Time) (week int) {
	jan1 := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	daysSince := date.YearDay() - 1
	week = int(math.Ceil(float64(daysSince+int(jan1.Weekday())+1) / 7))
	return week
}

// AddDays returns the calendar date n days after now.
func AddDays(now time.Time, n int) (date time.Time) {
	date = FromTime(now).AddDate(0, 0, n)
	return date
}

// SameMonth reports whether date falls in the calendar month and year of now.
func SameMonth(date, now time.Time) (same bool) {
	same = date.Year() == now.Year() && date.Month() == now.Month()
	return same
}
