package ledger

import (
	"fmt"
	"time"

	"kopikeliling/internal/core/apperror"
)

const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

var (
	monthNames = [...]string{
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	}
	monthShort = [...]string{
		"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
		"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
	}
)

// DayKey truncates t to YYYY-MM-DD in its own location.
func DayKey(t time.Time) string { return t.Format(DayLayout) }

// MonthKey truncates t to YYYY-MM in its own location.
func MonthKey(t time.Time) string { return t.Format(MonthLayout) }

// ParseMonth validates a YYYY-MM key.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, apperror.NewValidation("month must be YYYY-MM").WithDetail("month", month)
	}
	return t, nil
}

// ParseDay validates a YYYY-MM-DD key.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return time.Time{}, apperror.NewValidation("date must be YYYY-MM-DD").WithDetail("date", day)
	}
	return t, nil
}

// AtDay places the clock time of clock onto the calendar day, in clock's location.
func AtDay(day string, clock time.Time) (time.Time, error) {
	d, err := ParseDay(day)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), clock.Location()), nil
}

// DaysInMonth lists every calendar day of month as YYYY-MM-DD, ascending.
func DaysInMonth(month string) ([]string, error) {
	start, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}
	end := start.AddDate(0, 1, 0)
	days := make([]string, 0, 31)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DayLayout))
	}
	return days, nil
}

// MonthLabel renders "2026-10" as "Oktober 2026". Invalid keys are returned unchanged.
func MonthLabel(month string) string {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return month
	}
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// ShortDayLabel renders "2026-10-05" as "05 Okt". Invalid keys are returned unchanged.
func ShortDayLabel(day string) string {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return day
	}
	return fmt.Sprintf("%02d %s", t.Day(), monthShort[t.Month()-1])
}
