// Package valueobject contains domain value objects for the MyEconomy system.
package valueobject

import (
	"fmt"
	"strings"
	"time"

	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

// Month is a zero-based calendar month: January is 0 and December is 11.
// Convert with Number and MonthFromNumber at any one-based boundary
// (time.Month, stored dates, spreadsheets).
type Month int

const (
	January Month = iota
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

// Date layouts used across the API.
const (
	ISODateLayout     = "2006-01-02"
	DisplayDateLayout = "02/01/2006"
)

const (
	minYear = 1
	maxYear = 9999
)

// Full month names as rendered by the pt-BR locale.
var monthNames = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Valid reports whether m is in [0, 11].
func (m Month) Valid() bool {
	return m >= January && m <= December
}

// Number returns the one-based calendar number of the month.
func (m Month) Number() int {
	return int(m) + 1
}

// Name returns the lowercase pt-BR month name.
func (m Month) Name() string {
	if !m.Valid() {
		return ""
	}
	return monthNames[m]
}

// Title returns the capitalized pt-BR month name used by pickers.
func (m Month) Title() string {
	name := m.Name()
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// TimeMonth converts to the standard library month.
func (m Month) TimeMonth() time.Month {
	return time.Month(m.Number())
}

// MonthFromNumber converts a one-based month number (1-12) to a Month.
func MonthFromNumber(n int) (Month, error) {
	if n < 1 || n > 12 {
		return 0, domainerror.NewPeriodError(
			domainerror.ErrCodeInvalidPeriod,
			fmt.Sprintf("month number %d out of range", n),
			domainerror.ErrInvalidPeriod,
		)
	}
	return Month(n - 1), nil
}

// PeriodKey identifies a calendar month of a given year.
type PeriodKey struct {
	Month Month
	Year  int
}

// NewPeriodKey creates a PeriodKey, validating month and year ranges.
func NewPeriodKey(month Month, year int) (PeriodKey, error) {
	if !month.Valid() {
		return PeriodKey{}, domainerror.NewPeriodError(
			domainerror.ErrCodeInvalidPeriod,
			fmt.Sprintf("month %d out of range", month),
			domainerror.ErrInvalidPeriod,
		)
	}
	if year < minYear || year > maxYear {
		return PeriodKey{}, domainerror.NewPeriodError(
			domainerror.ErrCodeInvalidPeriod,
			fmt.Sprintf("year %d out of range", year),
			domainerror.ErrInvalidPeriod,
		)
	}
	return PeriodKey{Month: month, Year: year}, nil
}

// PeriodOf derives the period of a calendar date. The date's own calendar
// fields are used as-is; no time zone conversion happens.
func PeriodOf(date time.Time) PeriodKey {
	return PeriodKey{
		Month: Month(date.Month() - 1),
		Year:  date.Year(),
	}
}

// DerivePeriod parses an ISO date (YYYY-MM-DD) or an RFC 3339 timestamp and
// returns its period.
func DerivePeriod(value string) (PeriodKey, error) {
	date, err := ParseDate(value)
	if err != nil {
		return PeriodKey{}, err
	}
	return PeriodOf(date), nil
}

// ParseDate parses an ISO date or RFC 3339 timestamp into a UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, domainerror.NewPeriodError(
			domainerror.ErrCodeInvalidDate,
			"date is required",
			domainerror.ErrInvalidDate,
		)
	}

	if t, err := time.Parse(ISODateLayout, trimmed); err == nil {
		return t, nil
	}

	// Keep the calendar date of the timestamp as written
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, domainerror.NewPeriodError(
		domainerror.ErrCodeInvalidDate,
		fmt.Sprintf("malformed date %q", value),
		domainerror.ErrInvalidDate,
	)
}

// MonthName returns the lowercase pt-BR month name.
func (p PeriodKey) MonthName() string {
	return p.Month.Name()
}

// Label returns the display label "<monthName>/<year>".
func (p PeriodKey) Label() string {
	return fmt.Sprintf("%s/%d", p.MonthName(), p.Year)
}

// Date returns the normalized date of the period: day 1 of the month, UTC.
func (p PeriodKey) Date() time.Time {
	return time.Date(p.Year, p.Month.TimeMonth(), 1, 0, 0, 0, 0, time.UTC)
}

// DateString returns the normalized date as YYYY-MM-01.
func (p PeriodKey) DateString() string {
	return p.Date().Format(ISODateLayout)
}

// Bounds returns the first day of the period and the first day of the next one.
func (p PeriodKey) Bounds() (start, end time.Time) {
	start = p.Date()
	return start, start.AddDate(0, 1, 0)
}

// Contains reports whether date falls within the period.
func (p PeriodKey) Contains(date time.Time) bool {
	return PeriodOf(date) == p
}

// Before reports whether p is strictly earlier than other.
func (p PeriodKey) Before(other PeriodKey) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Equal reports whether both keys denote the same period.
func (p PeriodKey) Equal(other PeriodKey) bool {
	return p == other
}

// String returns the period as YYYY-MM with a one-based month.
func (p PeriodKey) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month.Number())
}

// FormatDisplayDate formats a date as DD/MM/YYYY.
func FormatDisplayDate(date time.Time) string {
	return date.Format(DisplayDateLayout)
}

// ParseDisplayDate parses a DD/MM/YYYY date.
func ParseDisplayDate(value string) (time.Time, error) {
	t, err := time.Parse(DisplayDateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, domainerror.NewPeriodError(
			domainerror.ErrCodeInvalidDate,
			fmt.Sprintf("malformed date %q, expected DD/MM/YYYY", value),
			domainerror.ErrInvalidDate,
		)
	}
	return t, nil
}
