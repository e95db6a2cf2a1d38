// Package finance holds the pure finance rules shared by the storage layer
// and the metrics engine: months, client lifecycle, payment punctuality,
// expense schedules and salary lookup.
package finance

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidMonth = errors.New("month must be YYYY-MM")
	ErrInvalidDate  = errors.New("date must be YYYY-MM-DD")

	monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// Month is a calendar month, the unit of every finance report.
type Month struct {
	Year  int
	Month time.Month
}

func ParseMonth(s string) (Month, error) {
	if !monthPattern.MatchString(s) {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}

	y, _ := strconv.Atoi(s[:4])
	m, _ := strconv.Atoi(s[5:])
	if m < 1 || m > 12 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}

	return Month{Year: y, Month: time.Month(m)}, nil
}

// MonthOrCurrent parses s, falling back to the month of now.
func MonthOrCurrent(s string, now time.Time) Month {
	if m, err := ParseMonth(s); err == nil {
		return m
	}
	return MonthOf(now)
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// MonthFromDate takes the month of a "YYYY-MM-DD", "YYYY-MM" or RFC 3339
// value.
func MonthFromDate(s string) (Month, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 7 {
		return Month{}, false
	}
	m, err := ParseMonth(s[:7])
	if err != nil {
		return Month{}, false
	}
	return m, true
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) IsZero() bool { return m.Year == 0 }

func (m Month) index() int { return m.Year*12 + int(m.Month) - 1 }

func (m Month) AddMonths(n int) Month {
	i := m.index() + n
	return Month{Year: i / 12, Month: time.Month(i%12 + 1)}
}

func (m Month) Before(o Month) bool { return m.index() < o.index() }

func (m Month) After(o Month) bool { return m.index() > o.index() }

// MonthsUntil counts months from m to o, inclusive of both ends.
func (m Month) MonthsUntil(o Month) int { return o.index() - m.index() + 1 }

// Contains reports whether date falls in the month.
func (m Month) Contains(date string) bool {
	d, ok := MonthFromDate(date)
	return ok && d == m
}

// ParseDate accepts "YYYY-MM-DD" and RFC 3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
