package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
	clockLayout = "15:04"

	secondsPerDay = 24 * 60 * 60
)

// calendar aligns weeks on Sunday, matching the weekday mask bit order.
var calendar = &now.Config{WeekStartDay: time.Sunday, TimeLocation: time.UTC}

// Date is a local calendar day. The zero value means "no date".
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day, keeping the calendar day as seen in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate reads the first 10 characters of s as YYYY-MM-DD, so stored
// values with a time suffix parse to their day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) < len(dateLayout) {
		return Date{}, fmt.Errorf("parse date %q: expected YYYY-MM-DD", s)
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) Time() time.Time { return d.t }

func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

func (d Date) Day() int { return d.t.Day() }

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) After(o Date) bool { return d.t.After(o.t) }

// DaysUntil is the signed number of days from d to o. Both are UTC
// midnights, so Unix seconds divide evenly and never overflow.
func (d Date) DaysUntil(o Date) int {
	return int((o.t.Unix() - d.t.Unix()) / secondsPerDay)
}

// WeekStart returns the Sunday that opens d's week.
func (d Date) WeekStart() Date {
	return DateOf(calendar.With(d.t).BeginningOfWeek())
}

// DDay is the signed day count from today to due: positive while the
// deadline is ahead, zero on the day, negative once it has passed.
func DDay(today, due Date) int {
	return today.DaysUntil(due)
}

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(d Date) Month {
	return Month{Year: d.t.Year(), Month: d.t.Month()}
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// String renders YYYY-MM, which is also the due date prefix of every day in the month.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) First() Date { return NewDate(m.Year, m.Month, 1) }

func (m Month) Last() Date {
	return DateOf(calendar.With(m.First().t).EndOfMonth())
}

func (m Month) Days() []Date {
	first, last := m.First(), m.Last()
	days := make([]Date, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (m Month) Contains(d Date) bool {
	return d.t.Year() == m.Year && d.t.Month() == m.Month
}

func (m Month) Next() Month { return MonthOf(DateOf(m.First().t.AddDate(0, 1, 0))) }

func (m Month) Prev() Month { return MonthOf(DateOf(m.First().t.AddDate(0, -1, 0))) }

// DueAt is a single task's deadline: a day with an optional HH:mm.
type DueAt struct {
	Date  Date
	Clock string
}

// ParseDueAt accepts "YYYY-MM-DD", "YYYY-MM-DD HH:mm" and "YYYY-MM-DDTHH:mm".
func ParseDueAt(s string) (DueAt, error) {
	s = strings.TrimSpace(s)
	date, err := ParseDate(s)
	if err != nil {
		return DueAt{}, err
	}
	rest := strings.TrimSpace(strings.TrimPrefix(s[len(dateLayout):], "T"))
	if rest == "" {
		return DueAt{Date: date}, nil
	}
	clock, err := ParseClock(rest)
	if err != nil {
		return DueAt{}, err
	}
	return DueAt{Date: date, Clock: clock}, nil
}

// String is the stored form; its first 10 characters are always the day.
func (d DueAt) String() string {
	if d.Clock == "" {
		return d.Date.String()
	}
	return d.Date.String() + " " + d.Clock
}

// ParseClock validates an HH:mm time of day and returns it zero padded.
func ParseClock(s string) (string, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("parse time %q: expected HH:mm", s)
	}
	return t.Format(clockLayout), nil
}
