package model

import (
	"fmt"
	"strings"
	"time"
)

// WeekdayMask is a 7-bit weekday set. Bit i is time.Weekday(i), so bit 0 is
// Sunday and bit 6 is Saturday, both in storage and in matching.
type WeekdayMask uint8

const (
	AllWeekdays WeekdayMask = 1<<7 - 1
	WorkWeek    WeekdayMask = 1<<time.Monday | 1<<time.Tuesday | 1<<time.Wednesday | 1<<time.Thursday | 1<<time.Friday
	Weekend     WeekdayMask = 1<<time.Saturday | 1<<time.Sunday
)

func MaskOf(days ...time.Weekday) WeekdayMask {
	var m WeekdayMask
	for _, d := range days {
		m |= 1 << d
	}
	return m
}

func (m WeekdayMask) Has(d time.Weekday) bool {
	return m&(1<<d) != 0
}

// Valid reports whether at least one weekday is set and no bit beyond Saturday is.
func (m WeekdayMask) Valid() bool {
	return m != 0 && m&^AllWeekdays == 0
}

func (m WeekdayMask) Weekdays() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if m.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (m WeekdayMask) String() string {
	names := make([]string, 0, 7)
	for _, d := range m.Weekdays() {
		names = append(names, d.String()[:3])
	}
	return strings.Join(names, ",")
}

var weekdayAliases = map[string]WeekdayMask{
	"daily":    AllWeekdays,
	"everyday": AllWeekdays,
	"weekdays": WorkWeek,
	"weekend":  Weekend,
	"weekends": Weekend,
}

// ParseWeekdays reads a comma or space separated list of weekday names
// ("mon", "Tuesday") and aliases ("weekdays", "weekend", "daily").
func ParseWeekdays(s string) (WeekdayMask, error) {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == ' ' || r == ';' || r == '/'
	})
	var m WeekdayMask
	for _, f := range fields {
		if alias, ok := weekdayAliases[f]; ok {
			m |= alias
			continue
		}
		d, ok := lookupWeekday(f)
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", f)
		}
		m |= 1 << d
	}
	if m == 0 {
		return 0, fmt.Errorf("no weekdays in %q", s)
	}
	return m, nil
}

func lookupWeekday(name string) (time.Weekday, bool) {
	if len(name) < 2 {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if strings.HasPrefix(full, name) {
			return d, true
		}
	}
	return 0, false
}
