package model

import (
	"strings"
	"time"
)

// Priority orders tasks; lower is more urgent.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// DefaultPriority is used when the caller leaves priority unset (zero).
const DefaultPriority = PriorityMedium

func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

type Kind int

const (
	KindSingle Kind = iota
	KindRecurring
)

func (k Kind) String() string {
	if k == KindRecurring {
		return "recurring"
	}
	return "single"
}

// Schedule is either Single or Recurring.
type Schedule interface {
	Kind() Kind
	validate() error
}

// Single is a one-off task with an optional deadline.
type Single struct {
	DueAt *DueAt
}

func (Single) Kind() Kind { return KindSingle }

func (s Single) validate() error {
	if s.DueAt != nil && s.DueAt.Date.IsZero() {
		return invalid("due_at", "date is required when a deadline is set")
	}
	return nil
}

// Recurring fires on the weekdays in Days between Start and Until, every
// IntervalWeeks weeks. TimeOfDay is shown to the user but never matched.
type Recurring struct {
	Days          WeekdayMask
	Start         Date
	Until         *Date
	IntervalWeeks int
	TimeOfDay     string
}

func (Recurring) Kind() Kind { return KindRecurring }

func (r Recurring) validate() error {
	if !r.Days.Valid() {
		return invalid("days", "at least one weekday is required")
	}
	if r.Start.IsZero() {
		return invalid("recur_start", "start date is required")
	}
	if r.Until != nil && r.Until.Before(r.Start) {
		return invalid("recur_until", "end date is before start date")
	}
	if r.IntervalWeeks < 1 {
		return invalid("interval_weeks", "must be at least 1")
	}
	if r.TimeOfDay != "" {
		if _, err := ParseClock(r.TimeOfDay); err != nil {
			return invalid("time_of_day", err.Error())
		}
	}
	return nil
}

// Task is the unit of work. ID and CreatedAt are assigned by the store.
type Task struct {
	ID        uint
	Title     string
	Priority  Priority
	Completed bool
	CreatedAt time.Time
	Schedule  Schedule
}

func (t Task) Kind() Kind {
	if t.Schedule == nil {
		return KindSingle
	}
	return t.Schedule.Kind()
}

func (t Task) Single() (Single, bool) {
	s, ok := t.Schedule.(Single)
	return s, ok
}

func (t Task) Recurring() (Recurring, bool) {
	r, ok := t.Schedule.(Recurring)
	return r, ok
}

// DueDate returns the deadline day of a single task, if it has one.
func (t Task) DueDate() (Date, bool) {
	s, ok := t.Single()
	if !ok || s.DueAt == nil {
		return Date{}, false
	}
	return s.DueAt.Date, true
}

// Validate checks the invariants every persisted task must hold.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if !t.Priority.Valid() {
		return invalid("priority", "must be 1 (high), 2 (medium) or 3 (low)")
	}
	if t.Schedule == nil {
		return invalid("schedule", "task must be single or recurring")
	}
	return t.Schedule.validate()
}
