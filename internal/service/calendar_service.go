package service

import (
	"context"

	"go.uber.org/zap"

	"task-calendar/internal/model"
)

// DayStats counts the single tasks due on one day.
type DayStats struct {
	Pending   int
	Completed int
}

func (d DayStats) Total() int {
	return d.Pending + d.Completed
}

// MonthSummary holds uncapped per-day counts of single tasks and the days on
// which at least one recurring task fires. Days without single tasks are
// absent from PerDay.
type MonthSummary struct {
	Month         model.Month
	PerDay        map[model.Date]DayStats
	RecurringDays map[model.Date]struct{}
}

func (m MonthSummary) Stats(day model.Date) DayStats {
	return m.PerDay[day]
}

func (m MonthSummary) HasRecurring(day model.Date) bool {
	_, ok := m.RecurringDays[day]
	return ok
}

// CalendarService builds month views. It never writes to the store.
type CalendarService struct {
	store TaskStore
	log   *zap.Logger
}

func NewCalendarService(store TaskStore, log *zap.Logger) *CalendarService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CalendarService{store: store, log: log.Named("calendar")}
}

func (s *CalendarService) Aggregate(ctx context.Context, month model.Month) (MonthSummary, error) {
	summary := MonthSummary{
		Month:         month,
		PerDay:        make(map[model.Date]DayStats),
		RecurringDays: make(map[model.Date]struct{}),
	}

	singles, err := s.store.ListByMonth(ctx, month)
	if err != nil {
		return MonthSummary{}, err
	}
	for _, task := range singles {
		due, ok := task.DueDate()
		if !ok || !month.Contains(due) {
			continue
		}
		stats := summary.PerDay[due]
		if task.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
		summary.PerDay[due] = stats
	}

	recurring, err := s.store.ListRecurring(ctx)
	if err != nil {
		return MonthSummary{}, err
	}
	var byWeekday [7][]model.Recurring
	for _, task := range recurring {
		rule, ok := task.Recurring()
		if !ok {
			continue
		}
		for _, wd := range rule.Days.Weekdays() {
			byWeekday[wd] = append(byWeekday[wd], rule)
		}
	}
	for _, day := range month.Days() {
		for _, rule := range byWeekday[day.Weekday()] {
			if rule.FiresOn(day) {
				summary.RecurringDays[day] = struct{}{}
				break
			}
		}
	}

	s.log.Debug("month aggregated",
		zap.Stringer("month", month),
		zap.Int("singles", len(singles)),
		zap.Int("recurring", len(recurring)),
		zap.Int("recurring_days", len(summary.RecurringDays)),
	)
	return summary, nil
}
