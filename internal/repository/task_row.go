package repository

import (
	"fmt"
	"time"

	"task-calendar/internal/model"
)

// taskRow is the persisted form of a task: one table, with the single and
// recurring column groups left null or zero when unused.
type taskRow struct {
	ID            uint    `gorm:"primaryKey"`
	Title         string  `gorm:"not null"`
	Priority      int     `gorm:"not null;default:2"`
	DueAt         *string `gorm:"index"`
	IsRecurring   bool    `gorm:"index;not null;default:false"`
	Completed     bool    `gorm:"not null;default:false"`
	RecurDays     int     `gorm:"not null;default:0"`
	RecurStart    *string
	RecurUntil    *string
	RecurInterval int `gorm:"not null;default:1"`
	RecurTime     *string
	CreatedAt     time.Time
}

func (taskRow) TableName() string {
	return "tasks"
}

// replaceColumns are rewritten on a full replacement. id, created_at and the
// completion flag are kept.
var replaceColumns = []string{
	"title", "priority", "due_at", "is_recurring",
	"recur_days", "recur_start", "recur_until", "recur_interval", "recur_time",
}

func rowFromTask(task model.Task) taskRow {
	row := taskRow{
		ID:        task.ID,
		Title:     task.Title,
		Priority:  int(task.Priority),
		Completed: task.Completed,
		CreatedAt: task.CreatedAt,
	}

	switch s := task.Schedule.(type) {
	case model.Single:
		if s.DueAt != nil {
			row.DueAt = strPtr(s.DueAt.String())
		}
	case model.Recurring:
		row.IsRecurring = true
		row.RecurDays = int(s.Days)
		row.RecurStart = strPtr(s.Start.String())
		if s.Until != nil {
			row.RecurUntil = strPtr(s.Until.String())
		}
		row.RecurInterval = s.IntervalWeeks
		if s.TimeOfDay != "" {
			row.RecurTime = strPtr(s.TimeOfDay)
		}
	}
	return row
}

func (r taskRow) toTask() (model.Task, error) {
	task := model.Task{
		ID:        r.ID,
		Title:     r.Title,
		Priority:  model.Priority(r.Priority),
		Completed: r.Completed,
		CreatedAt: r.CreatedAt,
	}

	if r.IsRecurring {
		rec := model.Recurring{
			Days:          model.WeekdayMask(r.RecurDays),
			IntervalWeeks: r.RecurInterval,
		}
		if r.RecurStart != nil {
			start, err := model.ParseDate(*r.RecurStart)
			if err != nil {
				return model.Task{}, err
			}
			rec.Start = start
		}
		if r.RecurUntil != nil && *r.RecurUntil != "" {
			until, err := model.ParseDate(*r.RecurUntil)
			if err != nil {
				return model.Task{}, err
			}
			rec.Until = &until
		}
		if r.RecurTime != nil {
			rec.TimeOfDay = *r.RecurTime
		}
		task.Schedule = rec
	} else {
		var single model.Single
		if r.DueAt != nil && *r.DueAt != "" {
			due, err := model.ParseDueAt(*r.DueAt)
			if err != nil {
				return model.Task{}, err
			}
			single.DueAt = &due
		}
		task.Schedule = single
	}

	if err := task.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("row %d: %w", r.ID, err)
	}
	return task, nil
}

func strPtr(s string) *string {
	return &s
}
