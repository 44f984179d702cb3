package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"task-calendar/internal/model"
)

// SingleInput represents data required to create a one-off task.
type SingleInput struct {
	Title    string
	Priority model.Priority
	DueAt    *model.DueAt
}

// RecurringInput represents data required to create a weekly task.
type RecurringInput struct {
	Title         string
	Priority      model.Priority
	Days          model.WeekdayMask
	Start         model.Date
	Until         *model.Date
	IntervalWeeks int
	TimeOfDay     string
}

// TaskService owns the task lifecycle: creation, completion, replacement and deletion.
type TaskService struct {
	store TaskStore
	log   *zap.Logger
}

func NewTaskService(store TaskStore, log *zap.Logger) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{store: store, log: log.Named("tasks")}
}

func (s *TaskService) CreateSingle(ctx context.Context, input SingleInput) (model.Task, error) {
	task := model.Task{
		Title:    strings.TrimSpace(input.Title),
		Priority: priorityOrDefault(input.Priority),
		Schedule: model.Single{DueAt: input.DueAt},
	}
	return s.create(ctx, task)
}

func (s *TaskService) CreateRecurring(ctx context.Context, input RecurringInput) (model.Task, error) {
	rule, err := normalizeRecurring(model.Recurring{
		Days:          input.Days,
		Start:         input.Start,
		Until:         input.Until,
		IntervalWeeks: input.IntervalWeeks,
		TimeOfDay:     input.TimeOfDay,
	})
	if err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		Title:    strings.TrimSpace(input.Title),
		Priority: priorityOrDefault(input.Priority),
		Schedule: rule,
	}
	return s.create(ctx, task)
}

func (s *TaskService) create(ctx context.Context, task model.Task) (model.Task, error) {
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if err := s.store.Insert(ctx, &task); err != nil {
		s.log.Error("create task", zap.Error(err))
		return model.Task{}, err
	}
	s.log.Info("task created",
		zap.Uint("id", task.ID),
		zap.Stringer("kind", task.Kind()),
		zap.Stringer("priority", task.Priority),
	)
	return task, nil
}

// Replace overwrites title, priority and schedule of an existing task. The
// id, creation time and completion flag are kept.
func (s *TaskService) Replace(ctx context.Context, task model.Task) (model.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	task.Priority = priorityOrDefault(task.Priority)
	if rule, ok := task.Recurring(); ok {
		normalized, err := normalizeRecurring(rule)
		if err != nil {
			return model.Task{}, err
		}
		task.Schedule = normalized
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}

	if err := s.store.Replace(ctx, task); err != nil {
		return model.Task{}, err
	}
	s.log.Info("task replaced", zap.Uint("id", task.ID), zap.Stringer("kind", task.Kind()))
	return s.store.FindByID(ctx, task.ID)
}

// SetCompleted sets the completion flag. Setting the current value again is
// not an error. Recurring tasks keep the flag but it never hides an occurrence.
func (s *TaskService) SetCompleted(ctx context.Context, id uint, completed bool) error {
	if err := s.store.UpdateCompleted(ctx, id, completed); err != nil {
		return err
	}
	s.log.Info("task completion set", zap.Uint("id", id), zap.Bool("completed", completed))
	return nil
}

// Delete removes a task permanently. A missing id is a NotFoundError.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("task deleted", zap.Uint("id", id))
	return nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (model.Task, error) {
	return s.store.FindByID(ctx, id)
}

// ListUndated returns single tasks that have no deadline and therefore never
// show up on the calendar.
func (s *TaskService) ListUndated(ctx context.Context) ([]model.Task, error) {
	return s.store.ListUndated(ctx)
}

func priorityOrDefault(p model.Priority) model.Priority {
	if p == 0 {
		return model.DefaultPriority
	}
	return p
}

func normalizeRecurring(rule model.Recurring) (model.Recurring, error) {
	if rule.IntervalWeeks < 1 {
		rule.IntervalWeeks = 1
	}
	if rule.TimeOfDay != "" {
		clock, err := model.ParseClock(rule.TimeOfDay)
		if err != nil {
			return model.Recurring{}, &model.ValidationError{Field: "time_of_day", Reason: "expected HH:mm"}
		}
		rule.TimeOfDay = clock
	}
	return rule, nil
}
