package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-calendar/internal/model"
)

func validRecurring() model.Recurring {
	return model.Recurring{
		Days:          model.MaskOf(time.Monday),
		Start:         date(2025, time.September, 1),
		IntervalWeeks: 1,
	}
}

func TestTask_Validate(t *testing.T) {
	due := model.DueAt{Date: date(2025, time.September, 12)}
	before := date(2025, time.August, 1)

	cases := []struct {
		name  string
		task  model.Task
		field string
	}{
		{"empty title", model.Task{Title: "  ", Priority: 2, Schedule: model.Single{}}, "title"},
		{"priority zero", model.Task{Title: "a", Priority: 0, Schedule: model.Single{}}, "priority"},
		{"priority four", model.Task{Title: "a", Priority: 4, Schedule: model.Single{}}, "priority"},
		{"no schedule", model.Task{Title: "a", Priority: 1}, "schedule"},
		{"due without date", model.Task{Title: "a", Priority: 1, Schedule: model.Single{DueAt: &model.DueAt{Clock: "09:00"}}}, "due_at"},
		{"empty mask", model.Task{Title: "a", Priority: 1, Schedule: model.Recurring{Start: due.Date, IntervalWeeks: 1}}, "days"},
		{"no start", model.Task{Title: "a", Priority: 1, Schedule: model.Recurring{Days: model.AllWeekdays, IntervalWeeks: 1}}, "recur_start"},
		{"until before start", model.Task{Title: "a", Priority: 1, Schedule: func() model.Recurring {
			r := validRecurring()
			r.Until = &before
			return r
		}()}, "recur_until"},
		{"zero interval", model.Task{Title: "a", Priority: 1, Schedule: func() model.Recurring {
			r := validRecurring()
			r.IntervalWeeks = 0
			return r
		}()}, "interval_weeks"},
		{"bad time", model.Task{Title: "a", Priority: 1, Schedule: func() model.Recurring {
			r := validRecurring()
			r.TimeOfDay = "late"
			return r
		}()}, "time_of_day"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate()
			require.Error(t, err)
			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
			assert.True(t, model.IsValidation(err))
		})
	}
}

func TestTask_ValidateAcceptsBothKinds(t *testing.T) {
	due := model.DueAt{Date: date(2025, time.September, 12), Clock: "09:00"}

	single := model.Task{Title: "Report", Priority: model.PriorityHigh, Schedule: model.Single{DueAt: &due}}
	require.NoError(t, single.Validate())
	assert.Equal(t, model.KindSingle, single.Kind())
	day, ok := single.DueDate()
	assert.True(t, ok)
	assert.Equal(t, due.Date, day)

	undated := model.Task{Title: "Someday", Priority: model.PriorityLow, Schedule: model.Single{}}
	require.NoError(t, undated.Validate())
	_, ok = undated.DueDate()
	assert.False(t, ok)

	until := date(2025, time.September, 1)
	rule := validRecurring()
	rule.Until = &until
	rule.TimeOfDay = "07:30"
	recurring := model.Task{Title: "Gym", Priority: model.PriorityMedium, Schedule: rule}
	require.NoError(t, recurring.Validate())
	assert.Equal(t, model.KindRecurring, recurring.Kind())
	_, ok = recurring.DueDate()
	assert.False(t, ok)
	_, ok = recurring.Single()
	assert.False(t, ok)
}

func TestErrorKinds(t *testing.T) {
	notFound := error(&model.NotFoundError{ID: 999})
	assert.True(t, errors.Is(notFound, model.ErrNotFound))
	assert.Equal(t, "task 999 not found", notFound.Error())

	cause := errors.New("disk I/O error")
	storeErr := error(&model.StoreError{Op: "create task", Err: cause})
	assert.True(t, errors.Is(storeErr, cause))
	assert.True(t, model.IsStore(storeErr))
	assert.False(t, model.IsValidation(storeErr))
}

func TestPriority(t *testing.T) {
	assert.Equal(t, model.PriorityMedium, model.DefaultPriority)
	assert.Equal(t, "high", model.PriorityHigh.String())
	assert.Equal(t, "low", model.PriorityLow.String())
	assert.False(t, model.Priority(0).Valid())
	assert.True(t, model.PriorityLow.Valid())
}
