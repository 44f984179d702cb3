package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-calendar/internal/model"
)

func TestWeekdayMask_BitOrderStartsOnSunday(t *testing.T) {
	assert.Equal(t, model.WeekdayMask(1), model.MaskOf(time.Sunday))
	assert.Equal(t, model.WeekdayMask(1<<6), model.MaskOf(time.Saturday))
	assert.Equal(t, model.WeekdayMask(0b0101010), model.MaskOf(time.Monday, time.Wednesday, time.Friday))
}

func TestWeekdayMask_Has(t *testing.T) {
	m := model.MaskOf(time.Monday, time.Friday)

	assert.True(t, m.Has(time.Monday))
	assert.True(t, m.Has(time.Friday))
	assert.False(t, m.Has(time.Sunday))
	assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, m.Weekdays())
	assert.Equal(t, "Mon,Fri", m.String())
}

func TestWeekdayMask_Valid(t *testing.T) {
	assert.False(t, model.WeekdayMask(0).Valid())
	assert.False(t, model.WeekdayMask(1<<7).Valid())
	assert.True(t, model.AllWeekdays.Valid())
	assert.True(t, model.MaskOf(time.Tuesday).Valid())
}

func TestParseWeekdays(t *testing.T) {
	cases := map[string]model.WeekdayMask{
		"mon,wed,fri":        model.MaskOf(time.Monday, time.Wednesday, time.Friday),
		"Monday Wednesday":   model.MaskOf(time.Monday, time.Wednesday),
		"tu; th":             model.MaskOf(time.Tuesday, time.Thursday),
		"weekdays":           model.WorkWeek,
		"weekend":            model.Weekend,
		"daily":              model.AllWeekdays,
		"sun,sat":            model.Weekend,
		"weekdays, saturday": model.WorkWeek | model.MaskOf(time.Saturday),
	}
	for input, want := range cases {
		got, err := model.ParseWeekdays(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseWeekdays_Invalid(t *testing.T) {
	for _, input := range []string{"", " , ", "funday", "t", "mon,xyz"} {
		_, err := model.ParseWeekdays(input)
		assert.Error(t, err, input)
	}
}
