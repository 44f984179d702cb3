package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-calendar/internal/model"
	"task-calendar/internal/service"
)

func date(y int, m time.Month, d int) model.Date {
	return model.NewDate(y, m, d)
}

func septemberSummary() service.MonthSummary {
	return service.MonthSummary{
		Month: model.Month{Year: 2025, Month: time.September},
		PerDay: map[model.Date]service.DayStats{
			date(2025, time.September, 12): {Pending: 4, Completed: 1},
			date(2025, time.September, 3):  {Completed: 1},
		},
		RecurringDays: map[model.Date]struct{}{
			date(2025, time.September, 12): {},
			date(2025, time.September, 15): {},
		},
	}
}

func TestDots(t *testing.T) {
	assert.Equal(t, "", dots(0))
	assert.Equal(t, "•", dots(1))
	assert.Equal(t, "•••", dots(3))
	assert.Equal(t, "•••", dots(17))
	assert.Equal(t, "", dots(-1))
}

func TestDayCellLabel(t *testing.T) {
	summary := septemberSummary()
	today := date(2025, time.September, 3)

	assert.Equal(t, "12•••*", dayCellLabel(date(2025, time.September, 12), summary, today))
	assert.Equal(t, "[3]•", dayCellLabel(date(2025, time.September, 3), summary, today))
	assert.Equal(t, "15*", dayCellLabel(date(2025, time.September, 15), summary, today))
	assert.Equal(t, "20", dayCellLabel(date(2025, time.September, 20), summary, today))
}

func TestMonthKeyboard(t *testing.T) {
	kb := monthKeyboard(septemberSummary(), date(2025, time.October, 1))

	// nav, weekday header and five weeks
	require.Len(t, kb.InlineKeyboard, 7)
	for _, row := range kb.InlineKeyboard[1:] {
		assert.Len(t, row, 7)
	}

	nav := kb.InlineKeyboard[0]
	assert.Equal(t, "m:2025-08", *nav[0].CallbackData)
	assert.Equal(t, "September 2025", nav[1].Text)
	assert.Equal(t, "m:2025-10", *nav[2].CallbackData)

	// September 2025 starts on a Monday, so Sunday is padding.
	firstWeek := kb.InlineKeyboard[2]
	assert.Equal(t, cbNoop, *firstWeek[0].CallbackData)
	assert.Equal(t, "1", firstWeek[1].Text)
	assert.Equal(t, "d:2025-09-01", *firstWeek[1].CallbackData)

	secondWeek := kb.InlineKeyboard[3]
	assert.Equal(t, "12•••*", secondWeek[5].Text)
	assert.Equal(t, "d:2025-09-12", *secondWeek[5].CallbackData)

	lastWeek := kb.InlineKeyboard[6]
	assert.Equal(t, "30", lastWeek[2].Text)
	assert.Equal(t, cbNoop, *lastWeek[3].CallbackData)
}

func TestMonthText(t *testing.T) {
	text := monthText(septemberSummary())
	assert.Contains(t, text, "September 2025")
	assert.Contains(t, text, "4 open · 2 done · 2 days")
}

func TestDDayLabel(t *testing.T) {
	today := date(2025, time.September, 10)
	assert.Equal(t, "D-Day", ddayLabel(today, today))
	assert.Equal(t, "D-2", ddayLabel(today, date(2025, time.September, 12)))
	assert.Equal(t, "D+10", ddayLabel(today, date(2025, time.August, 31)))
}

func TestFormatTask(t *testing.T) {
	today := date(2025, time.September, 10)
	due := model.DueAt{Date: date(2025, time.September, 12), Clock: "09:00"}

	single := model.Task{ID: 3, Title: "Fix <b>tags</b> & stuff", Priority: model.PriorityHigh, Schedule: model.Single{DueAt: &due}}
	text := formatTask(single, today)
	assert.Contains(t, text, "#3 Fix &lt;b&gt;tags&lt;/b&gt; &amp; stuff")
	assert.Contains(t, text, "2025-09-12 09:00 · D-2")
	assert.True(t, strings.HasPrefix(text, "🔴 "+iconOpen))

	single.Completed = true
	text = formatTask(single, today)
	assert.Contains(t, text, iconDone)
	assert.NotContains(t, text, "D-2")

	until := date(2025, time.December, 31)
	recurring := model.Task{ID: 4, Title: "Review", Priority: model.PriorityLow, Schedule: model.Recurring{
		Days:          model.MaskOf(time.Monday, time.Thursday),
		Start:         date(2025, time.September, 1),
		Until:         &until,
		IntervalWeeks: 2,
		TimeOfDay:     "18:30",
	}}
	text = formatTask(recurring, today)
	assert.Contains(t, text, iconRecurring)
	assert.Contains(t, text, "Mon,Thu, every 2 weeks at 18:30 until 2025-12-31")
}

func TestDayKeyboard(t *testing.T) {
	day := date(2025, time.September, 12)
	tasks := []model.Task{
		{ID: 1, Title: "Report", Priority: model.PriorityHigh, Schedule: model.Single{}},
		{ID: 2, Title: "Gym", Priority: model.PriorityMedium, Schedule: model.Recurring{Days: model.AllWeekdays, Start: day, IntervalWeeks: 1}},
	}

	kb := dayKeyboard(day, tasks)
	require.Len(t, kb.InlineKeyboard, 3)

	require.Len(t, kb.InlineKeyboard[0], 2)
	assert.Equal(t, "t:1:2025-09-12", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "x:1:2025-09-12", *kb.InlineKeyboard[0][1].CallbackData)

	require.Len(t, kb.InlineKeyboard[1], 1, "recurring tasks have no completion toggle")
	assert.Equal(t, "x:2:2025-09-12", *kb.InlineKeyboard[1][0].CallbackData)

	assert.Equal(t, "m:2025-09", *kb.InlineKeyboard[2][0].CallbackData)
}

func TestParseTaskRef(t *testing.T) {
	id, day, err := parseTaskRef(taskRef(42, date(2025, time.September, 12)))
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, date(2025, time.September, 12), day)

	for _, bad := range []string{"", "42", "x:2025-09-12", "0:2025-09-12", "42:yesterday"} {
		_, _, err := parseTaskRef(bad)
		assert.Error(t, err, bad)
	}
}
