package bot

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-calendar/internal/model"
	"task-calendar/internal/service"
)

const (
	maxDots       = 3
	dotSingle     = "•"
	markRecurring = "*"
	iconRecurring = "♻️"
	iconDone      = "☑️"
	iconOpen      = "⬜"
)

// Callback data prefixes. Payloads are dates, months and task ids, which
// keeps every callback well under Telegram's 64 byte limit.
const (
	cbNoop    = "noop"
	cbMonth   = "m:"
	cbDay     = "d:"
	cbToggle  = "t:"
	cbDelete  = "x:"
	cbConfirm = "y:"
)

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// dots renders a day's single task count for a calendar cell. The count is
// capped here, not in the aggregate.
func dots(count int) string {
	if count > maxDots {
		count = maxDots
	}
	if count <= 0 {
		return ""
	}
	return strings.Repeat(dotSingle, count)
}

func dayCellLabel(day model.Date, summary service.MonthSummary, today model.Date) string {
	label := strconv.Itoa(day.Day())
	if day == today {
		label = "[" + label + "]"
	}
	label += dots(summary.Stats(day).Total())
	if summary.HasRecurring(day) {
		label += markRecurring
	}
	return label
}

func noopButton(text string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, cbNoop)
}

// monthKeyboard lays the month out Sunday first, one row per week.
func monthKeyboard(summary service.MonthSummary, today model.Date) tgbotapi.InlineKeyboardMarkup {
	month := summary.Month
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("‹", cbMonth+month.Prev().String()),
			noopButton(monthTitle(month)),
			tgbotapi.NewInlineKeyboardButtonData("›", cbMonth+month.Next().String()),
		),
	}

	header := make([]tgbotapi.InlineKeyboardButton, 0, 7)
	for _, name := range weekdayHeader {
		header = append(header, noopButton(name))
	}
	rows = append(rows, header)

	week := make([]tgbotapi.InlineKeyboardButton, 0, 7)
	for i := 0; i < int(month.First().Weekday()); i++ {
		week = append(week, noopButton(" "))
	}
	for _, day := range month.Days() {
		week = append(week, tgbotapi.NewInlineKeyboardButtonData(dayCellLabel(day, summary, today), cbDay+day.String()))
		if len(week) == 7 {
			rows = append(rows, week)
			week = make([]tgbotapi.InlineKeyboardButton, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, noopButton(" "))
		}
		rows = append(rows, week)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func monthTitle(m model.Month) string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

func monthText(summary service.MonthSummary) string {
	pending, completed := 0, 0
	for _, stats := range summary.PerDay {
		pending += stats.Pending
		completed += stats.Completed
	}
	return fmt.Sprintf(
		"🗓 <b>%s</b>\n%d open · %d done · %d days with recurring tasks\n<i>• single tasks, * recurring. Tap a day for details.</i>",
		monthTitle(summary.Month), pending, completed, len(summary.RecurringDays),
	)
}

// ddayLabel renders the distance to a deadline: D-3, D-Day, D+2.
func ddayLabel(today, due model.Date) string {
	n := model.DDay(today, due)
	switch {
	case n == 0:
		return "D-Day"
	case n > 0:
		return fmt.Sprintf("D-%d", n)
	default:
		return fmt.Sprintf("D+%d", -n)
	}
}

func priorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityLow:
		return "🟢"
	default:
		return "🟡"
	}
}

func formatTask(task model.Task, today model.Date) string {
	var sb strings.Builder
	sb.WriteString(priorityIcon(task.Priority))
	sb.WriteByte(' ')

	switch s := task.Schedule.(type) {
	case model.Recurring:
		sb.WriteString(iconRecurring)
		sb.WriteString(fmt.Sprintf(" #%d %s", task.ID, html.EscapeString(task.Title)))
		sb.WriteString(fmt.Sprintf("\n    %s", s.Days))
		if s.IntervalWeeks > 1 {
			sb.WriteString(fmt.Sprintf(", every %d weeks", s.IntervalWeeks))
		}
		if s.TimeOfDay != "" {
			sb.WriteString(" at " + s.TimeOfDay)
		}
		if s.Until != nil {
			sb.WriteString(" until " + s.Until.String())
		}
	case model.Single:
		if task.Completed {
			sb.WriteString(iconDone)
		} else {
			sb.WriteString(iconOpen)
		}
		sb.WriteString(fmt.Sprintf(" #%d %s", task.ID, html.EscapeString(task.Title)))
		if s.DueAt != nil {
			sb.WriteString("\n    " + s.DueAt.String())
			if !task.Completed {
				sb.WriteString(" · " + ddayLabel(today, s.DueAt.Date))
			}
		}
	}
	return sb.String()
}

func taskListText(heading string, tasks []model.Task, today model.Date, empty string) string {
	var sb strings.Builder
	sb.WriteString(heading)
	sb.WriteString("\n\n")
	if len(tasks) == 0 {
		sb.WriteString(empty)
		return sb.String()
	}
	for i, task := range tasks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(formatTask(task, today))
	}
	return sb.String()
}

func dayText(day model.Date, tasks []model.Task, today model.Date) string {
	heading := fmt.Sprintf("📅 <b>%s</b> (%s)", day, day.Weekday())
	return taskListText(heading, tasks, today, "Nothing planned for this day.")
}

func todayText(today model.Date, tasks []model.Task) string {
	heading := fmt.Sprintf("☀️ <b>Today, %s</b>", today)
	return taskListText(heading, tasks, today, "Nothing left for today.")
}

// dayKeyboard offers completion toggles for single tasks, deletion for all,
// and a way back to the day's month.
func dayKeyboard(day model.Date, tasks []model.Task) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tasks)+1)
	for _, task := range tasks {
		ref := taskRef(task.ID, day)
		var row []tgbotapi.InlineKeyboardButton
		if task.Kind() == model.KindSingle {
			label := fmt.Sprintf("✅ Done #%d", task.ID)
			if task.Completed {
				label = fmt.Sprintf("↩️ Reopen #%d", task.ID)
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cbToggle+ref))
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 Delete #%d", task.ID), cbDelete+ref))
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« "+monthTitle(model.MonthOf(day)), cbMonth+model.MonthOf(day).String()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func confirmDeleteKeyboard(id uint, day model.Date) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, delete", cbConfirm+taskRef(id, day)),
		tgbotapi.NewInlineKeyboardButtonData("↩️ Keep", cbDay+day.String()),
	))
}

func taskRef(id uint, day model.Date) string {
	return fmt.Sprintf("%d:%s", id, day)
}

// parseTaskRef reads the "<id>:<YYYY-MM-DD>" payload of task callbacks.
func parseTaskRef(payload string) (uint, model.Date, error) {
	idPart, dayPart, ok := strings.Cut(payload, ":")
	if !ok {
		return 0, model.Date{}, fmt.Errorf("malformed task reference %q", payload)
	}
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return 0, model.Date{}, fmt.Errorf("malformed task id %q", idPart)
	}
	day, err := model.ParseDate(dayPart)
	if err != nil {
		return 0, model.Date{}, err
	}
	return uint(id), day, nil
}
