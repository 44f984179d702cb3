package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"task-calendar/internal/model"
	"task-calendar/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stagePriority
	stageRepeat
	stageDueAt
	stageStart
	stageUntil
	stageInterval
	stageTimeOfDay
)

const (
	btnSkip         = "⏭️ Skip"
	btnOnce         = "Once"
	btnCancelDialog = "⏪ Cancel"
	btnHigh         = "1 High"
	btnMedium       = "2 Medium"
	btnLow          = "3 Low"
)

// draft collects the add-task dialog answers. Days stays zero for a one-off task.
type draft struct {
	title     string
	priority  model.Priority
	days      model.WeekdayMask
	dueAt     *model.DueAt
	start     model.Date
	until     *model.Date
	interval  int
	timeOfDay string
}

type conversationState struct {
	stage conversationStage
	draft draft
}

func (b *Bot) startAddConversation(chatID, userID int64) error {
	b.setConversation(userID, &conversationState{stage: stageTitle})
	return b.sendWithReplyMarkup(chatID, "🆕 New task.\n<b>Step 1:</b> what is it called?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(chatID, "The title can't be empty. What is the task called?", cancelKeyboard())
		}
		state.draft.title = text
		state.stage = stagePriority
		return b.sendWithReplyMarkup(chatID, "🎯 Priority? (default: medium)", priorityKeyboard())
	case stagePriority:
		priority, err := parsePriorityInput(text)
		if err != nil {
			return b.sendWithReplyMarkup(chatID, "Pick 1, 2 or 3.", priorityKeyboard())
		}
		state.draft.priority = priority
		state.stage = stageRepeat
		return b.sendWithReplyMarkup(chatID,
			"🔁 Repeat weekly? Send weekdays like <code>mon,wed,fri</code>, <code>weekdays</code> or <code>daily</code>, or tap «Once».",
			repeatKeyboard())
	case stageRepeat:
		if strings.EqualFold(text, btnOnce) || strings.EqualFold(text, "once") || strings.EqualFold(text, "no") {
			state.stage = stageDueAt
			return b.sendWithReplyMarkup(chatID,
				"⏰ Deadline as <code>2025-09-12</code> or <code>2025-09-12 09:00</code> (or «Skip»).", skipKeyboard())
		}
		days, err := model.ParseWeekdays(text)
		if err != nil {
			return b.sendWithReplyMarkup(chatID, fmt.Sprintf("%s. Try <code>mon,wed,fri</code> or «Once».", escape(err.Error())), repeatKeyboard())
		}
		state.draft.days = days
		state.stage = stageStart
		return b.sendWithReplyMarkup(chatID, "📆 First day as <code>2025-09-01</code> («Skip» starts today).", skipKeyboard())
	case stageDueAt:
		if !isSkipInput(text) {
			due, err := model.ParseDueAt(text)
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "Can't read that date. Use <code>2025-09-12</code> or <code>2025-09-12 09:00</code>.", skipKeyboard())
			}
			state.draft.dueAt = &due
		}
		return b.finishConversation(ctx, msg, state)
	case stageStart:
		state.draft.start = b.today()
		if !isSkipInput(text) {
			start, err := model.ParseDate(text)
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "Can't read that date. Use <code>2025-09-01</code>.", skipKeyboard())
			}
			state.draft.start = start
		}
		state.stage = stageUntil
		return b.sendWithReplyMarkup(chatID, "🏁 Last day as <code>2025-12-31</code> («Skip» repeats forever).", skipKeyboard())
	case stageUntil:
		if !isSkipInput(text) {
			until, err := model.ParseDate(text)
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "Can't read that date. Use <code>2025-12-31</code>.", skipKeyboard())
			}
			state.draft.until = &until
		}
		state.stage = stageInterval
		return b.sendWithReplyMarkup(chatID, "↔️ Every how many weeks? («Skip» means every week)", skipKeyboard())
	case stageInterval:
		state.draft.interval = 1
		if !isSkipInput(text) {
			n, err := strconv.Atoi(text)
			if err != nil || n < 1 || n > 52 {
				return b.sendWithReplyMarkup(chatID, "Send a number from 1 to 52.", skipKeyboard())
			}
			state.draft.interval = n
		}
		state.stage = stageTimeOfDay
		return b.sendWithReplyMarkup(chatID, "🕘 Time of day as <code>09:00</code> (or «Skip»).", skipKeyboard())
	case stageTimeOfDay:
		if !isSkipInput(text) {
			clock, err := model.ParseClock(text)
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "Use <code>HH:mm</code>, for example <code>09:00</code>.", skipKeyboard())
			}
			state.draft.timeOfDay = clock
		}
		return b.finishConversation(ctx, msg, state)
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(chatID, "Dialog reset. Start again with /add.")
	}
}

func (b *Bot) finishConversation(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	b.clearConversation(msg.From.ID)
	d := state.draft

	var (
		task model.Task
		err  error
	)
	if d.days != 0 {
		task, err = b.tasks.CreateRecurring(ctx, service.RecurringInput{
			Title:         d.title,
			Priority:      d.priority,
			Days:          d.days,
			Start:         d.start,
			Until:         d.until,
			IntervalWeeks: d.interval,
			TimeOfDay:     d.timeOfDay,
		})
	} else {
		task, err = b.tasks.CreateSingle(ctx, service.SingleInput{
			Title:    d.title,
			Priority: d.priority,
			DueAt:    d.dueAt,
		})
	}
	if err != nil {
		b.log.Warn("create task from dialog", zap.Error(err))
		return b.sendText(msg.Chat.ID, userMessage(err))
	}

	text := "✅ <b>Saved</b>\n\n" + formatTask(task, b.today())
	if err := b.sendText(msg.Chat.ID, text); err != nil {
		return err
	}
	if due, ok := task.DueDate(); ok {
		return b.sendDay(ctx, msg.Chat.ID, due)
	}
	if rule, ok := task.Recurring(); ok {
		return b.sendMonth(ctx, msg.Chat.ID, model.MonthOf(rule.Start))
	}
	return nil
}

// parsePriorityInput accepts the keyboard labels, bare digits and names.
// Skipping leaves the priority unset so the service applies its default.
func parsePriorityInput(text string) (model.Priority, error) {
	if isSkipInput(text) {
		return 0, nil
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(lower, "1"), lower == "high":
		return model.PriorityHigh, nil
	case strings.HasPrefix(lower, "2"), lower == "medium":
		return model.PriorityMedium, nil
	case strings.HasPrefix(lower, "3"), lower == "low":
		return model.PriorityLow, nil
	}
	return 0, fmt.Errorf("unknown priority %q", text)
}

func isSkipInput(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return text == btnSkip || lower == "skip" || lower == "-"
}

func isCancelDialogInput(text string) bool {
	return strings.TrimSpace(text) == btnCancelDialog
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)))
	kb.ResizeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func priorityKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnHigh),
			tgbotapi.NewKeyboardButton(btnMedium),
			tgbotapi.NewKeyboardButton(btnLow),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip), tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func repeatKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnOnce),
			tgbotapi.NewKeyboardButton("weekdays"),
			tgbotapi.NewKeyboardButton("daily"),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	return kb
}
