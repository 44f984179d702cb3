package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"task-calendar/internal/model"
	"task-calendar/internal/service"
)

// panelRef points at the last today panel message so it can be edited in place.
type panelRef struct {
	chatID    int64
	messageID int
}

// Bot is the chat front end for a single owner. It only talks to the
// services; all calendar logic lives behind them.
type Bot struct {
	api      *tgbotapi.BotAPI
	ownerID  int64
	tasks    *service.TaskService
	calendar *service.CalendarService
	agenda   *service.AgendaService
	log      *zap.Logger
	today    func() model.Date

	mu            sync.Mutex
	conversations map[int64]*conversationState
	panel         *panelRef
}

func New(token string, ownerID int64, tasks *service.TaskService, calendar *service.CalendarService, agenda *service.AgendaService, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log = log.Named("bot")
	log.Info("bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:           api,
		ownerID:       ownerID,
		tasks:         tasks,
		calendar:      calendar,
		agenda:        agenda,
		log:           log,
		today:         model.Today,
		conversations: make(map[int64]*conversationState),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		log := b.log.With(zap.String("request_id", uuid.NewString()), zap.Int("update_id", update.UpdateID))
		switch {
		case update.CallbackQuery != nil:
			if !b.isOwner(update.CallbackQuery.From) {
				continue
			}
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Error("handle callback", zap.String("data", update.CallbackQuery.Data), zap.Error(err))
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() || !b.isOwner(update.Message.From) {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Error("handle message", zap.Error(err))
			}
		}
	}

	return ctx.Err()
}

func (b *Bot) isOwner(user *tgbotapi.User) bool {
	return user != nil && user.ID == b.ownerID
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Cancelled.")
	}

	if msg.IsCommand() {
		b.log.Debug("command", zap.String("command", msg.Command()), zap.String("args", msg.CommandArguments()))
		return b.handleCommand(ctx, msg)
	}

	if state := b.getConversation(msg.From.ID); state != nil {
		return b.handleConversation(ctx, msg, state)
	}

	return b.sendText(msg.Chat.ID, "Not sure what you mean. Try /add to create a task or /help for the commands.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		return b.sendText(chatID, helpText)
	case "add", "newtask":
		return b.startAddConversation(chatID, msg.From.ID)
	case "cancel":
		b.clearConversation(msg.From.ID)
		return b.sendText(chatID, "⏪ Cancelled.")
	case "today":
		return b.sendTodayPanel(ctx, chatID)
	case "month":
		month := model.MonthOf(b.today())
		if args != "" {
			parsed, err := model.ParseMonth(args)
			if err != nil {
				return b.sendText(chatID, "Use /month 2025-09.")
			}
			month = parsed
		}
		return b.sendMonth(ctx, chatID, month)
	case "day":
		day, err := model.ParseDate(args)
		if err != nil {
			return b.sendText(chatID, "Use /day 2025-09-12.")
		}
		return b.sendDay(ctx, chatID, day)
	case "inbox":
		return b.sendInbox(ctx, chatID)
	case "done", "undo":
		id, err := parseID(args)
		if err != nil {
			return b.sendText(chatID, fmt.Sprintf("Give the task id: /%s 12", msg.Command()))
		}
		if err := b.tasks.SetCompleted(ctx, id, msg.Command() == "done"); err != nil {
			return b.sendText(chatID, userMessage(err))
		}
		return b.sendText(chatID, fmt.Sprintf("Task #%d updated.", id))
	case "rename", "priority":
		return b.editTaskField(ctx, chatID, msg.Command(), args)
	case "delete":
		id, err := parseID(args)
		if err != nil {
			return b.sendText(chatID, "Give the task id: /delete 12")
		}
		task, err := b.tasks.Get(ctx, id)
		if err != nil {
			return b.sendText(chatID, userMessage(err))
		}
		day := b.today()
		if due, ok := task.DueDate(); ok {
			day = due
		}
		text := fmt.Sprintf("Delete «%s» for good?", escape(task.Title))
		return b.sendWithReplyMarkup(chatID, text, confirmDeleteKeyboard(id, day))
	default:
		return b.sendText(chatID, "Unknown command. See /help.")
	}
}

// editTaskField handles "/rename <id> <title>" and "/priority <id> <1-3>".
func (b *Bot) editTaskField(ctx context.Context, chatID int64, command, args string) error {
	idArg, value, _ := strings.Cut(args, " ")
	value = strings.TrimSpace(value)
	id, err := parseID(idArg)
	if err != nil || value == "" {
		if command == "rename" {
			return b.sendText(chatID, "Use /rename 12 New title.")
		}
		return b.sendText(chatID, "Use /priority 12 high.")
	}

	task, err := b.tasks.Get(ctx, id)
	if err != nil {
		return b.sendText(chatID, userMessage(err))
	}
	if command == "rename" {
		task.Title = value
	} else {
		priority, err := parsePriorityInput(value)
		if err != nil || priority == 0 {
			return b.sendText(chatID, "Pick 1 (high), 2 (medium) or 3 (low).")
		}
		task.Priority = priority
	}

	updated, err := b.tasks.Replace(ctx, task)
	if err != nil {
		return b.sendText(chatID, userMessage(err))
	}
	return b.sendText(chatID, "✏️ <b>Updated</b>\n\n"+formatTask(updated, b.today()))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("answer callback", zap.Error(err))
	}
	if cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	chatID, messageID := cb.Message.Chat.ID, cb.Message.MessageID
	data := cb.Data

	switch {
	case data == cbNoop:
		return nil
	case strings.HasPrefix(data, cbMonth):
		month, err := model.ParseMonth(strings.TrimPrefix(data, cbMonth))
		if err != nil {
			return err
		}
		return b.editMonth(ctx, chatID, messageID, month)
	case strings.HasPrefix(data, cbDay):
		day, err := model.ParseDate(strings.TrimPrefix(data, cbDay))
		if err != nil {
			return err
		}
		return b.editDay(ctx, chatID, messageID, day)
	case strings.HasPrefix(data, cbToggle):
		id, day, err := parseTaskRef(strings.TrimPrefix(data, cbToggle))
		if err != nil {
			return err
		}
		task, err := b.tasks.Get(ctx, id)
		if err == nil {
			err = b.tasks.SetCompleted(ctx, id, !task.Completed)
		}
		if err != nil {
			return b.sendText(chatID, userMessage(err))
		}
		return b.editDay(ctx, chatID, messageID, day)
	case strings.HasPrefix(data, cbDelete):
		id, day, err := parseTaskRef(strings.TrimPrefix(data, cbDelete))
		if err != nil {
			return err
		}
		task, err := b.tasks.Get(ctx, id)
		if err != nil {
			return b.sendText(chatID, userMessage(err))
		}
		text := fmt.Sprintf("Delete «%s» for good?", escape(task.Title))
		return b.edit(chatID, messageID, text, confirmDeleteKeyboard(id, day))
	case strings.HasPrefix(data, cbConfirm):
		id, day, err := parseTaskRef(strings.TrimPrefix(data, cbConfirm))
		if err != nil {
			return err
		}
		if err := b.tasks.Delete(ctx, id); err != nil {
			return b.sendText(chatID, userMessage(err))
		}
		return b.editDay(ctx, chatID, messageID, day)
	default:
		return fmt.Errorf("unknown callback %q", data)
	}
}

func (b *Bot) sendMonth(ctx context.Context, chatID int64, month model.Month) error {
	summary, err := b.calendar.Aggregate(ctx, month)
	if err != nil {
		return b.sendText(chatID, userMessage(err))
	}
	return b.sendWithReplyMarkup(chatID, monthText(summary), monthKeyboard(summary, b.today()))
}

func (b *Bot) editMonth(ctx context.Context, chatID int64, messageID int, month model.Month) error {
	summary, err := b.calendar.Aggregate(ctx, month)
	if err != nil {
		return b.sendText(chatID, userMessage(err))
	}
	return b.edit(chatID, messageID, monthText(summary), monthKeyboard(summary, b.today()))
}

func (b *Bot) sendDay(ctx context.Context, chatID int64, day model.Date) error {
	tasks, err := b.agenda.ForDate(ctx, day)
	if err != nil {
		return b.sendText(chatID, userMessage(err))
	}
	return b.sendWithReplyMarkup(chatID, dayText(day, tasks, b.today()), dayKeyboard(day, tasks))
}

func (b *Bot) editDay(ctx context.Context, chatID int64, messageID int, day model.Date) error {
	tasks, err := b.agenda.ForDate(ctx, day)
	if err != nil {
		return b.sendText(chatID, userMessage(err))
	}
	return b.edit(chatID, messageID, dayText(day, tasks, b.today()), dayKeyboard(day, tasks))
}

func (b *Bot) sendInbox(ctx context.Context, chatID int64) error {
	tasks, err := b.tasks.ListUndated(ctx)
	if err != nil {
		return b.sendText(chatID, userMessage(err))
	}
	text := taskListText("📥 <b>No deadline</b>", tasks, b.today(), "Nothing without a deadline.")
	return b.sendText(chatID, text)
}

// sendTodayPanel posts today's open tasks and remembers the message so the
// day rollover job can refresh it.
func (b *Bot) sendTodayPanel(ctx context.Context, chatID int64) error {
	today := b.today()
	tasks, err := b.agenda.PendingForDate(ctx, today)
	if err != nil {
		return b.sendText(chatID, userMessage(err))
	}

	msg := tgbotapi.NewMessage(chatID, todayText(today, tasks))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = dayKeyboard(today, tasks)
	sent, err := b.api.Send(msg)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.panel = &panelRef{chatID: chatID, messageID: sent.MessageID}
	b.mu.Unlock()
	return nil
}

// RefreshTodayPanel rewrites the last today panel for the current date. It
// edits the existing message, so the owner gets no new notification.
func (b *Bot) RefreshTodayPanel(ctx context.Context) error {
	b.mu.Lock()
	panel := b.panel
	b.mu.Unlock()
	if panel == nil {
		return nil
	}

	today := b.today()
	tasks, err := b.agenda.PendingForDate(ctx, today)
	if err != nil {
		return err
	}
	b.log.Info("refresh today panel", zap.Stringer("day", today), zap.Int("tasks", len(tasks)))
	return b.edit(panel.chatID, panel.messageID, todayText(today, tasks), dayKeyboard(today, tasks))
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) edit(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		// Telegram rejects edits that change nothing.
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return err
	}
	return nil
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

// userMessage turns service errors into chat replies.
func userMessage(err error) string {
	var validation *model.ValidationError
	switch {
	case errors.As(err, &validation):
		return "⚠️ " + escape(validation.Error())
	case errors.Is(err, model.ErrNotFound):
		return "Task not found."
	default:
		return "Something went wrong: " + escape(err.Error())
	}
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(arg), "#"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return uint(id), nil
}

func escape(s string) string {
	return html.EscapeString(s)
}

const helpText = "🗓 <b>Task calendar</b>\n" +
	"• /add — add a one-off or weekly task\n" +
	"• /today — what is left for today\n" +
	"• /month [2025-09] — month calendar\n" +
	"• /day 2025-09-12 — tasks on one day\n" +
	"• /inbox — tasks without a deadline\n" +
	"• /done &lt;id&gt;, /undo &lt;id&gt; — toggle completion\n" +
	"• /rename &lt;id&gt; &lt;title&gt;, /priority &lt;id&gt; &lt;1-3&gt; — edit a task\n" +
	"• /delete &lt;id&gt; — delete a task\n" +
	"• /cancel — stop the current dialog"
