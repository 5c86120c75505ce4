// Package bot is the Telegram surface: daily summaries plus just enough
// interaction to finish or skip an occurrence from the chat.
package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"habit-planner/internal/model"
	"habit-planner/internal/repository"
	"habit-planner/internal/service"
)

const (
	cbDonePrefix = "done:"
	cbSkipPrefix = "skip:"
)

// Bot aggregates the Telegram API with the planner services.
type Bot struct {
	api         *tgbotapi.BotAPI
	userRepo    *repository.UserRepository
	reminderSvc *service.ReminderService
	completions *service.CompletionService
	previews    *service.PreviewService
	occurrences service.OccurrenceStore
	tasks       service.TaskStore
	log         *zap.Logger
}

func New(token string, userRepo *repository.UserRepository, reminderSvc *service.ReminderService, completions *service.CompletionService, previews *service.PreviewService, tasks service.TaskStore, occurrences service.OccurrenceStore, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info("bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:         api,
		userRepo:    userRepo,
		reminderSvc: reminderSvc,
		completions: completions,
		previews:    previews,
		occurrences: occurrences,
		tasks:       tasks,
		log:         log,
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
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Warn("handle callback", zap.Error(err))
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Warn("handle message", zap.Error(err))
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	if !msg.IsCommand() {
		return b.sendText(msg.Chat.ID, "Use /tasks to see open items or /help for commands.")
	}

	user, err := b.userRepo.UpsertFromTelegram(ctx, msg.From.ID, msg.From.FirstName, msg.From.LastName, msg.From.UserName)
	if err != nil {
		return err
	}

	switch msg.Command() {
	case "start":
		return b.sendText(msg.Chat.ID, "Hi! I track your tasks and habits and nudge you about open occurrences. Try /tasks or /help.")
	case "help":
		return b.handleHelp(msg)
	case "tasks":
		return b.handleTasks(ctx, msg, user.ID)
	case "done":
		return b.handleFinish(ctx, msg, true)
	case "skip":
		return b.handleFinish(ctx, msg, false)
	case "next":
		return b.handleNext(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg, user)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command, see /help.")
	}
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	help := strings.Join([]string{
		"<b>Commands</b>",
		"/tasks — open occurrences with done/skip buttons",
		"/done &lt;occurrence id&gt; — finish an occurrence",
		"/skip &lt;occurrence id&gt; — skip an occurrence",
		"/next &lt;task id&gt; — preview the next occurrence date",
		"/report — today's summary",
	}, "\n")
	return b.sendHTML(msg.Chat.ID, help)
}

func (b *Bot) handleTasks(ctx context.Context, msg *tgbotapi.Message, userID uint) error {
	pending, err := b.occurrences.ListPendingByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return b.sendText(msg.Chat.ID, "Nothing open. Enjoy the slack.")
	}

	tasks, err := b.tasks.ListActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	names := make(map[uint]string, len(tasks))
	for _, task := range tasks {
		names[task.ID] = task.Name
	}

	for _, occ := range pending {
		name := names[occ.TaskID]
		if name == "" {
			name = fmt.Sprintf("task #%d", occ.TaskID)
		}
		text := fmt.Sprintf("<b>%s</b> (#%d)", html.EscapeString(name), occ.ID)
		if occ.LimitDate != nil {
			text += fmt.Sprintf("\n⏰ by %s", occ.LimitDate.Format("2006-01-02"))
		}

		reply := tgbotapi.NewMessage(msg.Chat.ID, text)
		reply.ParseMode = tgbotapi.ModeHTML
		reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Done", cbDonePrefix+strconv.Itoa(int(occ.ID))),
				tgbotapi.NewInlineKeyboardButtonData("⏭️ Skip", cbSkipPrefix+strconv.Itoa(int(occ.ID))),
			),
		)
		if _, err := b.api.Send(reply); err != nil {
			return fmt.Errorf("send occurrence: %w", err)
		}
	}
	return nil
}

func (b *Bot) handleFinish(ctx context.Context, msg *tgbotapi.Message, complete bool) error {
	id, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil || id <= 0 {
		return b.sendText(msg.Chat.ID, "Give me an occurrence id, e.g. /done 12.")
	}

	if complete {
		err = b.completions.CompleteOccurrence(ctx, uint(id))
	} else {
		err = b.completions.SkipOccurrence(ctx, uint(id))
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Occurrence %d does not exist.", id))
	case err != nil:
		return err
	}

	if complete {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Occurrence %d completed. 💪", id))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("Occurrence %d skipped.", id))
}

func (b *Bot) handleNext(ctx context.Context, msg *tgbotapi.Message) error {
	id, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil || id <= 0 {
		return b.sendText(msg.Chat.ID, "Give me a task id, e.g. /next 3.")
	}

	next, err := b.previews.PreviewNextOccurrenceDate(ctx, uint(id))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Task %d does not exist.", id))
	case err != nil:
		return err
	case next == nil:
		return b.sendText(msg.Chat.ID, "No further occurrence is due for that task.")
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("Next occurrence: %s", next.Format("2006-01-02")))
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	summary, err := b.reminderSvc.DailySummary(ctx, *user, time.Now())
	if err != nil {
		return err
	}
	return b.sendHTML(msg.Chat.ID, summary)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.Message == nil || cb.From == nil {
		return nil
	}

	data := cb.Data
	var err error
	var ack string
	switch {
	case strings.HasPrefix(data, cbDonePrefix):
		var id int
		if id, err = strconv.Atoi(strings.TrimPrefix(data, cbDonePrefix)); err == nil {
			err = b.completions.CompleteOccurrence(ctx, uint(id))
			ack = "Done ✅"
		}
	case strings.HasPrefix(data, cbSkipPrefix):
		var id int
		if id, err = strconv.Atoi(strings.TrimPrefix(data, cbSkipPrefix)); err == nil {
			err = b.completions.SkipOccurrence(ctx, uint(id))
			ack = "Skipped ⏭️"
		}
	default:
		ack = "Unknown action"
	}
	if err != nil {
		ack = "Something went wrong"
		b.log.Warn("callback failed", zap.String("data", data), zap.Error(err))
	}

	if _, cbErr := b.api.Request(tgbotapi.NewCallback(cb.ID, ack)); cbErr != nil {
		return fmt.Errorf("answer callback: %w", cbErr)
	}
	return err
}

// SendDailyReports pushes the summary to every registered Telegram user.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, user := range users {
		if user.TelegramID == 0 {
			continue
		}
		summary, err := b.reminderSvc.DailySummary(ctx, user, now)
		if err != nil {
			b.log.Warn("build summary", zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}
		if err := b.sendHTML(user.TelegramID, summary); err != nil {
			b.log.Warn("send summary", zap.Uint("user_id", user.ID), zap.Error(err))
		}
	}
	return nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (b *Bot) sendHTML(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
