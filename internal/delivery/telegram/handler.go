package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/road-signs-bot/internal/chain"
	"github.com/aliskhannn/road-signs-bot/internal/domain/entities"
	"github.com/aliskhannn/road-signs-bot/internal/storage"
)

// Bot is the part of *tgbotapi.BotAPI the handler talks to.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type LearnerService interface {
	Enroll(ctx context.Context, userID, chatID int64) (bool, error)
	Current(ctx context.Context, userID int64) (chain.CatalogEntry, error)
	Guess(ctx context.Context, userID int64, guess string) (*entities.GuessOutcome, error)
	Progress(ctx context.Context, userID int64) (*entities.ProgressSummary, error)
	Reset(ctx context.Context, userID int64) error
	ToggleReminders(ctx context.Context, userID int64) (bool, error)
}

type Catalog interface {
	GetByID(id string) (chain.CatalogEntry, error)
}

type Handler struct {
	bot            Bot
	logger         *zap.Logger
	learnerService LearnerService
	catalog        Catalog
	assetsDir      string
	reminders      *storage.ReminderMessages
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	learnerService LearnerService,
	catalog Catalog,
	assetsDir string,
) *Handler {
	return &Handler{
		bot:            bot,
		logger:         logger,
		learnerService: learnerService,
		catalog:        catalog,
		assetsDir:      assetsDir,
		reminders:      storage.NewReminderMessages(),
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			_ = h.withErrorHandling(h.handleStart(userID))(ctx, chatID)

		case "question":
			_ = h.withErrorHandling(h.handleQuestion(userID))(ctx, chatID)

		case "progress":
			_ = h.withErrorHandling(h.handleProgress(userID))(ctx, chatID)

		case "reset":
			_ = h.withErrorHandling(h.handleReset())(ctx, chatID)

		case "reminders":
			_ = h.withErrorHandling(h.handleReminders(userID))(ctx, chatID)

		case "help":
			h.send(newHTMLMessage(chatID, msgHelp))

		default:
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}

		return
	}

	// Surrounding whitespace is message framing, not part of the answer.
	guess := strings.TrimSpace(update.Message.Text)
	_ = h.withErrorHandling(h.handleGuess(userID, guess))(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
