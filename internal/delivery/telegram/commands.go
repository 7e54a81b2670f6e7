package telegram

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/road-signs-bot/internal/chain"
)

// handleStart enrolls the user and shows the first sign.
func (h *Handler) handleStart(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		created, err := h.learnerService.Enroll(ctx, userID, chatID)
		if err != nil {
			return err
		}

		text := msgWelcomeBack
		if created {
			text = msgWelcome
		}
		h.send(newHTMLMessage(chatID, text))

		return h.handleQuestion(userID)(ctx, chatID)
	}
}

// handleQuestion shows the learner's current sign.
func (h *Handler) handleQuestion(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		sign, err := h.learnerService.Current(ctx, userID)
		if err != nil {
			return err
		}

		h.sendSign(chatID, sign)
		return nil
	}
}

// handleGuess scores the text as an answer to the current sign and shows the next one.
func (h *Handler) handleGuess(userID int64, guess string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		outcome, err := h.learnerService.Guess(ctx, userID, guess)
		if err != nil {
			return err
		}
		h.clearReminder(chatID)

		msg := newHTMLMessage(chatID, formatVerdict(outcome))
		msg.ReplyMarkup = buildAfterGuessKeyboard()
		h.send(msg)

		h.sendSign(chatID, outcome.NextSign)
		return nil
	}
}

func (h *Handler) handleProgress(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		summary, err := h.learnerService.Progress(ctx, userID)
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, formatProgress(summary, h.answerOf))
		msg.ReplyMarkup = buildProgressKeyboard(summary.Reminders)
		h.send(msg)

		return nil
	}
}

// handleReset asks for confirmation. The wipe itself happens in the callback.
func (h *Handler) handleReset() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		msg := newHTMLMessage(chatID, msgResetPrompt)
		msg.ReplyMarkup = buildResetKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) handleReminders(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		enabled, err := h.learnerService.ToggleReminders(ctx, userID)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, remindersText(enabled)))
		return nil
	}
}

// sendSign sends the sign image, falling back to a text notice when the file
// cannot be delivered.
func (h *Handler) sendSign(chatID int64, sign chain.CatalogEntry) {
	doc := buildSignDocument(h.assetsDir, sign, chatID)
	if _, err := h.bot.Send(doc); err != nil {
		h.logger.Error("failed to send sign",
			zap.Int64("chat_id", chatID),
			zap.String("sign_id", sign.ID),
			zap.Error(err),
		)
		h.sendError(chatID, msgSignUnavailable)
	}
}

// answerOf resolves a sign ID to its answer for display.
func (h *Handler) answerOf(id string) string {
	entry, err := h.catalog.GetByID(id)
	if err != nil {
		return id
	}
	return entry.Answer
}

func remindersText(enabled bool) string {
	if enabled {
		return msgRemindersOn
	}
	return msgRemindersOff
}
