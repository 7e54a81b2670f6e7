package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	data := decodeCallback(cb.Data)
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	var fn HandlerFunc
	toast := ""

	switch data.Action {
	case actionQuestion:
		fn = h.handleQuestion(userID)

	case actionProgress:
		if data.param(0) == progressRefresh {
			fn = h.handleProgressRefresh(userID, msgID)
		} else {
			fn = h.handleProgress(userID)
		}

	case actionReminder:
		if data.param(0) != reminderToggle {
			h.logger.Warn("unknown reminder callback", zap.String("data", cb.Data))
			break
		}
		fn = h.handleReminderToggle(userID, msgID, data.param(1), &toast)

	case actionReset:
		switch data.param(0) {
		case resetConfirm:
			fn = h.handleResetConfirm(userID, msgID)
		case resetCancel:
			fn = func(_ context.Context, chatID int64) error {
				h.send(newHTMLEdit(chatID, msgID, msgResetCancelled))
				return nil
			}
		default:
			h.logger.Warn("unknown reset callback", zap.String("data", cb.Data))
		}

	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
	}

	if fn != nil {
		_ = h.withErrorHandling(fn)(ctx, chatID)
	}

	// Remove the user's "clock".
	h.answerCallback(cb.ID, toast)
}

func (h *Handler) handleProgressRefresh(userID int64, msgID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		summary, err := h.learnerService.Progress(ctx, userID)
		if err != nil {
			return err
		}

		edit := newHTMLEdit(chatID, msgID, formatProgress(summary, h.answerOf))
		kb := buildProgressKeyboard(summary.Reminders)
		edit.ReplyMarkup = &kb
		h.send(edit)

		return nil
	}
}

func (h *Handler) handleReminderToggle(userID int64, msgID int, origin string, toast *string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		enabled, err := h.learnerService.ToggleReminders(ctx, userID)
		if err != nil {
			return err
		}
		*toast = remindersText(enabled)

		if origin == originProgress {
			h.send(tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, buildProgressKeyboard(enabled)))
		}
		return nil
	}
}

func (h *Handler) handleResetConfirm(userID int64, msgID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.learnerService.Reset(ctx, userID); err != nil {
			return err
		}

		h.send(newHTMLEdit(chatID, msgID, msgResetDone))
		return h.handleQuestion(userID)(ctx, chatID)
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}
