package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/road-signs-bot/internal/domain/entities"
	"github.com/aliskhannn/road-signs-bot/internal/storage"
)

// SendReminder delivers a reminder and removes the previous one from the chat.
// It satisfies service.ReminderNotifier.
func (h *Handler) SendReminder(_ context.Context, chatID int64, payload entities.ReminderPayload) error {
	msg := newHTMLMessage(chatID, formatReminder(payload))
	msg.ReplyMarkup = buildReminderKeyboard()

	sent, err := h.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send reminder to chat %d: %w", chatID, err)
	}

	prev, ok := h.reminders.Swap(chatID, storage.ReminderMessage{
		MessageID: sent.MessageID,
		SentAt:    time.Now(),
	})
	if ok {
		h.deleteMessage(chatID, prev.MessageID)
	}

	return nil
}

// clearReminder removes the pending reminder once the learner is back.
func (h *Handler) clearReminder(chatID int64) {
	if prev, ok := h.reminders.Take(chatID); ok {
		h.deleteMessage(chatID, prev.MessageID)
	}
}

func (h *Handler) deleteMessage(chatID int64, msgID int) {
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, msgID)); err != nil {
		h.logger.Debug("failed to delete message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", msgID),
			zap.Error(err),
		)
	}
}
