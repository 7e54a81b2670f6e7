package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/road-signs-bot/internal/chain"
	"github.com/aliskhannn/road-signs-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		if service.IsUserError(err) {
			h.logger.Debug("user error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, userErrorMessage(err))
			return nil
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return nil
	}
}

func userErrorMessage(err error) string {
	switch {
	case errors.Is(err, chain.ErrEmptyGuess):
		return msgEmptyGuess
	case errors.Is(err, service.ErrNotEnrolled):
		return msgNotEnrolled
	default:
		return msgInternalError
	}
}
