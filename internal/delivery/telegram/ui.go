package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// buildAfterGuessKeyboard is shown under the verdict of a guess.
func buildAfterGuessKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Progress", buildProgressCallback()),
		),
	)
}

// buildProgressKeyboard builds keyboard for progress screen.
func buildProgressKeyboard(remindersEnabled bool) tgbotapi.InlineKeyboardMarkup {
	reminderLabel := "🔕 Turn reminders off"
	if !remindersEnabled {
		reminderLabel = "🔔 Turn reminders on"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildProgressRefreshCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚦 Next sign", buildQuestionCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(reminderLabel, buildReminderToggleCallback(originProgress)),
		),
	)
}

// buildReminderKeyboard is attached to reminder messages.
func buildReminderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚦 Practice now", buildQuestionCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔕 Stop reminders", buildReminderToggleCallback("")),
		),
	)
}

// buildResetKeyboard asks for confirmation before wiping progress.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, start over", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", buildResetCancelCallback()),
		),
	)
}
