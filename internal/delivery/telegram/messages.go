// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/road-signs-bot/internal/domain/entities"
)

// Error messages.
const (
	msgEmptyGuess      = "Please supply a non-empty guess."
	msgNotEnrolled     = "You are not enrolled yet. Send /start to begin."
	msgSignUnavailable = "Could not load the next sign. Please try again later."
	msgInternalError   = "Something went wrong. Please try again later."
	msgUnknownCommand  = "Unknown command. Send /help to see what I understand."
)

const (
	msgWelcome = "<b>Road Signs Bot</b>\n\n" +
		"I will show you road signs one at a time. Reply with what the sign means.\n" +
		"Signs you know well come back rarely, the ones you miss come back soon.\n\n" +
		"Here is your first sign:"
	msgWelcomeBack = "Welcome back! Let's continue where you left off:"
	msgHelp        = "<b>Commands</b>\n\n" +
		"/question — show the current sign\n" +
		"/progress — your score and learned signs\n" +
		"/reminders — turn practice reminders on or off\n" +
		"/reset — start over from scratch\n" +
		"/help — this message\n\n" +
		"Any other text is taken as your answer to the current sign."
	msgResetPrompt    = "This wipes your score and learned signs. Start over?"
	msgResetDone      = "Progress cleared. Here is your first sign again:"
	msgResetCancelled = "Reset cancelled."
	msgRemindersOn    = "🔔 Reminders are on. I will nudge you when you have been away for a while."
	msgRemindersOff   = "🔕 Reminders are off."
)

// newHTMLMessage creates a message with HTML parse mode.
func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// newHTMLEdit creates an edit with HTML parse mode.
func newHTMLEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	return edit
}

func formatVerdict(o *entities.GuessOutcome) string {
	var sb strings.Builder

	if o.Correct {
		sb.WriteString("✅ <b>Correct!</b>")
	} else {
		fmt.Fprintf(&sb, "❌ <b>Not quite.</b> The answer is <b>%s</b>.", html.EscapeString(o.Answer))
	}
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "This sign: %d of %d correct\n", o.Sign.AttemptsCorrect, o.Sign.AttemptsTotal)
	fmt.Fprintf(&sb, "Overall: %d of %d correct (%.1f%%)", o.Overall.AttemptsCorrect, o.Overall.AttemptsTotal, o.Overall.Accuracy())

	if o.Mastered {
		sb.WriteString("\n\n🏁 You have learned this sign.")
	}

	return sb.String()
}

// formatProgress renders the progress screen. answerOf maps a sign ID to its answer.
func formatProgress(p *entities.ProgressSummary, answerOf func(id string) string) string {
	var sb strings.Builder

	sb.WriteString("<b>📊 Your progress</b>\n\n")
	sb.WriteString(buildProgressBar(len(p.Learned), p.TotalSigns, 20))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "✅ <b>Learned:</b> %d / %d (%.1f%%)\n", len(p.Learned), p.TotalSigns, p.Percentage)
	fmt.Fprintf(&sb, "📝 <b>Guesses:</b> %d\n", p.Overall.AttemptsTotal)
	fmt.Fprintf(&sb, "🎯 <b>Accuracy:</b> %.1f%%\n", p.Accuracy)

	if len(p.Learned) > 0 {
		sb.WriteString("\n<b>Learned signs</b>\n")
		for _, e := range p.Learned {
			fmt.Fprintf(&sb, "• %s — %d of %d correct\n",
				html.EscapeString(answerOf(e.ItemID)),
				e.AttemptsCorrect,
				e.AttemptsTotal,
			)
		}
	}

	return sb.String()
}

func formatReminder(p entities.ReminderPayload) string {
	days := int(p.IdleFor / (24 * time.Hour))

	var sb strings.Builder
	sb.WriteString("🚦 <b>Time for a quick drill?</b>\n\n")
	if days >= 1 {
		fmt.Fprintf(&sb, "You have not practiced for %d day(s).\n", days)
	}
	fmt.Fprintf(&sb, "Learned so far: %d of %d signs.", p.Learner.Learned, p.TotalSigns)

	return sb.String()
}
