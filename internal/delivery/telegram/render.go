package telegram

import (
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/road-signs-bot/internal/chain"
)

const signCaption = "What does this sign mean?"

// buildSignDocument attaches the sign image. Signs are SVG files, which Telegram
// only accepts as documents.
func buildSignDocument(assetsDir string, sign chain.CatalogEntry, chatID int64) tgbotapi.DocumentConfig {
	path := filepath.Join(assetsDir, sign.ID)

	d := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	d.Caption = signCaption

	return d
}
