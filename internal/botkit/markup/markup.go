package markup

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// EscapeForMarkdown escapes text for Telegram's MarkdownV2 parse mode.
func EscapeForMarkdown(src string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, src)
}
