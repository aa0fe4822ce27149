package bot

import (
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"

	"cookiegate/lib/sl"
)

const maxTelegramMessageLen = 4096

func (t *TgBot) plainResponse(chatId int64, text string) {
	if text == "" {
		t.log.With("id", chatId).Debug("empty message")
		return
	}

	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		t.log.With(slog.Int64("id", chatId)).Warn("sending message", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			t.log.With(slog.Int64("id", chatId)).Error("sending safe message", sl.Err(err))
		}
	}
}

func Sanitize(input string) string {
	reservedChars := "\\_{}#+-.!|()[]=*"
	sanitized := ""
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			sanitized += "\\" + string(char)
		} else {
			sanitized += string(char)
		}
	}
	return sanitized
}

// identity renders the sender's Telegram ID as the identity string used
// throughout the documents.
func identity(ctx *ext.Context) string {
	return strconv.FormatInt(ctx.EffectiveUser.Id, 10)
}

func (t *TgBot) requireAdmin(identity string) bool {
	admin, err := t.core.IsAdmin(identity)
	if err != nil {
		t.log.Error("admin check", slog.String("identity", identity), sl.Err(err))
		return false
	}
	return admin
}

func (t *TgBot) requireAuthorized(identity string) bool {
	authorized, err := t.core.IsAuthorized(identity)
	if err != nil {
		t.log.Error("authorization check", slog.String("identity", identity), sl.Err(err))
		return false
	}
	return authorized
}

// reportError logs the failure and sends a neutral message to the user.
func (t *TgBot) reportError(chatId int64, command string, err error) {
	t.log.Error("bot command failed",
		slog.String("command", command),
		slog.Int64("user_id", chatId),
		sl.Err(err),
	)
	t.plainResponse(chatId, "Something went wrong\\. Please try again later\\.")
}

func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			parts = append(parts, text)
			break
		}
		// Try to split at newline
		cutAt := maxLen
		nlIdx := strings.LastIndex(text[:maxLen], "\n")
		if nlIdx > 0 {
			cutAt = nlIdx + 1
		}
		parts = append(parts, text[:cutAt])
		text = text[cutAt:]
	}
	return parts
}
