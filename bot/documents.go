package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"

	"cookiegate/impl/core"
)

// handleDocument receives an uploaded cookie file and runs it through
// the checking pipeline. Extension and authorization are verified before
// the file is fetched from Telegram, so rejected uploads cost nothing.
func (t *TgBot) handleDocument(b *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	doc := ctx.EffectiveMessage.Document
	if doc == nil {
		return nil
	}

	if !strings.EqualFold(filepath.Ext(doc.FileName), ".txt") {
		t.plainResponse(chatId, "Please send a \\.txt file only\\.")
		return nil
	}
	if !t.requireAuthorized(identity(ctx)) {
		t.plainResponse(chatId, "You're not authorized\\. Use `/redeem <code>`")
		return nil
	}

	file, err := b.GetFile(doc.FileId, nil)
	if err != nil {
		t.reportError(chatId, "document", fmt.Errorf("get file: %w", err))
		return nil
	}
	resp, err := http.Get(file.URL(b, nil))
	if err != nil {
		t.reportError(chatId, "document", fmt.Errorf("download file: %w", err))
		return nil
	}
	defer resp.Body.Close()

	t.plainResponse(chatId, "Checking your cookies\\.\\.\\.")

	report, err := t.core.CheckUpload(context.Background(), identity(ctx), doc.FileName, resp.Body)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrBadExtension):
			t.plainResponse(chatId, "Please send a \\.txt file only\\.")
		case errors.Is(err, core.ErrNotAuthorized):
			t.plainResponse(chatId, "You're not authorized\\. Use `/redeem <code>`")
		default:
			t.reportError(chatId, "document", err)
		}
		return nil
	}

	t.plainResponse(chatId, fmt.Sprintf(
		"Checked %d cookies\\.\nValid: %d\nInvalid: %d",
		report.Checked, report.Valid, report.Invalid(),
	))
	return nil
}
