package bot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// gen issues a batch of redeem codes. The optional argument is the batch
// size, default 1; non-numeric input is rejected with a usage reply.
func (t *TgBot) gen(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.requireAdmin(identity(ctx)) {
		t.plainResponse(chatId, "Admins only\\.")
		return nil
	}

	count := 1
	args := strings.Fields(ctx.EffectiveMessage.Text)
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			t.plainResponse(chatId, "Usage: `/gen [count]` where count is a positive number")
			return nil
		}
		count = n
	}

	codes, err := t.core.GenerateCodes(identity(ctx), count)
	if err != nil {
		t.reportError(chatId, "/gen", err)
		return nil
	}

	var sb strings.Builder
	sb.WriteString("Generated codes:\n")
	for _, code := range codes {
		sb.WriteString(fmt.Sprintf("`%s`\n", code))
	}
	t.plainResponse(chatId, sb.String())
	return nil
}

func (t *TgBot) stats(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.requireAdmin(identity(ctx)) {
		t.plainResponse(chatId, "Admins only\\.")
		return nil
	}

	users, codes, err := t.core.Stats()
	if err != nil {
		t.reportError(chatId, "/stats", err)
		return nil
	}
	t.plainResponse(chatId, fmt.Sprintf("Users: %d\nCodes remaining: %d", users, codes))
	return nil
}

// usersCmd lists every registered identity with the code it redeemed.
func (t *TgBot) usersCmd(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.requireAdmin(identity(ctx)) {
		t.plainResponse(chatId, "Admins only\\.")
		return nil
	}

	users, err := t.core.ListUsers()
	if err != nil {
		t.reportError(chatId, "/users", err)
		return nil
	}
	if len(users) == 0 {
		t.plainResponse(chatId, "No users\\.")
		return nil
	}

	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(fmt.Sprintf("`%s` \\-\\> `%s`\n", Sanitize(id), users[id].Redeemed))
	}
	for _, part := range splitMessage(sb.String(), maxTelegramMessageLen) {
		t.plainResponse(chatId, part)
	}
	return nil
}

func (t *TgBot) codesCmd(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.requireAdmin(identity(ctx)) {
		t.plainResponse(chatId, "Admins only\\.")
		return nil
	}

	codes, err := t.core.ListCodes()
	if err != nil {
		t.reportError(chatId, "/codes", err)
		return nil
	}
	if len(codes) == 0 {
		t.plainResponse(chatId, "No codes left\\.")
		return nil
	}

	var sb strings.Builder
	for _, code := range codes {
		sb.WriteString(fmt.Sprintf("`%s`\n", code))
	}
	for _, part := range splitMessage(sb.String(), maxTelegramMessageLen) {
		t.plainResponse(chatId, part)
	}
	return nil
}
