package bot

import (
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

func (t *TgBot) start(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if t.requireAuthorized(identity(ctx)) {
		t.plainResponse(chatId, "You are authorized\\. Send your cookie file \\(\\.txt\\) now\\.")
	} else {
		t.plainResponse(chatId, "Send your redeem code using `/redeem <code>`")
	}
	return nil
}

func (t *TgBot) redeem(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id

	args := strings.Fields(ctx.EffectiveMessage.Text)
	if len(args) < 2 {
		t.plainResponse(chatId, "Usage: `/redeem <code>`")
		return nil
	}
	code := args[1]

	accepted, err := t.core.Redeem(identity(ctx), code)
	if err != nil {
		t.reportError(chatId, "/redeem", err)
		return nil
	}
	if !accepted {
		t.plainResponse(chatId, "Invalid or already used code\\.")
		return nil
	}

	t.plainResponse(chatId, "Code accepted\\! Send your \\.txt cookie file now\\.")
	t.setUserCommands(chatId, true)
	return nil
}

func (t *TgBot) help(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	isAdmin := t.requireAdmin(identity(ctx))
	isAuthorized := t.requireAuthorized(identity(ctx))

	var sb strings.Builder
	sb.WriteString("*Available Commands*\n\n")
	sb.WriteString("`/start` \\- Show your access status\n")
	sb.WriteString("`/redeem <code>` \\- Redeem an access code\n")
	sb.WriteString("`/help` \\- Show this help\n")

	if isAuthorized {
		sb.WriteString("\nSend a `.txt` cookie file to have it checked\\.\n")
	}

	if isAdmin {
		sb.WriteString("\n*Admin Commands:*\n")
		sb.WriteString("`/gen [count]` \\- Generate redeem codes\n")
		sb.WriteString("`/stats` \\- User and code counts\n")
		sb.WriteString("`/users` \\- List registered users\n")
		sb.WriteString("`/codes` \\- List outstanding codes\n")
	}

	t.plainResponse(chatId, sb.String())
	return nil
}
