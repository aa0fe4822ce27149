package bot

import (
	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// Command lists for Telegram's menu button (the "/" icon in the chat
// input). The default scope covers unknown senders; redeeming a code
// upgrades the sender's personal menu via BotCommandScopeChat.

var commandsAnonymous = []tgbotapi.BotCommand{
	{Command: "start", Description: "Show your access status"},
	{Command: "redeem", Description: "Redeem an access code"},
	{Command: "help", Description: "Show available commands"},
}

var commandsAuthorized = []tgbotapi.BotCommand{
	{Command: "start", Description: "Show your access status"},
	{Command: "help", Description: "Show available commands"},
}

// setDefaultCommands sets the default bot menu for unknown users.
func (t *TgBot) setDefaultCommands() {
	_, err := t.api.SetMyCommands(commandsAnonymous, &tgbotapi.SetMyCommandsOpts{
		Scope: tgbotapi.BotCommandScopeDefault{},
	})
	if err != nil {
		t.log.Warn("setting default commands", "error", err)
	}
}

// setUserCommands switches a sender's personal menu after redemption.
func (t *TgBot) setUserCommands(chatId int64, authorized bool) {
	commands := commandsAnonymous
	if authorized {
		commands = commandsAuthorized
	}
	_, err := t.api.SetMyCommands(commands, &tgbotapi.SetMyCommandsOpts{
		Scope: tgbotapi.BotCommandScopeChat{ChatId: chatId},
	})
	if err != nil {
		t.log.Warn("setting user commands", "chat_id", chatId, "error", err)
	}
}
