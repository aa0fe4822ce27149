// Package bot implements the Telegram front end for the cookie checker.
//
// Architecture overview:
//   - tgbot.go     — TgBot struct, lifecycle (Start/Stop), Core interface
//   - commands.go  — User-facing commands: /start, /redeem, /help
//   - admin.go     — Admin commands: /gen, /stats, /users, /codes
//   - documents.go — Uploaded cookie file handling (download + pipeline)
//   - menus.go     — Command menus via Telegram's BotCommandScope API
//   - helpers.go   — Shared utilities: Sanitize, plainResponse, gates
//
// The bot is a thin dispatcher: every handler resolves the sender to an
// identity string, gates on the core's authorization predicates, and
// forwards to the core operation. All replies are MarkdownV2 with a
// plain-text fallback.
package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"

	"cookiegate/entity"
	"cookiegate/lib/sl"
)

// Core defines the operations the bot depends on.
// Implemented by impl/core.
type Core interface {
	IsAdmin(identity string) (bool, error)
	IsAuthorized(identity string) (bool, error)
	GenerateCodes(issuer string, count int) ([]string, error)
	Redeem(identity, code string) (bool, error)
	Stats() (users int, codes int, err error)
	ListUsers() (map[string]*entity.User, error)
	ListCodes() ([]string, error)
	CheckUpload(ctx context.Context, identity, fileName string, src io.Reader) (*entity.CheckReport, error)
}

type TgBot struct {
	log     *slog.Logger
	api     *tgbotapi.Bot
	core    Core
	updater *ext.Updater
}

func NewTgBot(apiKey string, core Core, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:  log.With(sl.Module("tgbot")),
		core: core,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api

	return tgBot, nil
}

func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update:", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	t.updater = ext.NewUpdater(dispatcher, nil)

	// User commands
	dispatcher.AddHandler(handlers.NewCommand("start", t.start))
	dispatcher.AddHandler(handlers.NewCommand("redeem", t.redeem))
	dispatcher.AddHandler(handlers.NewCommand("help", t.help))

	// Admin commands
	dispatcher.AddHandler(handlers.NewCommand("gen", t.gen))
	dispatcher.AddHandler(handlers.NewCommand("stats", t.stats))
	dispatcher.AddHandler(handlers.NewCommand("users", t.usersCmd))
	dispatcher.AddHandler(handlers.NewCommand("codes", t.codesCmd))

	// Uploaded documents
	dispatcher.AddHandler(handlers.NewMessage(message.Document, t.handleDocument))

	t.setDefaultCommands()

	err := t.updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	t.updater.Idle()
	return nil
}

func (t *TgBot) Stop() {
	if t.updater != nil {
		t.log.Info("stopping telegram bot")
		t.updater.Stop()
	}
}
