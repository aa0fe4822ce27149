package main

import (
	"flag"
	"log"
	"log/slog"
	"path/filepath"
	"time"

	"cookiegate/bot"
	"cookiegate/impl/auth"
	"cookiegate/impl/core"
	"cookiegate/internal/audit"
	"cookiegate/internal/checker"
	"cookiegate/internal/config"
	"cookiegate/internal/database"
	"cookiegate/internal/http-server/api"
	"cookiegate/internal/store"
	"cookiegate/lib/logger"
	"cookiegate/lib/sl"
)

const logFileName = "cookiegate.log"

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, filepath.Join(*logPath, logFileName))
	lg.Info("starting cookiegate", slog.String("config", *configPath), slog.String("env", conf.Env))

	fileStore := store.New(conf.Storage.DataDir, lg)
	if err := fileStore.Ensure(conf.Admins); err != nil {
		log.Fatal("initializing document store: ", err)
	}

	mongo := database.NewMongoClient(conf)

	var auditLog *audit.Log
	if mongo != nil {
		auditLog = audit.New(conf.Storage.AuditFile, mongo, lg)
	} else {
		auditLog = audit.New(conf.Storage.AuditFile, nil, lg)
	}

	authService := auth.New(fileStore)
	checkClient := checker.NewClient(checker.Config{
		Url:    conf.Checker.Url,
		ApiKey: conf.Checker.ApiKey,
	}, lg)

	coreService := core.New(fileStore, authService, auditLog, core.Config{
		UploadsDir:  conf.Storage.UploadsDir,
		ResultsFile: conf.Storage.ResultsFile,
		RateLimit:   conf.Checker.RateLimit,
		Delay:       time.Duration(conf.Checker.DelayMs) * time.Millisecond,
		CodeLength:  conf.Checker.CodeLength,
	}, lg)
	coreService.SetChecker(checkClient, checker.Parse)
	if mongo != nil {
		coreService.SetArchive(mongo)
	}

	if conf.Api.Enabled {
		go func() {
			if err := api.New(conf, lg, coreService); err != nil {
				lg.Error("api server stopped", sl.Err(err))
			}
		}()
	}

	if !conf.Telegram.Enabled {
		log.Fatal("telegram bot disabled; nothing to serve")
	}

	tgBot, err := bot.NewTgBot(conf.Telegram.ApiKey, coreService, lg)
	if err != nil {
		log.Fatal("creating telegram bot: ", err)
	}
	defer tgBot.Stop()

	if err = tgBot.Start(); err != nil {
		lg.Error("telegram bot stopped", sl.Err(err))
	}
}
