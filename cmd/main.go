package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aurachat/backend/internal/config"
	"aurachat/backend/internal/logger"
	"aurachat/backend/internal/notify"
	"aurachat/backend/internal/server"
	"aurachat/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("Starting AuraChat backend...")

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	if err := storage.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	rdb, err := storage.OpenRedis(pingCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("redis unavailable")
	}
	defer rdb.Close()

	log.Info("Database and Redis connections established, migrations complete.")
	store := storage.NewStorageService(db, rdb)

	var notifier notify.Notifier = notify.Nop{}
	if cfg.TelegramBotToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramBotToken, store, log)
		if err != nil {
			log.WithError(err).Fatal("telegram notifier")
		}
		notifier = tg
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN is not set, offline notifications are disabled")
	}

	srv := server.New(cfg, store, log, server.Options{Notifier: notifier})
	if err := srv.Run(ctx); err != nil {
		log.WithError(err).Fatal("server stopped with error")
	}
	log.Info("server stopped")
}
