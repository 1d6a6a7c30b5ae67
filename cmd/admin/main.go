package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"aurachat/backend/internal/access"
	"aurachat/backend/internal/aura"
	"aurachat/backend/internal/config"
	"aurachat/backend/internal/feedback"
	"aurachat/backend/internal/logger"
	"aurachat/backend/internal/metrics"
	"aurachat/backend/internal/models"
	"aurachat/backend/internal/storage"

	"github.com/sirupsen/logrus"
)

const usage = `Usage: admin <command> [args]

Commands:
  ban <user_id> <reason>
  unban <user_id>
  verify <user_id> <VERIFIED|REJECTED>
  report-status <report_id> <OPEN|UNDER_REVIEW|CLOSED|REJECTED>
  recalc <user_id|all>
  link-telegram <user_id> <chat_id>`

type admin struct {
	store    storage.Storage
	gate     *access.Gate
	aura     *aura.Engine
	feedback *feedback.Service
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := storage.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	// Redis is optional for the CLI.
	rdb, err := storage.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, ban cache will not be refreshed")
		rdb = nil
	}

	store := storage.NewStorageService(db, rdb)
	gate := access.NewGate(store, cfg.BanCacheTTL, log)
	engine := aura.NewEngine(store, metrics.NewNop(), log)
	a := &admin{
		store:    store,
		gate:     gate,
		aura:     engine,
		feedback: feedback.NewService(store, gate, engine, log),
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.WithError(err).Fatal(os.Args[1] + " failed")
	}
}

func (a *admin) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "ban":
		if len(args) < 2 {
			return usageError("ban <user_id> <reason>")
		}
		if err := a.gate.Ban(ctx, args[0], "admin-cli", strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Printf("User %s has been banned.\n", args[0])

	case "unban":
		if len(args) != 1 {
			return usageError("unban <user_id>")
		}
		if err := a.gate.Unban(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("User %s has been unbanned.\n", args[0])

	case "verify":
		if len(args) != 2 {
			return usageError("verify <user_id> <VERIFIED|REJECTED>")
		}
		status := models.VerificationStatus(strings.ToUpper(args[1]))
		if err := a.gate.ReviewVerification(ctx, args[0], status); err != nil {
			return err
		}
		if _, err := a.aura.Recalculate(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Verification of %s set to %s.\n", args[0], status)

	case "report-status":
		if len(args) != 2 {
			return usageError("report-status <report_id> <STATUS>")
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid report ID %q", args[0])
		}
		status := models.ReportStatus(strings.ToUpper(args[1]))
		if err := a.feedback.SetReportStatus(ctx, uint(id), status); err != nil {
			return err
		}
		fmt.Printf("Report %d moved to %s.\n", id, status)

	case "recalc":
		if len(args) != 1 {
			return usageError("recalc <user_id|all>")
		}
		if args[0] == "all" {
			n, err := a.aura.RecalculateAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Recalculated aura for %d users.\n", n)
			return nil
		}
		b, err := a.aura.Breakdown(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Aura of %s: %d (%s)\n", args[0], b.Total, b.Tier.Name)

	case "link-telegram":
		if len(args) != 2 {
			return usageError("link-telegram <user_id> <chat_id>")
		}
		chatID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid chat ID %q", args[1])
		}
		if err := a.store.SetTelegramChatID(ctx, args[0], chatID); err != nil {
			return err
		}
		fmt.Printf("User %s will be notified in Telegram chat %d.\n", args[0], chatID)

	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}
	return nil
}

func usageError(cmd string) error {
	return fmt.Errorf("usage: admin %s", cmd)
}
