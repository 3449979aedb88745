package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/EgorLis/Clashwatcher/internal/cocapi"
	"github.com/EgorLis/Clashwatcher/internal/config"
	"github.com/EgorLis/Clashwatcher/internal/monitor"
	"github.com/EgorLis/Clashwatcher/internal/telemetry"
	"github.com/EgorLis/Clashwatcher/internal/tgbot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err) // zap ещё не поднят
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("telegram auth failed", zap.Error(err))
	}
	logger.Info("authorized on telegram", zap.String("username", api.Self.UserName))

	coc := cocapi.New(cfg.CoCAPIKey, cfg.ClanTag, cfg.APIBase, logger)
	bot := tgbot.New(api, cfg.ChatID, coc.ClanTag(), logger)
	mon := monitor.New(coc, bot, cfg.PollInterval, logger)
	bot.SetState(mon)

	// служебный HTTP: liveness + метрики
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", telemetry.MetricsHandler())
	ops := &http.Server{Addr: cfg.OpsAddr, Handler: mux}
	go func() {
		if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go bot.Run(ctx)
	go mon.Run(ctx)

	logger.Info("running, press Ctrl+C to stop",
		zap.String("clan", coc.ClanTag()),
		zap.Duration("interval", cfg.PollInterval))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = ops.Shutdown(shutdownCtx)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
