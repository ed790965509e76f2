package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/GlebRadaev/coinreport/internal/app"
	"github.com/rs/zerolog/log"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := app.New()
	if err := app.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Can't start application")
		zap.L().Error("Can't start application", zap.Error(err))
		cancel()
		os.Exit(1)
	}

	results := app.Run(ctx)

	zap.L().Info("run finished", zap.Int("accounts", len(results)))
	_ = zap.L().Sync()
}
