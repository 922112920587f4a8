package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jiten398/single-checkout-flow/cmd/order-api/app"
	"github.com/jiten398/single-checkout-flow/configs"
	"github.com/jiten398/single-checkout-flow/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV") // dev | staging | prod
	if env == "" {
		env = "dev"
	}

	cfg, err := configs.Load("configs", env)
	if err != nil {
		log.Fatal(err)
	}

	logging.Init(logging.Options{
		Component: "order-api",
		FilePath:  cfg.App.LogFile,
		Level:     cfg.App.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.InitWithConfig(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	logging.Base().Info("order-api starting", "env", env, "addr", cfg.App.HTTPAddr)
	if err := a.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
