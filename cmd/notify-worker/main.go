package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jiten398/single-checkout-flow/cmd/notify-worker/app"
	"github.com/jiten398/single-checkout-flow/configs"
	"github.com/jiten398/single-checkout-flow/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	cfg, err := configs.Load("configs", env)
	if err != nil {
		log.Fatal(err)
	}
	logging.Init(logging.Options{
		Component: "notify-worker",
		FilePath:  cfg.App.LogFile,
		Level:     cfg.App.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}
