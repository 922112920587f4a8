package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jiten398/single-checkout-flow/configs"
	"github.com/jiten398/single-checkout-flow/internal/adapter/cache"
	httpadapter "github.com/jiten398/single-checkout-flow/internal/adapter/http"
	"github.com/jiten398/single-checkout-flow/internal/bootstrap"
	"github.com/jiten398/single-checkout-flow/internal/clock"
	"github.com/jiten398/single-checkout-flow/internal/logging"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

const shutdownTimeout = 20 * time.Second

type App struct {
	Server   *http.Server
	createUC *usecase.CreateOrder
	closers  *bootstrap.Closers
	log      *slog.Logger
}

// InitWithConfig opens every handle the API needs. On error, whatever was
// already opened is closed.
func InitWithConfig(ctx context.Context, cfg configs.Config) (_ *App, err error) {
	log := logging.New("order-api")
	cl := &bootstrap.Closers{}
	defer func() {
		if err != nil {
			cl.Close()
		}
	}()

	orderRepo, err := bootstrap.OpenStore(ctx, cfg, cl)
	if err != nil {
		return nil, err
	}
	log.Info("order store ready", "driver", cfg.Store.Driver)

	rdb, err := bootstrap.OpenRedis(ctx, cfg, cl)
	if err != nil {
		return nil, err
	}

	notifier, err := bootstrap.BuildNotifier(cfg, cl)
	if err != nil {
		return nil, err
	}

	opts := []usecase.CreateOrderOption{usecase.WithNotifyTimeout(cfg.Notify.Timeout)}
	var orderCache usecase.OrderCache
	if rdb != nil {
		c := cache.NewRedisOrderCache(rdb, cfg.Cache.TTL)
		orderCache = c
		opts = append(opts,
			usecase.WithCache(c),
			usecase.WithIdempotency(cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)),
		)
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}

	createUC := usecase.NewCreateOrder(orderRepo, clock.NewSystem(), opts...)
	getUC := usecase.NewGetOrder(orderRepo, orderCache)

	router := httpadapter.NewRouter(httpadapter.Handlers{
		Orders:  httpadapter.NewOrderHandler(createUC, getUC, cfg.HTTP.RequestTimeout),
		Product: httpadapter.NewProductHandler(cfg.Product),
		Status:  httpadapter.NewStatusHandler(getUC, cfg.HTTP.RequestTimeout),
	}, logging.New("http"))

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	return &App{Server: srv, createUC: createUC, closers: cl, log: log}, nil
}

// Run serves until ctx is cancelled, then drains requests, waits for
// in-flight notifications and closes the store, cache and broker handles.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(sctx); err != nil {
		a.log.Error("http shutdown", "err", err)
	}
	if err := a.createUC.Wait(sctx); err != nil {
		a.log.Warn("notifications still in flight at shutdown", "err", err)
	}
	a.closers.Close()
	a.log.Info("stopped")
	return serveErr
}
