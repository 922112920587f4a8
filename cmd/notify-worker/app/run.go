package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jiten398/single-checkout-flow/configs"
	"github.com/jiten398/single-checkout-flow/internal/adapter/kafka"
	"github.com/jiten398/single-checkout-flow/internal/adapter/queue"
	"github.com/jiten398/single-checkout-flow/internal/bootstrap"
	"github.com/jiten398/single-checkout-flow/internal/logging"
)

// Run consumes order.placed events from notify.source and emails the
// customer until ctx is cancelled.
func Run(ctx context.Context, cfg configs.Config) error {
	log := logging.New("notify-worker")
	cl := &bootstrap.Closers{}
	defer cl.Close()

	m, err := bootstrap.OpenMailer(cfg)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	h := queue.NewOrderPlacedHandler(m)

	switch cfg.Notify.Source {
	case configs.SourceRabbit, "":
		ch, topo, err := bootstrap.OpenRabbit(cfg, cl)
		if err != nil {
			return err
		}
		opts := []queue.RouterOption{}
		if cfg.Rabbit.Prefetch > 0 {
			opts = append(opts, queue.WithPrefetch(cfg.Rabbit.Prefetch))
		}
		if cfg.Notify.Timeout > 0 {
			opts = append(opts, queue.WithTimeout(cfg.Notify.Timeout))
		}
		if cfg.Rabbit.DropFailed {
			opts = append(opts, queue.WithRequeue(false))
		}
		router := queue.NewRouter(ch, opts...)
		router.Register(topo.Queue, queue.DecodeJSON(h.Handle))
		if err := router.Start(ctx); err != nil {
			return err
		}
		log.Info("consuming", "source", configs.SourceRabbit, "queue", topo.Queue)

		<-ctx.Done()
		// closing the channel ends the delivery streams
		cl.Close()
		router.Wait()
		return nil

	case configs.SourceKafka:
		grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
		if err != nil {
			return fmt.Errorf("kafka group: %w", err)
		}
		cl.Add(func() { _ = grp.Close() })

		consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.TopicOrders}, h.Handle)
		log.Info("consuming", "source", configs.SourceKafka, "topic", cfg.Kafka.TopicOrders)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
	return fmt.Errorf("%w: %q", bootstrap.ErrNoSource, cfg.Notify.Source)
}
