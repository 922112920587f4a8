// Package bootstrap opens the infrastructure handles named in the config and
// wires them into the ports the use cases consume.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jiten398/single-checkout-flow/configs"
	"github.com/jiten398/single-checkout-flow/internal/adapter/kafka"
	"github.com/jiten398/single-checkout-flow/internal/adapter/mailer"
	"github.com/jiten398/single-checkout-flow/internal/adapter/queue"
	"github.com/jiten398/single-checkout-flow/internal/adapter/repo"
	"github.com/jiten398/single-checkout-flow/internal/logging"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

const pingTimeout = 10 * time.Second

// Closers runs teardown funcs in reverse order of registration.
type Closers struct {
	fns []func()
}

func (c *Closers) Add(fn func()) { c.fns = append(c.fns, fn) }

func (c *Closers) Close() {
	for i := len(c.fns) - 1; i >= 0; i-- {
		c.fns[i]()
	}
	c.fns = nil
}

type schemaRepo interface {
	usecase.OrderRepo
	EnsureSchema(ctx context.Context) error
}

// OpenStore connects to the configured order store and makes sure the unique
// order id constraint exists.
func OpenStore(ctx context.Context, cfg configs.Config, cl *Closers) (usecase.OrderRepo, error) {
	var r schemaRepo

	switch cfg.Store.Driver {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			return nil, err
		}
		db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
		db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		cl.Add(func() { _ = db.Close() })

		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := db.PingContext(pctx); err != nil {
			return nil, fmt.Errorf("mysql ping: %w", err)
		}
		r = repo.NewMySQLOrderRepo(db)

	case "postgres":
		pcfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("postgres dsn: %w", err)
		}
		if cfg.Postgres.MaxConns > 0 {
			pcfg.MaxConns = cfg.Postgres.MaxConns
		}
		pool, err := pgxpool.NewWithConfig(ctx, pcfg)
		if err != nil {
			return nil, err
		}
		cl.Add(pool.Close)

		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := pool.Ping(pctx); err != nil {
			return nil, fmt.Errorf("postgres ping: %w", err)
		}
		r = repo.NewPostgresOrderRepo(pool)

	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, err
		}
		cl.Add(func() {
			dctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		})

		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Ping(pctx, readpref.Primary()); err != nil {
			return nil, fmt.Errorf("mongo ping: %w", err)
		}
		r = repo.NewMongoOrderRepo(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	sctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := r.EnsureSchema(sctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return r, nil
}

// OpenRedis returns nil when no address is configured; the cache and
// idempotency features are then disabled.
func OpenRedis(ctx context.Context, cfg configs.Config, cl *Closers) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	cl.Add(func() { _ = rdb.Close() })

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// OpenRabbit dials the broker and declares the order topology.
func OpenRabbit(cfg configs.Config, cl *Closers) (*amqp.Channel, queue.Topology, error) {
	topo := queue.Topology{
		Exchange:   cfg.Rabbit.Exchange,
		RoutingKey: cfg.Rabbit.RoutingKey,
		Queue:      cfg.Rabbit.Queue,
	}
	conn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, topo, fmt.Errorf("rabbitmq dial: %w", err)
	}
	cl.Add(func() { _ = conn.Close() })

	ch, err := conn.Channel()
	if err != nil {
		return nil, topo, fmt.Errorf("rabbitmq channel: %w", err)
	}
	cl.Add(func() { _ = ch.Close() })

	if err := queue.Declare(ch, topo); err != nil {
		return nil, topo, err
	}
	return ch, topo, nil
}

func OpenMailer(cfg configs.Config) (*mailer.SMTPMailer, error) {
	return mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		Timeout:  cfg.Mail.Timeout,
	})
}

// BuildNotifier assembles the order notifiers for notify.mode plus the Kafka
// event stream when enabled. It returns nil when nothing is configured.
func BuildNotifier(cfg configs.Config, cl *Closers) (usecase.Notifier, error) {
	log := logging.New("bootstrap")
	var ns usecase.Notifiers

	switch cfg.Notify.Mode {
	case configs.NotifyDirect:
		m, err := OpenMailer(cfg)
		if err != nil {
			return nil, fmt.Errorf("mailer: %w", err)
		}
		ns = append(ns, m)
	case configs.NotifyQueue:
		ch, topo, err := OpenRabbit(cfg, cl)
		if err != nil {
			return nil, err
		}
		ns = append(ns, queue.NewRabbitProducer(ch, topo))
	case configs.NotifyNone:
	default:
		return nil, fmt.Errorf("unknown notify mode %q", cfg.Notify.Mode)
	}

	if cfg.Kafka.Enabled {
		p, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		cl.Add(func() { _ = p.Close() })
		ns = append(ns, kafka.NewOrderEventPublisher(p, cfg.Kafka.TopicOrders))
	}

	log.Info("notifiers configured", "mode", cfg.Notify.Mode, "kafka", cfg.Kafka.Enabled, "count", len(ns))
	switch len(ns) {
	case 0:
		return nil, nil
	case 1:
		return ns[0], nil
	}
	return ns, nil
}

// ErrNoSource is returned by the worker when notify.source has no consumer.
var ErrNoSource = errors.New("no notification source configured")
