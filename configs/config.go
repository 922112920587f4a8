package configs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jiten398/single-checkout-flow/internal/entity"
)

const envPrefix = "CHECKOUT_"

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout    time.Duration `koanf:"read_timeout"`
		WriteTimeout   time.Duration `koanf:"write_timeout"`
		IdleTimeout    time.Duration `koanf:"idle_timeout"`
		RequestTimeout time.Duration `koanf:"request_timeout"`
	} `koanf:"http"`

	Store struct {
		Driver string `koanf:"driver"` // mysql | postgres | mongo
	} `koanf:"store"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Postgres struct {
		DSN      string `koanf:"dsn"`
		MaxConns int32  `koanf:"max_conns"`
	} `koanf:"postgres"`

	Mongo struct {
		URI        string `koanf:"uri"`
		Database   string `koanf:"database"`
		Collection string `koanf:"collection"`
	} `koanf:"mongo"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`

	Cache struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"cache"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Rabbit struct {
		URL        string `koanf:"url"`
		Exchange   string `koanf:"exchange"`
		RoutingKey string `koanf:"routing_key"`
		Queue      string `koanf:"queue"`
		Prefetch   int    `koanf:"prefetch"`
		// DropFailed nacks failed deliveries without requeue.
		DropFailed bool `koanf:"drop_failed"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Enabled     bool     `koanf:"enabled"`
		Brokers     []string `koanf:"brokers"`
		TopicOrders string   `koanf:"topic_orders"`
		GroupID     string   `koanf:"group_id"`
	} `koanf:"kafka"`

	Mail struct {
		Host     string        `koanf:"host"`
		Port     int           `koanf:"port"`
		Username string        `koanf:"username"`
		Password string        `koanf:"password"`
		From     string        `koanf:"from"`
		Timeout  time.Duration `koanf:"timeout"`
	} `koanf:"mail"`

	Notify struct {
		Mode    string        `koanf:"mode"`   // direct | queue | none
		Source  string        `koanf:"source"` // worker input: rabbitmq | kafka
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"notify"`

	Product entity.Product `koanf:"product"`

	Checkout struct {
		ApprovedDelay time.Duration `koanf:"approved_delay"`
	} `koanf:"checkout"`
}

const (
	NotifyDirect = "direct"
	NotifyQueue  = "queue"
	NotifyNone   = "none"

	SourceRabbit = "rabbitmq"
	SourceKafka  = "kafka"
)

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix CHECKOUT_, nested with __)
	// e.g. CHECKOUT_MYSQL__DSN, CHECKOUT_MAIL__PASSWORD
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.App.HTTPAddr == "" {
		errs = append(errs, errors.New("app.http_addr required"))
	}

	switch c.Store.Driver {
	case "mysql":
		if c.MySQL.DSN == "" {
			errs = append(errs, errors.New("mysql.dsn required"))
		}
	case "postgres":
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("postgres.dsn required"))
		}
	case "mongo":
		if c.Mongo.URI == "" || c.Mongo.Database == "" || c.Mongo.Collection == "" {
			errs = append(errs, errors.New("mongo.uri, mongo.database and mongo.collection required"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver %q: want mysql, postgres or mongo", c.Store.Driver))
	}

	switch c.Notify.Mode {
	case NotifyDirect:
		if c.Mail.Host == "" {
			errs = append(errs, errors.New("mail.host required for notify.mode=direct"))
		}
	case NotifyQueue:
		if c.Rabbit.URL == "" || c.Rabbit.Exchange == "" || c.Rabbit.Queue == "" {
			errs = append(errs, errors.New("rabbitmq.url, rabbitmq.exchange and rabbitmq.queue required for notify.mode=queue"))
		}
	case NotifyNone:
	default:
		errs = append(errs, fmt.Errorf("notify.mode %q: want direct, queue or none", c.Notify.Mode))
	}

	switch c.Notify.Source {
	case "", SourceRabbit, SourceKafka:
	default:
		errs = append(errs, fmt.Errorf("notify.source %q: want rabbitmq or kafka", c.Notify.Source))
	}

	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.TopicOrders == "") {
		errs = append(errs, errors.New("kafka.brokers and kafka.topic_orders required when kafka.enabled"))
	}

	if c.Product.Name == "" || c.Product.Price <= 0 {
		errs = append(errs, errors.New("product.name and a positive product.price required"))
	}
	if len(c.Product.Colors) == 0 || len(c.Product.Sizes) == 0 {
		errs = append(errs, errors.New("product.colors and product.sizes required"))
	}
	return errors.Join(errs...)
}
