package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores relational store connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Redis stores snapshot cache settings. An empty Addr disables the cache.
type Redis struct {
	Addr string
}

// Kafka stores notification sink settings. Empty brokers disable the sink.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Engine stores assignment engine tunables.
type Engine struct {
	OperationTimeout        time.Duration
	DisableMajorityOverride bool
}

// Config stores all service settings.
type Config struct {
	Port   int
	DB     DB
	Redis  Redis
	Kafka  Kafka
	Engine Engine
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{
		Port:   DefaultPort(),
		DB:     DefaultDB(),
		Redis:  DefaultRedis(),
		Kafka:  DefaultKafka(),
		Engine: DefaultEngine(),
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	overrideString(&cfg.DB.Host, "DB_HOST")
	overrideString(&cfg.DB.Port, "DB_PORT")
	overrideString(&cfg.DB.User, "DB_USER")
	overrideString(&cfg.DB.Pass, "DB_PASS")
	overrideString(&cfg.DB.Name, "DB_NAME")
	overrideString(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideString(&cfg.Kafka.Topic, "KAFKA_TOPIC")
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("DISABLE_MAJORITY_OVERRIDE"); v != "" {
		cfg.Engine.DisableMajorityOverride = v == "1" || strings.EqualFold(v, "true")
	}

	fs := pflag.NewFlagSet("consolidate", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	brokers := fs.String("kafka-brokers", strings.Join(cfg.Kafka.Brokers, ","), "comma-separated kafka brokers")
	fs.StringVar(&cfg.Kafka.Topic, "kafka-topic", cfg.Kafka.Topic, "notification topic")
	fs.StringVar(&cfg.Redis.Addr, "redis-addr", cfg.Redis.Addr, "redis address for the read cache")
	fs.BoolVar(&cfg.Engine.DisableMajorityOverride, "disable-majority-override", cfg.Engine.DisableMajorityOverride,
		"turn off the >50%-delivered order status heuristic")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Kafka.Brokers = splitList(*brokers)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Engine.OperationTimeout <= 0 {
		cfg.Engine.OperationTimeout = DefaultEngine().OperationTimeout
	}
	return cfg, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
