package config

import (
	"os"
	"strconv"
	"strings"

	applog "storefront/internal/log"
)

type Config struct {
	Port         string
	DBDriver     string
	DBDSN        string
	LogFile      string
	LogLevel     string
	RateLimitMax int
	SeedDemo     bool
	Kafka        KafkaConfig
}

type KafkaConfig struct {
	Brokers      []string
	ProductTopic string
	OrderTopic   string
}

// Enabled reports whether a broker list was configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

func Load() Config {
	cfg := Config{
		Port:         env("PORT", "8080"),
		DBDriver:     env("DB_DRIVER", "sqlite"),
		DBDSN:        env("DB_DSN", "storefront.db"), // sqlite file in project root
		LogFile:      os.Getenv("LOG_FILE"),
		LogLevel:     env("LOG_LEVEL", "info"),
		RateLimitMax: envInt("RATE_LIMIT_MAX", 120),
		SeedDemo:     envBool("SEED_DEMO", false),
		Kafka: KafkaConfig{
			Brokers:      splitList(os.Getenv("KAFKA_BROKERS")),
			ProductTopic: env("KAFKA_PRODUCT_TOPIC", "storefront.product.events"),
			OrderTopic:   env("KAFKA_ORDER_TOPIC", "storefront.order.events"),
		},
	}
	applog.Component("config").WithFields(map[string]any{
		"port":       cfg.Port,
		"db_driver":  cfg.DBDriver,
		"log_file":   cfg.LogFile,
		"log_level":  cfg.LogLevel,
		"rate_limit": cfg.RateLimitMax,
		"seed_demo":  cfg.SeedDemo,
		"kafka":      cfg.Kafka.Brokers,
	}).Info("config loaded")
	return cfg
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		applog.Component("config").WithField("key", key).Warnf("ignoring invalid value %q", raw)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		applog.Component("config").WithField("key", key).Warnf("ignoring invalid value %q", raw)
		return def
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
