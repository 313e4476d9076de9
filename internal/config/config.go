package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/lanchonete/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MustInit loads .env and config.yaml and installs the global logger.
// A missing .env is tolerated so that secrets can come from the real environment.
func MustInit() {
	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("error while loading .env file: " + err.Error())
	}

	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/lanchonete")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}
	SetupLogger()
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("server.http.port", "3000")
	viper.SetDefault("server.http.read_header_timeout", 5*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("postgres.max_conns", 10)
	viper.SetDefault("postgres.migrations_path", "./migrations")
	viper.SetDefault("redis.addr", "redis:6379")
	viper.SetDefault("redis.product_ttl", 5*time.Minute)
	viper.SetDefault("rabbitmq.events_queue", "orders.events")
	viper.SetDefault("rabbitmq.payments_queue", "payments.notifications")
	viper.SetDefault("rabbitmq.outbox.poll_interval_seconds", 5)
	viper.SetDefault("rabbitmq.outbox.batch_size", 100)
	viper.SetDefault("rabbitmq.outbox.retry_interval_seconds", 30)
	viper.SetDefault("rabbitmq.outbox.max_retries", 5)
	viper.SetDefault("payment.base_url", "https://api.mercadopago.com")
	viper.SetDefault("payment.timeout", 10*time.Second)
	viper.SetDefault("payment.default_payer_email", "cliente@lanchonete.local")
	viper.SetDefault("auth.issuer", "lanchonete")
	viper.SetDefault("auth.token_ttl", 24*time.Hour)
	viper.SetDefault("otel.service_name", "lanchonete")
	viper.SetDefault("otel.jaeger_endpoint", "http://jaeger:14268/api/traces")
}

func SetupLogger() {
	handler := logger.NewHandler(&slog.HandlerOptions{
		Level: logger.ParseLevel(viper.GetString("log.level")),
	})
	log := slog.New(handler)
	slog.SetDefault(log)
}
