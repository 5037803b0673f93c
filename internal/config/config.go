package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const SandboxBaseURL = "https://api-m.sandbox.paypal.com"

type Config struct {
	PayPal    PayPalConfig
	Server    ServerConfig
	Kafka     KafkaConfig
	Telemetry TelemetryConfig
}

// PayPalConfig holds the upstream credentials and redirect targets.
// Missing credentials are not a load error: the service starts and every
// token request fails until it is redeployed with them.
type PayPalConfig struct {
	ClientID  string
	Secret    string
	BaseURL   string
	ReturnURL string
	CancelURL string
	// Timeout of zero means outbound calls wait until upstream answers.
	Timeout time.Duration
}

type ServerConfig struct {
	Port string
}

func (s ServerConfig) Address() string {
	return ":" + s.Port
}

type KafkaConfig struct {
	Broker      string
	EventsTopic string
	// Events wait in a bounded queue; a full queue drops new events.
	QueueSize      int
	PublishTimeout time.Duration
}

// Enabled reports whether order events should be published.
func (k KafkaConfig) Enabled() bool {
	return k.Broker != ""
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PAYPAL_BASE_URL", SandboxBaseURL)
	v.SetDefault("PORT", "3000")
	v.SetDefault("RETURN_URL", "http://localhost:3000/success")
	v.SetDefault("CANCEL_URL", "http://localhost:3000/cancel")
	v.SetDefault("UPSTREAM_TIMEOUT", time.Duration(0))
	v.SetDefault("ORDER_EVENTS_TOPIC", "order-events")
	v.SetDefault("EVENT_QUEUE_SIZE", 256)
	v.SetDefault("EVENT_PUBLISH_TIMEOUT", 5*time.Second)
	setTelemetryDefaults(v)

	cfg := &Config{
		PayPal: PayPalConfig{
			ClientID:  v.GetString("PAYPAL_CLIENT_ID"),
			Secret:    v.GetString("PAYPAL_SECRET"),
			BaseURL:   strings.TrimRight(v.GetString("PAYPAL_BASE_URL"), "/"),
			ReturnURL: v.GetString("RETURN_URL"),
			CancelURL: v.GetString("CANCEL_URL"),
			Timeout:   v.GetDuration("UPSTREAM_TIMEOUT"),
		},
		Server: ServerConfig{
			Port: v.GetString("PORT"),
		},
		Kafka: KafkaConfig{
			Broker:         v.GetString("KAFKA_BROKER"),
			EventsTopic:    v.GetString("ORDER_EVENTS_TOPIC"),
			QueueSize:      v.GetInt("EVENT_QUEUE_SIZE"),
			PublishTimeout: v.GetDuration("EVENT_PUBLISH_TIMEOUT"),
		},
		Telemetry: telemetryConfig(v),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTelemetry reads only the telemetry settings, for tools that need no
// PayPal or Kafka configuration.
func LoadTelemetry() TelemetryConfig {
	v := viper.New()
	v.AutomaticEnv()
	setTelemetryDefaults(v)
	return telemetryConfig(v)
}

func setTelemetryDefaults(v *viper.Viper) {
	v.SetDefault("TELEMETRY_ENABLED", true)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
}

func telemetryConfig(v *viper.Viper) TelemetryConfig {
	return TelemetryConfig{
		Enabled:      v.GetBool("TELEMETRY_ENABLED"),
		OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func validate(cfg *Config) error {
	var errs []string

	urls := []struct{ name, raw string }{
		{"PAYPAL_BASE_URL", cfg.PayPal.BaseURL},
		{"RETURN_URL", cfg.PayPal.ReturnURL},
		{"CANCEL_URL", cfg.PayPal.CancelURL},
	}
	for _, e := range urls {
		u, err := url.Parse(e.raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("%s must be an absolute URL, got %q", e.name, e.raw))
		}
	}
	if cfg.Server.Port == "" {
		errs = append(errs, "PORT must not be empty")
	}
	if cfg.PayPal.Timeout < 0 {
		errs = append(errs, "UPSTREAM_TIMEOUT must not be negative")
	}
	if cfg.Kafka.Enabled() && cfg.Kafka.EventsTopic == "" {
		errs = append(errs, "ORDER_EVENTS_TOPIC is required when KAFKA_BROKER is set")
	}
	if cfg.Kafka.QueueSize <= 0 {
		errs = append(errs, "EVENT_QUEUE_SIZE must be positive")
	}
	if cfg.Kafka.PublishTimeout <= 0 {
		errs = append(errs, "EVENT_PUBLISH_TIMEOUT must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
