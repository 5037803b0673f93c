package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"checkout-relay/internal/auth"
	"checkout-relay/internal/config"
	"checkout-relay/internal/events"
	"checkout-relay/internal/kafka"
	"checkout-relay/internal/order"
	"checkout-relay/internal/payment"
	"checkout-relay/internal/paypal"
	"checkout-relay/internal/server"
	"checkout-relay/internal/telemetry"

	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, tracer, meter, shutdown, err := telemetry.Setup(ctx, "checkout-api", cfg.Telemetry)
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer shutdown(context.Background())

	metrics, err := telemetry.NewMetrics(meter)
	if err != nil {
		panic("failed to create metrics: " + err.Error())
	}

	if cfg.PayPal.ClientID == "" || cfg.PayPal.Secret == "" {
		log.Warn("PAYPAL_CLIENT_ID or PAYPAL_SECRET is not set; every order request will fail")
	}

	var publisher events.Publisher = events.Discard{}
	if cfg.Kafka.Enabled() {
		if err := kafka.EnsureTopic(ctx, cfg.Kafka.Broker, cfg.Kafka.EventsTopic, 3, 1); err != nil {
			log.Warn("failed to ensure order events topic", zap.String("topic", cfg.Kafka.EventsTopic), zap.Error(err))
		}
		producer := kafka.NewProducer([]string{cfg.Kafka.Broker}, cfg.Kafka.EventsTopic)
		defer producer.Close()
		dispatcher := events.NewDispatcher(producer, cfg.Kafka.QueueSize, cfg.Kafka.PublishTimeout, metrics, log)
		// runs before producer.Close so queued events are flushed
		defer dispatcher.Close()
		publisher = dispatcher
	}

	client := paypal.NewClient(cfg.PayPal.BaseURL, cfg.PayPal.Timeout, metrics, tracer)
	tokens := auth.NewTokenCache(auth.Credentials{
		ClientID: cfg.PayPal.ClientID,
		Secret:   cfg.PayPal.Secret,
	}, client, metrics, log, tracer)

	orderUC := order.NewUseCase(tokens, client, publisher, order.Redirects{
		ReturnURL: cfg.PayPal.ReturnURL,
		CancelURL: cfg.PayPal.CancelURL,
	}, metrics, log, tracer)
	paymentUC := payment.NewUseCase(tokens, client, publisher, metrics, log, tracer)

	app := server.New(
		order.NewController(orderUC, log, tracer),
		payment.NewController(paymentUC, log, tracer),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down checkout-api...")
		_ = app.Shutdown()
		cancel()
	}()

	log.Info("checkout-api listening",
		zap.String("addr", cfg.Server.Address()),
		zap.String("upstream", cfg.PayPal.BaseURL),
		zap.Bool("order_events", cfg.Kafka.Enabled()),
	)
	if err := app.Listen(cfg.Server.Address()); err != nil {
		log.Error("server error", zap.Error(err))
	}
}
