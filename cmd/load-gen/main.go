package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout-relay/internal/config"
	"checkout-relay/internal/models"
	"checkout-relay/internal/telemetry"

	"go.uber.org/zap"
)

var currencies = []string{"USD", "EUR", "GBP", "BRL"}

var payees = []string{
	"sb-merchant1@business.example.com",
	"sb-merchant2@business.example.com",
}

func orderAPIAddr() string {
	if v := os.Getenv("ORDER_API_ADDR"); v != "" {
		return v
	}
	return "http://localhost:3000"
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, _, _, shutdown, err := telemetry.Setup(ctx, "load-gen", config.LoadTelemetry())
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer shutdown(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down load-gen...")
		cancel()
	}()

	interval := 2 * time.Second
	if v := os.Getenv("INTERVAL_MS"); v != "" {
		if ms, err := time.ParseDuration(v + "ms"); err == nil {
			interval = ms
		}
	}

	addr := orderAPIAddr()
	client := &http.Client{Timeout: 30 * time.Second}

	log.Info("load-gen started",
		zap.String("target", addr),
		zap.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			createOrder(ctx, client, addr, log)
		}
	}
}

func createOrder(ctx context.Context, client *http.Client, addr string, log *zap.Logger) {
	req := models.OrderRequest{
		Amount:     fmt.Sprintf("%d.%02d", 1+rand.IntN(500), rand.IntN(100)),
		Currency:   currencies[rand.IntN(len(currencies))],
		PayeeEmail: payees[rand.IntN(len(payees))],
	}
	body, _ := json.Marshal(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, addr+"/create-order", bytes.NewReader(body))
	if err != nil {
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("create-order failed",
			zap.String("amount", req.Amount),
			zap.String("currency", req.Currency),
			zap.Int("http_status", resp.StatusCode),
		)
		return
	}

	var created models.CreatedOrder
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		log.Warn("undecodable create-order response", zap.Error(err))
		return
	}

	log.Info("order created",
		zap.String("order_id", created.OrderID),
		zap.String("approve_link", created.ApproveLink),
		zap.String("amount", req.Amount),
		zap.String("currency", req.Currency),
	)
}
