package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"checkout-relay/internal/paypal"
	"checkout-relay/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	ErrAuthConfig   = errors.New("payment processor credentials are not configured")
	ErrAuthExchange = errors.New("token exchange failed")
)

// ExpiryMargin is subtracted from the upstream TTL so a token is never
// presented in its last minute of life.
const ExpiryMargin = 60 * time.Second

type Credentials struct {
	ClientID string
	Secret   string
}

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// TokenCache hands out a bearer token, refreshing it through a
// client-credentials exchange when it is absent or expired.
// Refreshes are serialised: concurrent callers that find the token
// expired share a single exchange.
type TokenCache struct {
	creds   Credentials
	client  *paypal.Client
	metrics *telemetry.Metrics
	log     *zap.Logger
	tracer  trace.Tracer
	now     func() time.Time

	mu     sync.Mutex
	cached *cachedToken
}

func NewTokenCache(creds Credentials, client *paypal.Client, metrics *telemetry.Metrics, log *zap.Logger, tracer trace.Tracer) *TokenCache {
	return &TokenCache{
		creds:   creds,
		client:  client,
		metrics: metrics,
		log:     log,
		tracer:  tracer,
		now:     time.Now,
	}
}

func (tc *TokenCache) Token(ctx context.Context) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.cached != nil && tc.now().Before(tc.cached.expiresAt) {
		tc.metrics.TokenCacheHits.Add(ctx, 1)
		return tc.cached.token, nil
	}

	fresh, err := tc.exchange(ctx)
	if err != nil {
		return "", err
	}
	tc.cached = fresh
	return fresh.token, nil
}

// Invalidate drops the cached token so the next call performs an exchange.
func (tc *TokenCache) Invalidate() {
	tc.mu.Lock()
	tc.cached = nil
	tc.mu.Unlock()
}

func (tc *TokenCache) exchange(ctx context.Context) (*cachedToken, error) {
	ctx, span := tc.tracer.Start(ctx, "TokenCache.Exchange",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	if tc.creds.ClientID == "" || tc.creds.Secret == "" {
		span.SetStatus(codes.Error, ErrAuthConfig.Error())
		tc.countExchange(ctx, "config_error")
		return nil, ErrAuthConfig
	}

	resp, err := tc.client.FetchToken(ctx, tc.creds.ClientID, tc.creds.Secret)
	if err != nil {
		return nil, tc.fail(ctx, span, fmt.Errorf("%w: %w", ErrAuthExchange, err))
	}

	var body paypal.TokenResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, tc.fail(ctx, span, fmt.Errorf("%w: status %d, undecodable body: %v", ErrAuthExchange, resp.StatusCode, err))
	}
	if body.AccessToken == "" {
		return nil, tc.fail(ctx, span, fmt.Errorf("%w: status %d, response has no access_token", ErrAuthExchange, resp.StatusCode))
	}

	ttl := time.Duration(body.ExpiresIn) * time.Second
	fresh := &cachedToken{
		token:     body.AccessToken,
		expiresAt: tc.now().Add(ttl - ExpiryMargin),
	}

	span.SetAttributes(attribute.Int64("token.expires_in", body.ExpiresIn))
	span.SetStatus(codes.Ok, "")
	tc.countExchange(ctx, "ok")
	tc.log.Info("access token refreshed",
		zap.Duration("ttl", ttl),
		zap.Time("expires_at", fresh.expiresAt),
	)

	return fresh, nil
}

func (tc *TokenCache) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	tc.countExchange(ctx, "error")
	tc.log.Error("token exchange failed", zap.Error(err))
	return err
}

func (tc *TokenCache) countExchange(ctx context.Context, status string) {
	tc.metrics.TokenExchanges.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// TokenSource is what the order and payment gateways need from the cache.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

var _ TokenSource = (*TokenCache)(nil)
