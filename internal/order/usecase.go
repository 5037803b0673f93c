package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"checkout-relay/internal/auth"
	"checkout-relay/internal/events"
	"checkout-relay/internal/models"
	"checkout-relay/internal/paypal"
	"checkout-relay/internal/telemetry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var ErrUpstreamOrder = errors.New("upstream order response is incomplete")

const correlationParam = "correlationToken"

type Redirects struct {
	ReturnURL string
	CancelURL string
}

type UseCase struct {
	tokens    auth.TokenSource
	client    *paypal.Client
	publisher events.Publisher
	redirects Redirects
	metrics   *telemetry.Metrics
	log       *zap.Logger
	tracer    trace.Tracer
}

func NewUseCase(tokens auth.TokenSource, client *paypal.Client, publisher events.Publisher, redirects Redirects, metrics *telemetry.Metrics, log *zap.Logger, tracer trace.Tracer) *UseCase {
	return &UseCase{
		tokens:    tokens,
		client:    client,
		publisher: publisher,
		redirects: redirects,
		metrics:   metrics,
		log:       log,
		tracer:    tracer,
	}
}

func (uc *UseCase) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.CreatedOrder, error) {
	ctx, span := uc.tracer.Start(ctx, "CreateOrder",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("order.currency", req.Currency),
			attribute.String("order.amount", req.Amount),
		),
	)
	defer span.End()

	created, err := uc.createOrder(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.metrics.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", created.OrderID))
	span.SetStatus(codes.Ok, "")
	uc.metrics.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "ok")))
	uc.log.Info("order created",
		zap.String("order_id", created.OrderID),
		zap.String("currency", req.Currency),
		zap.String("amount", req.Amount),
	)
	return created, nil
}

func (uc *UseCase) createOrder(ctx context.Context, req models.OrderRequest) (*models.CreatedOrder, error) {
	token, err := uc.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	correlationToken, err := newCorrelationToken()
	if err != nil {
		return nil, err
	}

	returnURL, err := withQueryParam(uc.redirects.ReturnURL, correlationParam, correlationToken)
	if err != nil {
		return nil, err
	}

	body := paypal.OrderRequest{
		Intent: paypal.IntentCapture,
		PurchaseUnits: []paypal.PurchaseUnit{{
			Amount: paypal.Amount{CurrencyCode: req.Currency, Value: req.Amount},
			Payee:  paypal.Payee{EmailAddress: req.PayeeEmail},
		}},
		ApplicationContext: paypal.ApplicationContext{
			ReturnURL: returnURL,
			CancelURL: uc.redirects.CancelURL,
		},
	}

	resp, err := uc.client.CreateOrder(ctx, token, uuid.NewString(), body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		uc.tokens.Invalidate()
	}

	order, err := parseOrder(resp)
	if err != nil {
		return nil, err
	}
	approve, _ := order.FindLink(paypal.RelApprove)

	uc.publish(ctx, order.ID, events.OrderCreated(order.ID, order.Status, correlationToken))

	return &models.CreatedOrder{
		OrderID:          order.ID,
		ApproveLink:      approve.Href,
		CorrelationToken: correlationToken,
	}, nil
}

// parseOrder accepts the response only when it carries an id and an approve
// link; anything less is reported as ErrUpstreamOrder.
func parseOrder(resp *paypal.Response) (*paypal.Order, error) {
	var order paypal.Order
	if err := json.Unmarshal(resp.Body, &order); err != nil {
		return nil, fmt.Errorf("%w: status %d, undecodable body: %v", ErrUpstreamOrder, resp.StatusCode, err)
	}
	if len(order.Links) == 0 {
		return nil, fmt.Errorf("%w: status %d, response has no links", ErrUpstreamOrder, resp.StatusCode)
	}
	approve, ok := order.FindLink(paypal.RelApprove)
	if !ok || approve.Href == "" {
		return nil, fmt.Errorf("%w: status %d, response has no approve link", ErrUpstreamOrder, resp.StatusCode)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: status %d, response has no order id", ErrUpstreamOrder, resp.StatusCode)
	}
	return &order, nil
}

func (uc *UseCase) publish(ctx context.Context, key string, event models.OrderEvent) {
	if err := uc.publisher.Publish(ctx, key, event); err != nil {
		uc.log.Warn("failed to publish order event",
			zap.String("order_id", key),
			zap.String("event_type", event.Type),
			zap.Error(err),
		)
	}
}

func withQueryParam(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid return url %q: %w", rawURL, err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
