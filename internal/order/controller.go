package order

import (
	"regexp"
	"strconv"
	"strings"

	"checkout-relay/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	amountPattern   = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

type Controller struct {
	useCase *UseCase
	log     *zap.Logger
	tracer  trace.Tracer
}

func NewController(useCase *UseCase, log *zap.Logger, tracer trace.Tracer) *Controller {
	return &Controller{useCase: useCase, log: log, tracer: tracer}
}

func (ct *Controller) Create(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.CreateOrder",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	var req models.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if msg := validate(&req); msg != "" {
		span.SetStatus(codes.Error, msg)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	order, err := ct.useCase.CreateOrder(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.log.Error("failed to create order", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create order"})
	}

	span.SetStatus(codes.Ok, "")
	return c.Status(fiber.StatusOK).JSON(order)
}

func validate(req *models.OrderRequest) string {
	req.Amount = strings.TrimSpace(req.Amount)
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	req.PayeeEmail = strings.TrimSpace(req.PayeeEmail)

	if req.Amount == "" || req.Currency == "" || req.PayeeEmail == "" {
		return "amount, currency and payeeEmail are required"
	}
	if !amountPattern.MatchString(req.Amount) {
		return "amount must be a decimal with at most two fraction digits"
	}
	if v, err := strconv.ParseFloat(req.Amount, 64); err != nil || v <= 0 {
		return "amount must be positive"
	}
	if !currencyPattern.MatchString(req.Currency) {
		return "currency must be a three-letter ISO 4217 code"
	}
	if !strings.Contains(req.PayeeEmail, "@") {
		return "payeeEmail must be an email address"
	}
	return ""
}
