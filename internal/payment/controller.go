package payment

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Controller struct {
	useCase *UseCase
	log     *zap.Logger
	tracer  trace.Tracer
}

func NewController(useCase *UseCase, log *zap.Logger, tracer trace.Tracer) *Controller {
	return &Controller{useCase: useCase, log: log, tracer: tracer}
}

type captureOrderRequest struct {
	OrderID string `json:"orderID"`
}

func (ct *Controller) Capture(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.CaptureOrder",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	var req captureOrderRequest
	if err := c.BodyParser(&req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	req.OrderID = strings.TrimSpace(req.OrderID)
	if req.OrderID == "" {
		span.SetStatus(codes.Error, "orderID is required")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "orderID is required"})
	}

	result, err := ct.useCase.CaptureOrder(ctx, req.OrderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.log.Error("failed to capture order", zap.String("order_id", req.OrderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to capture order"})
	}

	span.SetStatus(codes.Ok, "")
	contentType := result.ContentType
	if contentType == "" {
		contentType = fiber.MIMEApplicationJSON
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(result.StatusCode).Send(result.Body)
}
