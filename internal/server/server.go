package server

import (
	"checkout-relay/internal/order"
	"checkout-relay/internal/payment"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
)

// New wires the relay routes onto a fiber app with server-side tracing.
func New(orders *order.Controller, payments *payment.Controller) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(otelfiber.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Post("/create-order", orders.Create)
	app.Post("/capture-order", payments.Capture)

	return app
}
