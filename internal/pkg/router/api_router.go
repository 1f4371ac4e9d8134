package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/hullsync/chargebee-connector/app/controllers"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	v1.Post("/customers/invoices", controllers.HandleCustomerInvoices)
	v1.Post("/customers/subscriptions", controllers.HandleCustomerSubscriptions)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
