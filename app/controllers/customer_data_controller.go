package controllers

import (
	"github.com/gofiber/fiber/v2"
)

type customerDataRequest struct {
	CustomerID string `json:"customer_id"`
}

// HandleCustomerInvoices previews the aggregated invoice attributes one
// customer's history would write to its account.
func HandleCustomerInvoices(c *fiber.Ctx) error {
	return handleCustomerPreview(c, "invoices")
}

// HandleCustomerSubscriptions previews the slot-sampled subscription
// attributes one customer's history would write to its account.
func HandleCustomerSubscriptions(c *fiber.Ctx) error {
	return handleCustomerPreview(c, "subscriptions")
}

func handleCustomerPreview(c *fiber.Ctx, kind string) error {
	var req customerDataRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.CustomerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "customer_id is required"})
	}

	agent, err := newSyncAgent()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var attrs interface{}
	var count int
	switch kind {
	case "invoices":
		attrs, count, err = agent.InvoicePreview(c.Context(), req.CustomerID)
	default:
		attrs, count, err = agent.SubscriptionPreview(c.Context(), req.CustomerID)
	}
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"customer_id": req.CustomerID,
		"count":       count,
		"attributes":  attrs,
	})
}
