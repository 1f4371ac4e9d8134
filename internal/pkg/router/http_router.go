package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hullsync/chargebee-connector/app/controllers"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Post("/fetch/:objecttype/:mode", controllers.HandleFetch)
	app.Get("/status", controllers.HandleStatus)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
