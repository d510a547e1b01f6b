package routes

import (
	"calibration-app/services"

	"github.com/gofiber/fiber/v2"
)

func settingsRoutes(c Controllers) []Route {
	return []Route{
		{fiber.MethodGet, "/series", services.PageSeries, c.Series.GetAll},
		{fiber.MethodPost, "/series", services.PageSeries, c.Series.Create},
		{fiber.MethodPut, "/series/:id", services.PageSeries, c.Series.Update},
	}
}
