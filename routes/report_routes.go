package routes

import (
	"calibration-app/services"

	"github.com/gofiber/fiber/v2"
)

func reportRoutes(c Controllers) []Route {
	return []Route{
		{fiber.MethodGet, "/reports/due-dates", services.PageDueDateReports, c.Reports.DueDates},
		{fiber.MethodGet, "/reports/due-dates/export", services.PageDueDateReports, c.Reports.ExportDueDates},
	}
}
