package controllers

import (
	"calibration-app/services"
	"time"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	reports *services.ReportService
}

func NewDashboardController(reports *services.ReportService) *DashboardController {
	return &DashboardController{reports: reports}
}

func (c *DashboardController) GetDashboard(ctx *fiber.Ctx) error {
	summary, err := c.reports.Summary(time.Now())
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Dashboard found", "data": summary})
}
