package routes

import (
	"calibration-app/services"

	"github.com/gofiber/fiber/v2"
)

func authRoutes(c Controllers) []Route {
	return []Route{
		{fiber.MethodGet, "/auth/profile", services.PageProfile, c.Auth.Profile},
		{fiber.MethodGet, "/dashboard", services.PageDashboard, c.Dashboard.GetDashboard},
	}
}
