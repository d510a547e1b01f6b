package routes

import (
	"calibration-app/services"

	"github.com/gofiber/fiber/v2"
)

func masterRoutes(c Controllers) []Route {
	return []Route{
		{fiber.MethodGet, "/items", services.PageItem, c.Master.GetItems},
		{fiber.MethodPost, "/items", services.PageItem, c.Master.CreateItem},
		{fiber.MethodPost, "/items/upload-excel", services.PageItem, c.Master.ImportItems},
		{fiber.MethodPut, "/items/:id", services.PageItem, c.Master.UpdateItem},

		{fiber.MethodGet, "/units", services.PageUnit, c.Master.GetUnits},
		{fiber.MethodPost, "/units", services.PageUnit, c.Master.CreateUnit},

		{fiber.MethodGet, "/technicians", services.PageTeam, c.Master.GetTechnicians},
		{fiber.MethodPost, "/technicians", services.PageTeam, c.Master.CreateTechnician},

		{fiber.MethodGet, "/purchase-orders", services.PagePurchaseOrders, c.Master.GetPurchaseOrders},
		{fiber.MethodPost, "/purchase-orders", services.PagePurchaseOrders, c.Master.CreatePurchaseOrder},

		{fiber.MethodGet, "/quotations", services.PageQuotation, c.Master.GetQuotations},
		{fiber.MethodPost, "/quotations", services.PageQuotation, c.Master.CreateQuotation},
	}
}
