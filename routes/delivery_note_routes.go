package routes

import (
	"calibration-app/services"

	"github.com/gofiber/fiber/v2"
)

func deliveryNoteRoutes(c Controllers) []Route {
	dn := c.DeliveryNotes
	return []Route{
		{fiber.MethodGet, "/delivery-notes", services.PagePendingDeliveries, dn.GetDeliveryNotes},
		{fiber.MethodPut, "/delivery-notes/items/:itemId/invoice", services.PagePendingInvoices, dn.UpdateItemInvoice},
		{fiber.MethodGet, "/delivery-notes/:id", services.PageDelivery, dn.GetDeliveryNoteByID},
		{fiber.MethodGet, "/delivery-notes/:id/history", services.PageDelivery, dn.GetHistory},
		{fiber.MethodPost, "/delivery-notes/:id/signed-note", services.PageDelivery, dn.UploadSignedNote},
	}
}
