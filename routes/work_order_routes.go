package routes

import (
	"calibration-app/services"

	"github.com/gofiber/fiber/v2"
)

// Lifecycle actions live on the page of the stage they belong to; the
// action follows from the verb like every other route.
func workOrderRoutes(c Controllers) []Route {
	wo := c.WorkOrders
	return []Route{
		{fiber.MethodGet, "/work-orders", services.PageWorkOrders, wo.GetWorkOrders},
		{fiber.MethodGet, "/work-orders/export", services.PageWorkOrders, wo.ExportExcel},
		{fiber.MethodPost, "/work-orders", services.PageWorkOrders, wo.CreateWorkOrder},
		{fiber.MethodGet, "/work-orders/:id", services.PageWorkOrders, wo.GetWorkOrderByID},
		{fiber.MethodPut, "/work-orders/:id", services.PageWorkOrders, wo.UpdateWorkOrder},
		{fiber.MethodDelete, "/work-orders/:id", services.PageWorkOrders, wo.DeleteWorkOrder},
		{fiber.MethodGet, "/work-orders/:id/history", services.PageWorkOrders, wo.GetHistory},

		{fiber.MethodPost, "/work-orders/:id/advance", services.PageJobExecution, wo.Advance},
		{fiber.MethodPut, "/work-orders/:id/items/:itemId", services.PageProcessingWorkOrders, wo.UpdateItem},
		{fiber.MethodPost, "/work-orders/:id/items/:itemId/certificate", services.PageProcessingWorkOrders, wo.UploadCertificate},
		{fiber.MethodPost, "/work-orders/:id/move-to-approval", services.PageProcessingWorkOrders, wo.MoveToApproval},
		{fiber.MethodPost, "/work-orders/:id/approve", services.PageManagerApproval, wo.Approve},
		{fiber.MethodPost, "/work-orders/:id/decline", services.PageManagerApproval, wo.Decline},
		{fiber.MethodPost, "/work-orders/:id/resubmit", services.PageDeclinedWorkOrders, wo.Resubmit},
		{fiber.MethodPost, "/work-orders/:id/deliveries", services.PageDelivery, wo.InitiateDelivery},
		{fiber.MethodPost, "/work-orders/:id/close", services.PagePostJobPhase, wo.Close},
		{fiber.MethodPut, "/work-orders/:id/invoice", services.PagePendingInvoices, wo.UpdateInvoice},
	}
}
