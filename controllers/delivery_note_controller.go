package controllers

import (
	"calibration-app/services"
	"calibration-app/storage"

	"github.com/gofiber/fiber/v2"
)

type DeliveryNoteController struct {
	orders *services.WorkOrderService
	files  *storage.Local
}

func NewDeliveryNoteController(orders *services.WorkOrderService, files *storage.Local) *DeliveryNoteController {
	return &DeliveryNoteController{orders: orders, files: files}
}

func (c *DeliveryNoteController) GetDeliveryNotes(ctx *fiber.Ctx) error {
	notes, err := c.orders.ListDeliveryNotes(ctx.Query("delivery_status"))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": notes})
}

func (c *DeliveryNoteController) GetDeliveryNoteByID(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	dn, err := c.orders.GetDeliveryNote(id)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": dn})
}

func (c *DeliveryNoteController) GetHistory(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	rows, err := c.orders.DeliveryNoteHistory(id)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": rows})
}

// UploadSignedNote expects the signed copy as signed_delivery_note.
func (c *DeliveryNoteController) UploadSignedNote(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	file, err := ctx.FormFile("signed_delivery_note")
	if err != nil {
		return errorResponse(ctx, services.NewValidationError("signed_delivery_note", "required"))
	}
	path, err := saveUpload(c.files, file, "signed_delivery_note", "delivery_notes")
	if err != nil {
		return errorResponse(ctx, err)
	}

	dn, err := c.orders.UploadSignedNote(ctx.UserContext(), id, path, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Delivery note " + dn.DnNumber + " delivered", "data": dn})
}

func (c *DeliveryNoteController) UpdateItemInvoice(ctx *fiber.Ctx) error {
	itemID, err := paramID(ctx, "itemId")
	if err != nil {
		return errorResponse(ctx, err)
	}
	upd, err := invoiceUpdateFromRequest(ctx, c.files)
	if err != nil {
		return errorResponse(ctx, err)
	}

	line, err := c.orders.UpdateDeliveryItemInvoice(ctx.UserContext(), itemID, upd, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Invoice updated", "data": line})
}
