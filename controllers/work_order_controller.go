package controllers

import (
	"calibration-app/repositories"
	"calibration-app/services"
	"calibration-app/storage"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type WorkOrderController struct {
	orders *services.WorkOrderService
	files  *storage.Local
}

func NewWorkOrderController(orders *services.WorkOrderService, files *storage.Local) *WorkOrderController {
	return &WorkOrderController{orders: orders, files: files}
}

func workOrderFilter(ctx *fiber.Ctx) repositories.WorkOrderFilter {
	return repositories.WorkOrderFilter{
		Status:          ctx.Query("status"),
		InvoiceStatus:   ctx.Query("invoice_status"),
		PurchaseOrderID: uint(ctx.QueryInt("purchase_order_id")),
		Search:          ctx.Query("search"),
	}
}

func (c *WorkOrderController) GetWorkOrders(ctx *fiber.Ctx) error {
	orders, err := c.orders.List(workOrderFilter(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": orders})
}

func (c *WorkOrderController) GetWorkOrderByID(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	wo, err := c.orders.Get(id)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": wo})
}

func (c *WorkOrderController) CreateWorkOrder(ctx *fiber.Ctx) error {
	var input services.WorkOrderInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}

	wo, err := c.orders.Create(ctx.UserContext(), input, actorID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Work order created successfully",
		"data":    wo,
	})
}

func (c *WorkOrderController) UpdateWorkOrder(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	var input services.WorkOrderInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}

	wo, err := c.orders.Update(ctx.UserContext(), id, input, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Work order updated successfully", "data": wo})
}

func (c *WorkOrderController) DeleteWorkOrder(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	if err := c.orders.Destroy(ctx.UserContext(), id, transitionOptions(ctx)); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Work order deleted successfully"})
}

func (c *WorkOrderController) UpdateItem(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	itemID, err := paramID(ctx, "itemId")
	if err != nil {
		return errorResponse(ctx, err)
	}
	var input services.ItemCalibrationInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	wo, err := c.orders.UpdateItem(ctx.UserContext(), id, itemID, input, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Item updated successfully", "data": wo})
}

func (c *WorkOrderController) UploadCertificate(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	itemID, err := paramID(ctx, "itemId")
	if err != nil {
		return errorResponse(ctx, err)
	}
	file, err := ctx.FormFile("certificate_file")
	if err != nil {
		return errorResponse(ctx, services.NewValidationError("certificate_file", "required"))
	}
	path, err := saveUpload(c.files, file, "certificate_file", "certificates")
	if err != nil {
		return errorResponse(ctx, err)
	}

	wo, err := c.orders.UpdateItem(ctx.UserContext(), id, itemID, services.ItemCalibrationInput{CertificateFile: &path}, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Certificate uploaded successfully", "data": wo})
}

func (c *WorkOrderController) Advance(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	var input struct {
		Status string `json:"status" validate:"required"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}

	wo, err := c.orders.Advance(ctx.UserContext(), id, input.Status, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Work order moved to " + wo.Status, "data": wo})
}

func (c *WorkOrderController) MoveToApproval(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	wo, err := c.orders.MoveToApproval(ctx.UserContext(), id, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Work order sent for manager approval", "data": wo})
}

func (c *WorkOrderController) Approve(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	wo, err := c.orders.Approve(ctx.UserContext(), id, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Work order approved", "data": wo})
}

func (c *WorkOrderController) Decline(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	var input struct {
		DeclineReason string `json:"decline_reason"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	wo, err := c.orders.Decline(ctx.UserContext(), id, input.DeclineReason, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Work order declined", "data": wo})
}

func (c *WorkOrderController) Resubmit(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	wo, err := c.orders.Resubmit(ctx.UserContext(), id, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Work order resubmitted for approval", "data": wo})
}

func (c *WorkOrderController) InitiateDelivery(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	var input services.InitiateDeliveryInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}

	notes, err := c.orders.InitiateDelivery(ctx.UserContext(), id, input, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%d delivery note(s) prepared", len(notes)),
		"data":    notes,
	})
}

// Close expects a multipart form with signed_delivery_note and the optional
// purchase_order_file and work_order_file.
func (c *WorkOrderController) Close(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	signed, err := ctx.FormFile("signed_delivery_note")
	if err != nil {
		return errorResponse(ctx, services.NewValidationError("signed_delivery_note", "required"))
	}

	var in services.CloseInput
	if in.SignedDeliveryNote, err = saveUpload(c.files, signed, "signed_delivery_note", "delivery_notes"); err != nil {
		return errorResponse(ctx, err)
	}
	if fh, err := ctx.FormFile("purchase_order_file"); err == nil {
		if in.PurchaseOrderFile, err = saveUpload(c.files, fh, "purchase_order_file", "purchase_orders"); err != nil {
			return errorResponse(ctx, err)
		}
	}
	if fh, err := ctx.FormFile("work_order_file"); err == nil {
		if in.WorkOrderFile, err = saveUpload(c.files, fh, "work_order_file", "work_orders"); err != nil {
			return errorResponse(ctx, err)
		}
	}

	wo, err := c.orders.Close(ctx.UserContext(), id, in, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Work order closed", "data": wo})
}

func (c *WorkOrderController) UpdateInvoice(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	upd, err := invoiceUpdateFromRequest(ctx, c.files)
	if err != nil {
		return errorResponse(ctx, err)
	}

	wo, err := c.orders.UpdateWorkOrderInvoice(ctx.UserContext(), id, upd, transitionOptions(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Invoice updated", "data": wo})
}

func (c *WorkOrderController) GetHistory(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	rows, err := c.orders.History(id)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": rows})
}

func (c *WorkOrderController) ExportExcel(ctx *fiber.Ctx) error {
	orders, err := c.orders.List(workOrderFilter(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	headers := []string{"WO Number", "Status", "Manager Approval", "Invoice Status", "Items", "Total Price", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, wo := range orders {
		row := i + 2
		total := decimal.Zero
		for _, it := range wo.Items {
			total = total.Add(it.TotalPrice())
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), wo.WoNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), wo.Status)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), wo.ManagerApprovalStatus)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), wo.InvoiceStatus)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), len(wo.Items))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), total.StringFixed(2))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), wo.CreatedAt.Format("2006-01-02 15:04"))
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="work_orders.xlsx"`)
	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).SendString("Failed to generate Excel")
	}
	return nil
}

// invoiceUpdateFromRequest accepts either a JSON body or a multipart form
// carrying the invoice file. Only an uploaded file sets InvoiceFile.
func invoiceUpdateFromRequest(ctx *fiber.Ctx, files *storage.Local) (services.InvoiceUpdate, error) {
	var upd services.InvoiceUpdate

	fh, err := ctx.FormFile("invoice_file")
	if err != nil {
		if err := ctx.BodyParser(&upd); err != nil {
			return upd, services.NewValidationError("body", "invalid request body")
		}
		return upd, nil
	}

	upd.Status = ctx.FormValue("invoice_status")
	if v := ctx.FormValue("due_in_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return upd, services.NewValidationError("due_in_days", "must be a number")
		}
		upd.DueInDays = &n
	}
	if v := ctx.FormValue("received_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return upd, services.NewValidationError("received_date", "expected YYYY-MM-DD")
		}
		upd.ReceivedDate = &t
	}
	if v := ctx.FormValue("payment_reference_number"); v != "" {
		upd.PaymentReferenceNumber = &v
	}
	if upd.InvoiceFile, err = saveUpload(files, fh, "invoice_file", "invoices"); err != nil {
		return upd, err
	}
	return upd, nil
}
