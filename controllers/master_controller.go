package controllers

import (
	"calibration-app/models"
	"calibration-app/services"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type MasterController struct {
	master *services.MasterDataService
}

func NewMasterController(master *services.MasterDataService) *MasterController {
	return &MasterController{master: master}
}

type itemInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (c *MasterController) GetItems(ctx *fiber.Ctx) error {
	items, err := c.master.ListItems()
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": items})
}

func (c *MasterController) CreateItem(ctx *fiber.Ctx) error {
	var input itemInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}
	item := &models.Item{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		CreatedBy:   actorID(ctx),
		UpdatedBy:   actorID(ctx),
	}
	if err := c.master.CreateItem(item); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Item created successfully", "data": item})
}

func (c *MasterController) UpdateItem(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	var input itemInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}
	item, err := c.master.UpdateItem(id, strings.TrimSpace(input.Name), input.Description, actorID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Item updated successfully", "data": item})
}

type ItemUploadResult struct {
	TotalRows     int      `json:"total_rows"`
	SuccessCount  int      `json:"success_count"`
	SkippedCount  int      `json:"skipped_count"`
	SkippedItems  []string `json:"skipped_items"`
	ErrorMessages []string `json:"error_messages"`
}

// ImportItems reads Name and Description from the first two columns of the
// first sheet. Row 1 is the header; existing names are skipped.
func (c *MasterController) ImportItems(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return badRequest(ctx, "File is required")
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
		return badRequest(ctx, "Only Excel files (.xlsx) are allowed")
	}

	content, err := file.Open()
	if err != nil {
		return errorResponse(ctx, err)
	}
	defer content.Close()

	f, err := excelize.OpenReader(content)
	if err != nil {
		return badRequest(ctx, "Failed to read Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return badRequest(ctx, "No sheets found in Excel file")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return errorResponse(ctx, err)
	}
	if len(rows) < 2 {
		return badRequest(ctx, "Excel file must contain header and at least one data row")
	}

	result := ItemUploadResult{
		TotalRows:     len(rows) - 1,
		SkippedItems:  []string{},
		ErrorMessages: []string{},
	}
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			result.SkippedCount++
			continue
		}
		item := &models.Item{
			Name:      strings.TrimSpace(row[0]),
			CreatedBy: actorID(ctx),
			UpdatedBy: actorID(ctx),
		}
		if len(row) > 1 {
			item.Description = strings.TrimSpace(row[1])
		}
		if err := c.master.CreateItem(item); err != nil {
			result.SkippedCount++
			result.SkippedItems = append(result.SkippedItems, item.Name)
			result.ErrorMessages = append(result.ErrorMessages, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		result.SuccessCount++
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Items imported", "data": result})
}

func (c *MasterController) GetUnits(ctx *fiber.Ctx) error {
	units, err := c.master.ListUnits()
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": units})
}

func (c *MasterController) CreateUnit(ctx *fiber.Ctx) error {
	var input struct {
		Name string `json:"name" validate:"required"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}
	unit := &models.Unit{Name: strings.TrimSpace(input.Name), CreatedBy: actorID(ctx), UpdatedBy: actorID(ctx)}
	if err := c.master.CreateUnit(unit); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Unit created successfully", "data": unit})
}

func (c *MasterController) GetTechnicians(ctx *fiber.Ctx) error {
	team, err := c.master.ListTechnicians()
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": team})
}

func (c *MasterController) CreateTechnician(ctx *fiber.Ctx) error {
	var input struct {
		Name        string `json:"name" validate:"required"`
		Designation string `json:"designation"`
		Email       string `json:"email" validate:"omitempty,email"`
		PhoneNumber string `json:"phone_number" validate:"max=20"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}
	tech := &models.Technician{
		Name:        input.Name,
		Designation: input.Designation,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		CreatedBy:   actorID(ctx),
		UpdatedBy:   actorID(ctx),
	}
	if err := c.master.CreateTechnician(tech); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Technician created successfully", "data": tech})
}

func (c *MasterController) GetPurchaseOrders(ctx *fiber.Ctx) error {
	orders, err := c.master.ListPurchaseOrders(ctx.Query("status"))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": orders})
}

func (c *MasterController) CreatePurchaseOrder(ctx *fiber.Ctx) error {
	var input struct {
		ClientPoNo    string `json:"client_po_number"`
		QuotationID   *uint  `json:"quotation_id"`
		SalesPersonID *uint  `json:"sales_person_id"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	po := &models.PurchaseOrder{
		ClientPoNo:    input.ClientPoNo,
		QuotationID:   input.QuotationID,
		SalesPersonID: input.SalesPersonID,
		CreatedBy:     actorID(ctx),
		UpdatedBy:     actorID(ctx),
	}
	if err := c.master.CreatePurchaseOrder(ctx.UserContext(), po); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Purchase order created successfully", "data": po})
}

func (c *MasterController) GetQuotations(ctx *fiber.Ctx) error {
	quotations, err := c.master.ListQuotations()
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": quotations})
}

func (c *MasterController) CreateQuotation(ctx *fiber.Ctx) error {
	var input struct {
		CompanyName           string `json:"company_name" validate:"required"`
		AssignedSalesPersonID *uint  `json:"assigned_sales_person_id"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}
	q := &models.Quotation{
		CompanyName:           input.CompanyName,
		AssignedSalesPersonID: input.AssignedSalesPersonID,
		CreatedBy:             actorID(ctx),
	}
	if err := c.master.CreateQuotation(ctx.UserContext(), q); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Quotation created successfully", "data": q})
}
