package controllers

import (
	"calibration-app/services"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

func (c *ReportController) DueDates(ctx *fiber.Ctx) error {
	rows, err := c.reports.DueDates(time.Now(), ctx.QueryInt("within_days"))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": rows})
}

func (c *ReportController) ExportDueDates(ctx *fiber.Ctx) error {
	rows, err := c.reports.DueDates(time.Now(), ctx.QueryInt("within_days"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "WO Number")
	f.SetCellValue(sheet, "B1", "Item")
	f.SetCellValue(sheet, "C1", "Certificate Number")
	f.SetCellValue(sheet, "D1", "UUC Serial Number")
	f.SetCellValue(sheet, "E1", "Calibration Due Date")
	f.SetCellValue(sheet, "F1", "Days Remaining")

	for i, r := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), r.WoNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), r.ItemName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), r.CertificateNumber)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), r.UucSerialNumber)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), r.CalibrationDueDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), r.DaysRemaining)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="due_dates.xlsx"`)
	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).SendString("Failed to generate Excel")
	}
	return nil
}
