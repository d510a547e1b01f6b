package controllers

import (
	"calibration-app/services"

	"github.com/gofiber/fiber/v2"
)

type NumberSeriesController struct {
	series *services.NumberSeriesService
}

func NewNumberSeriesController(series *services.NumberSeriesService) *NumberSeriesController {
	return &NumberSeriesController{series: series}
}

type seriesInput struct {
	SeriesName string `json:"series_name" validate:"required"`
	Prefix     string `json:"prefix" validate:"required,max=20"`
}

func (c *NumberSeriesController) GetAll(ctx *fiber.Ctx) error {
	series, err := c.series.GetAll()
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": series})
}

func (c *NumberSeriesController) Create(ctx *fiber.Ctx) error {
	var input seriesInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}
	series, err := c.series.Create(input.SeriesName, input.Prefix)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Series created successfully",
		"data":    series,
	})
}

func (c *NumberSeriesController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	var input seriesInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}
	series, err := c.series.Update(id, input.SeriesName, input.Prefix)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Series updated successfully", "data": series})
}
