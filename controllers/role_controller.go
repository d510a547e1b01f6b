package controllers

import (
	"calibration-app/services"

	"github.com/gofiber/fiber/v2"
)

type RoleController struct {
	perms *services.PermissionService
}

func NewRoleController(perms *services.PermissionService) *RoleController {
	return &RoleController{perms: perms}
}

type roleInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (c *RoleController) GetRoles(ctx *fiber.Ctx) error {
	roles, err := c.perms.GetRoles()
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": roles})
}

func (c *RoleController) GetRoleByID(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	role, err := c.perms.GetRole(id)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": role})
}

// CreateRole also creates a view-only permission row for every page.
func (c *RoleController) CreateRole(ctx *fiber.Ctx) error {
	var input roleInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}
	role, err := c.perms.CreateRole(input.Name, input.Description)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Role created successfully",
		"data":    role,
	})
}

func (c *RoleController) UpdateRole(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	var input roleInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}
	role, err := c.perms.UpdateRole(id, input.Name, input.Description)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Role updated successfully", "data": role})
}

func (c *RoleController) DeleteRole(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	if err := c.perms.DeleteRole(id); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Role deleted successfully"})
}

func (c *RoleController) GetPages(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"success": true, "data": services.PageCatalogue})
}

func (c *RoleController) UpdatePermissions(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	var input struct {
		Permissions []services.PermissionInput `json:"permissions" validate:"required,dive"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}
	role, err := c.perms.SetPermissions(id, input.Permissions)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Permissions updated successfully", "data": role})
}
