package controllers

import (
	"calibration-app/middleware"
	"calibration-app/services"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (c *UserController) CreateUser(ctx *fiber.Ctx) error {
	var input services.UserInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}

	user, err := c.users.CreateUser(middleware.CurrentUser(ctx), input)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"data":    user,
	})
}

func (c *UserController) GetUsers(ctx *fiber.Ctx) error {
	users, err := c.users.GetAllUsers()
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": users})
}

func (c *UserController) GetUserByID(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	user, err := c.users.GetUserByID(id)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": user})
}

func (c *UserController) UpdateUser(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	var input services.UserInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}

	user, err := c.users.UpdateUser(middleware.CurrentUser(ctx), id, input)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
		"data":    user,
	})
}

func (c *UserController) DeleteUser(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errorResponse(ctx, err)
	}
	if err := c.users.DeleteUser(middleware.CurrentUser(ctx), id); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "User deleted successfully"})
}
