package controllers

import (
	"calibration-app/middleware"
	"calibration-app/services"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var input struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return errorResponse(ctx, err)
	}

	user, err := c.users.Authenticate(input.Username, input.Password)
	if err != nil {
		var forbidden *services.ForbiddenError
		if errors.As(err, &forbidden) {
			log.Info("login rejected", "username", input.Username, "reason", forbidden.Reason)
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": forbidden.Reason,
			})
		}
		return errorResponse(ctx, err)
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"token": token,
			"user":  user,
		},
	})
}

func (c *AuthController) Profile(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}
	return ctx.JSON(fiber.Map{"success": true, "data": user})
}
