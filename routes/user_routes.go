package routes

import (
	"calibration-app/services"

	"github.com/gofiber/fiber/v2"
)

func userRoutes(c Controllers) []Route {
	return []Route{
		{fiber.MethodGet, "/users", services.PageUsers, c.Users.GetUsers},
		{fiber.MethodPost, "/users", services.PageUsers, c.Users.CreateUser},
		{fiber.MethodGet, "/users/:id", services.PageUsers, c.Users.GetUserByID},
		{fiber.MethodPut, "/users/:id", services.PageUsers, c.Users.UpdateUser},
		{fiber.MethodDelete, "/users/:id", services.PageUsers, c.Users.DeleteUser},

		{fiber.MethodGet, "/roles", services.PageRoles, c.Roles.GetRoles},
		{fiber.MethodPost, "/roles", services.PageRoles, c.Roles.CreateRole},
		{fiber.MethodGet, "/roles/:id", services.PageRoles, c.Roles.GetRoleByID},
		{fiber.MethodPut, "/roles/:id", services.PageRoles, c.Roles.UpdateRole},
		{fiber.MethodDelete, "/roles/:id", services.PageRoles, c.Roles.DeleteRole},
		{fiber.MethodPut, "/roles/:id/permissions", services.PagePermissions, c.Roles.UpdatePermissions},
		{fiber.MethodGet, "/permissions/pages", services.PagePermissions, c.Roles.GetPages},
	}
}
