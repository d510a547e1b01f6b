package middleware

import (
	"calibration-app/models"
	"calibration-app/repositories"
	"calibration-app/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PermissionGuard checks the (page, action) permission of the current user.
// It must run after AuthMiddleware.
type PermissionGuard struct {
	users *repositories.UserRepository
	perms *services.PermissionService
}

func NewPermissionGuard(DB *gorm.DB) *PermissionGuard {
	return &PermissionGuard{
		users: repositories.NewUserRepository(DB),
		perms: services.NewPermissionService(DB),
	}
}

// CurrentUser returns the user loaded by the guard.
func CurrentUser(ctx *fiber.Ctx) *models.User {
	user, _ := ctx.Locals("user").(*models.User)
	return user
}

func (g *PermissionGuard) Require(page string, action services.Action) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, ok := g.loadUser(ctx)
		if !ok {
			return nil
		}

		allowed, err := g.perms.HasPermission(user, page, action)
		if err != nil {
			log.Error("permission check failed", "user", user.ID, "page", page, "error", err)
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Permission check failed",
			})
		}
		if !allowed {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Forbidden: You do not have permission",
				"page":    page,
				"action":  action,
			})
		}
		return ctx.Next()
	}
}

// loadUser writes the 401 response itself when it returns false.
func (g *PermissionGuard) loadUser(ctx *fiber.Ctx) (*models.User, bool) {
	if user := CurrentUser(ctx); user != nil {
		return user, true
	}
	userID, ok := ctx.Locals("userID").(float64)
	if !ok {
		ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized: Invalid user ID",
		})
		return nil, false
	}
	user, err := g.users.GetByID(uint(userID))
	if err != nil || !user.IsActive {
		ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized: User not found",
		})
		return nil, false
	}
	ctx.Locals("user", user)
	return user, true
}
