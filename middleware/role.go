package middleware

import (
	"errors"

	"courier-desk/logger"
	userModel "courier-desk/models/user"
	"courier-desk/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RoleAllows is the capability check: a stored role (customer when
// absent) against the role a route requires.
func RoleAllows(stored, required string) bool {
	if stored == "" {
		stored = userModel.RoleCustomer
	}
	return stored == required
}

// RequireRole permits the request only when the verified caller's stored
// role equals required. The role is looked up on every request so a
// revoked role takes effect immediately.
func RequireRole(db *gorm.DB, required string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := VerifiedEmail(c)

		var u userModel.User
		if err := db.Where("email = ?", email).First(&u).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Error("Failed to look up user role", err)
			}
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "forbidden access",
			})
		}

		if !RoleAllows(u.Role, required) {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "forbidden access",
			})
		}

		return c.Next()
	}
}
