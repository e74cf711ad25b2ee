package middleware

import (
	"context"
	"strings"

	"courier-desk/logger"
	"courier-desk/types"

	"firebase.google.com/go/v4/auth"
	"github.com/gofiber/fiber/v2"
)

// TokenVerifier validates a bearer token and yields verified identity
// claims. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// localsEmailKey is where Protected stores the verified email.
const localsEmailKey = "email"

// Protected verifies the Authorization header against the identity
// provider and attaches the verified email to the request. A missing or
// malformed header is 401; a token the provider rejects is 403.
func Protected(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "unauthorized access",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "unauthorized access",
			})
		}

		decoded, err := verifier.VerifyIDToken(c.Context(), tokenParts[1])
		if err != nil {
			logger.Error("Token verification failed", err)
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "forbidden access",
			})
		}

		email, _ := decoded.Claims["email"].(string)
		if email == "" {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "forbidden access",
			})
		}

		c.Locals(localsEmailKey, email)
		return c.Next()
	}
}

// VerifiedEmail returns the identity attached by Protected, or an empty
// string on an unauthenticated request.
func VerifiedEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(localsEmailKey).(string)
	return email
}
