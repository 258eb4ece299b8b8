package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"concord/internal/models"
)

// Token claim values checked by the access gate.
const (
	TokenIssuer   = "concord-api"
	TokenAudience = "concord-client"
)

// AuthRequired returns a middleware that enforces a valid bearer token and
// stores the resolved user ID in c.Locals("userID"). Every manager
// operation runs behind this gate; the resolved ID is trusted downstream.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := userIDFromRequest(c, secret)
		if err != nil {
			return models.RespondError(c, err)
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// OptionalUserID extracts the user ID from the Authorization header without
// enforcing it. Used on endpoints that personalize but do not require auth.
func OptionalUserID(c *fiber.Ctx, secret string) (uint, bool) {
	userID, err := userIDFromRequest(c, secret)
	if err != nil {
		return 0, false
	}
	return userID, true
}

func userIDFromRequest(c *fiber.Ctx, secret string) (uint, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, models.NewUnauthenticatedError("Authorization required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, models.NewUnauthenticatedError("Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, models.NewUnauthenticatedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.NewUnauthenticatedError("Invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != TokenIssuer {
		return 0, models.NewUnauthenticatedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != TokenAudience {
		return 0, models.NewUnauthenticatedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, models.NewUnauthenticatedError("Invalid subject claim")
	}

	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, models.NewUnauthenticatedError("Invalid user ID in token")
	}

	return uint(userID), nil
}
