package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// Locals keys set by the identity middleware.
const (
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
)

// Identity resolves the caller from the trusted gateway headers, falling back
// to a Bearer token signed with the configured secret. Requests without any
// identity pass through anonymously; role gates reject them later.
func Identity(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, role, ok := identityFromHeaders(c); ok {
			c.Locals(LocalUserID, id)
			c.Locals(LocalUserRole, role)
			return c.Next()
		}

		if id, role, ok := identityFromBearer(c, secret); ok {
			c.Locals(LocalUserID, id)
			c.Locals(LocalUserRole, role)
		}

		return c.Next()
	}
}

func identityFromHeaders(c *fiber.Ctx) (uuid.UUID, string, bool) {
	rawID := strings.TrimSpace(c.Get("X-User-ID"))
	role := strings.ToLower(strings.TrimSpace(c.Get("X-User-Role")))
	if rawID == "" || !models.ValidRole(role) {
		return uuid.Nil, "", false
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", false
	}

	return id, role, true
}

func identityFromBearer(c *fiber.Ctx, secret string) (uuid.UUID, string, bool) {
	authorization := c.Get("Authorization")
	const bearer = "Bearer "
	if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
		return uuid.Nil, "", false
	}

	tokenString := strings.TrimSpace(authorization[len(bearer):])
	if tokenString == "" {
		return uuid.Nil, "", false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", false
	}

	subject, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(strings.TrimSpace(subject))
	if err != nil {
		return uuid.Nil, "", false
	}

	role, _ := claims["role"].(string)
	role = strings.ToLower(strings.TrimSpace(role))
	if !models.ValidRole(role) {
		return uuid.Nil, "", false
	}

	return id, role, true
}
