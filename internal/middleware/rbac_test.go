package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

const testSecret = "test-secret"

func newProtectedApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(Identity(testSecret))

	chain := append([]fiber.Handler{}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, fiber.Map{
			"user_id": c.Locals(LocalUserID),
			"role":    c.Locals(LocalUserRole),
		})
	})
	app.Get("/protected", chain...)
	return app
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	app := newProtectedApp(RequireAuth())

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.False(t, envelope.OK)
	require.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestRequireRoleAcceptsTrustedHeaders(t *testing.T) {
	app := newProtectedApp(RequireRole(models.RoleInstructor))

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("X-User-ID", uuid.NewString())
	req.Header.Set("X-User-Role", models.RoleInstructor)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	app := newProtectedApp(RequireRole(models.RoleOperator))

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("X-User-ID", uuid.NewString())
	req.Header.Set("X-User-Role", models.RoleLearner)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.False(t, envelope.OK)
	require.Equal(t, "FORBIDDEN", envelope.Error.Code)
}

func TestIdentityIgnoresUnknownRoleHeader(t *testing.T) {
	app := newProtectedApp(RequireAuth())

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("X-User-ID", uuid.NewString())
	req.Header.Set("X-User-Role", "superadmin")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIdentityAcceptsBearerToken(t *testing.T) {
	app := newProtectedApp(RequireRole(models.RoleLearner))

	userID := uuid.New()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": models.RoleLearner,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestIdentityRejectsForgedBearerToken(t *testing.T) {
	app := newProtectedApp(RequireAuth())

	claims := jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": models.RoleLearner,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
