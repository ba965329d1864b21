package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"pharmacy-warehouse/internal/middleware"
	"pharmacy-warehouse/pkg/config"
	"pharmacy-warehouse/pkg/jwtutil"
	"pharmacy-warehouse/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	prometheus.InitMetrics(&config.Config{
		Metrics: config.MetricsConfig{Prefix: "middleware_test"},
	})
	jwtutil.Initialize(&config.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: 1,
	})
	os.Exit(m.Run())
}

func newProtectedEcho(roleGate bool) *echo.Echo {
	e := echo.New()
	probe := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	}

	mws := []echo.MiddlewareFunc{middleware.AuthMiddleware}
	if roleGate {
		mws = append(mws, middleware.RequireRole("admin", "manager"))
	}
	e.GET("/probe", probe, mws...)
	return e
}

func doProbe(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	e := newProtectedEcho(false)

	rec := doProbe(e, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	e := newProtectedEcho(false)

	rec := doProbe(e, "not-a-real-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	e := newProtectedEcho(false)

	token, err := jwtutil.GenerateToken("staff@example.com", 7, "viewer")
	require.NoError(t, err)

	rec := doProbe(e, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
	assert.Contains(t, rec.Body.String(), `"role":"viewer"`)
}

func TestRequireRoleRejectsViewer(t *testing.T) {
	e := newProtectedEcho(true)

	token, err := jwtutil.GenerateToken("staff@example.com", 7, "viewer")
	require.NoError(t, err)

	rec := doProbe(e, token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowsManager(t *testing.T) {
	e := newProtectedEcho(true)

	token, err := jwtutil.GenerateToken("lead@example.com", 3, "manager")
	require.NoError(t, err)

	rec := doProbe(e, token)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	e := newProtectedEcho(true)

	token, err := jwtutil.GenerateToken("ghost@example.com", 9, "")
	require.NoError(t, err)

	rec := doProbe(e, token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
