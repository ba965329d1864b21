package middleware

import (
	"net/http"
	"strings"

	"pharmacy-warehouse/pkg/jwtutil"
	"pharmacy-warehouse/pkg/logger"
	"pharmacy-warehouse/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware verifies the JWT token and extracts claims
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Track authentication attempts
		prometheus.AuthAttemptsCounter.Inc()

		// Extract the token from the Authorization header
		tokenString := c.Request().Header.Get("Authorization")
		if tokenString == "" {
			log.Warn("Missing authorization token")
			prometheus.AuthErrorsCounter.Inc()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}

		// Remove "Bearer " prefix if present
		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:7]) == "BEARER " {
			tokenString = tokenString[7:]
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Invalid token", zap.Error(err))
			prometheus.AuthErrorsCounter.Inc()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}

		// Increment successful auth counter
		prometheus.AuthSuccessCounter.Inc()

		// Store user information in the context
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		// Update logger with user information
		log = log.With(
			zap.Uint("user_id", claims.UserID),
			zap.String("email", claims.Email),
			zap.String("role", claims.Role),
		)
		c.Set("logger", log)

		// Call the next handler
		return next(c)
	}
}

// RequireRole gates a route to callers holding one of the given roles.
// Every mutating inventory operation runs behind this check, not just the
// screens in front of it.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			role, ok := c.Get("role").(string)
			if !ok || role == "" {
				log.Warn("Missing role in token")
				return c.JSON(http.StatusForbidden, echo.Map{
					"error": "insufficient permissions",
				})
			}

			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}

			log.Warn("Role not permitted for this operation", zap.String("role", role))
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "insufficient permissions",
			})
		}
	}
}
