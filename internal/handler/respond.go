package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pharmacy-warehouse/internal/inventory"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// serviceError maps the inventory error taxonomy onto HTTP responses.
// Validation 400, not found 404, dangling reference 422, blocked delete 409,
// anything else is an infrastructure failure reported as 500.
func serviceError(c echo.Context, log *zap.Logger, err error) error {
	var (
		validationErr *inventory.ValidationError
		notFoundErr   *inventory.NotFoundError
		referenceErr  *inventory.ReferenceError
		conflictErr   *inventory.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.As(err, &notFoundErr):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": notFoundErr.Error(),
		})
	case errors.As(err, &referenceErr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": referenceErr.Error(),
			"field": referenceErr.Field,
		})
	case errors.As(err, &conflictErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":      conflictErr.Error(),
			"dependents": conflictErr.Dependents,
		})
	default:
		log.Error("backend failure", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "backend unavailable, please retry",
		})
	}
}

// pathID parses the :id route parameter
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
