package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"pharmacy-warehouse/internal/inventory"
	"pharmacy-warehouse/pkg/logger"
	"pharmacy-warehouse/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SupplierRequest defines the structure for supplier creation/update requests
type SupplierRequest struct {
	Name        string `json:"name"`
	ContactInfo string `json:"contactInfo"`
	Terms       string `json:"terms"`
}

func (r *SupplierRequest) toInput() inventory.SupplierInput {
	return inventory.SupplierInput{
		Name:        r.Name,
		ContactInfo: r.ContactInfo,
		Terms:       r.Terms,
	}
}

// SupplierHandler serves the supplier endpoints
type SupplierHandler struct {
	svc *inventory.Service
}

// NewSupplierHandler creates a supplier handler
func NewSupplierHandler(svc *inventory.Service) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// Register wires the supplier routes onto the given group. Mutating routes
// must already be role-gated by the caller.
func (h *SupplierHandler) Register(g *echo.Group, mutating ...echo.MiddlewareFunc) {
	g.GET("", h.List)
	g.GET("/export", h.Export)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, mutating...)
	g.PUT("/:id", h.Update, mutating...)
	g.DELETE("/:id", h.Delete, mutating...)
}

// List retrieves all suppliers
func (h *SupplierHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("list")

	suppliers, err := h.svc.ListSuppliers(c.Request().Context())
	if err != nil {
		return serviceError(c, log, err)
	}

	log.Info("suppliers retrieved", zap.Int("count", len(suppliers)))
	return c.JSON(http.StatusOK, suppliers)
}

// Get retrieves a single supplier by ID
func (h *SupplierHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("get")

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid supplier id"})
	}

	supplier, err := h.svc.GetSupplier(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, log, err)
	}
	return c.JSON(http.StatusOK, supplier)
}

// Create creates a new supplier
func (h *SupplierHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("create")

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	supplier, err := h.svc.CreateSupplier(c.Request().Context(), req.toInput())
	if err != nil {
		return serviceError(c, log, err)
	}
	return c.JSON(http.StatusCreated, supplier)
}

// Update replaces an existing supplier's fields
func (h *SupplierHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("update")

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid supplier id"})
	}

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request data", zap.Uint("supplier_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	supplier, err := h.svc.UpdateSupplier(c.Request().Context(), id, req.toInput())
	if err != nil {
		return serviceError(c, log, err)
	}
	return c.JSON(http.StatusOK, supplier)
}

// Delete removes a supplier. Blocked with a conflict response while any
// medicine still references it.
func (h *SupplierHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("delete")

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid supplier id"})
	}

	if err := h.svc.DeleteSupplier(c.Request().Context(), id); err != nil {
		return serviceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Supplier deleted successfully"})
}

// Export streams the full supplier table as CSV
func (h *SupplierHandler) Export(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordSupplierOperation("export")

	suppliers, err := h.svc.ListSuppliers(c.Request().Context())
	if err != nil {
		return serviceError(c, log, err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="suppliers.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"id", "name", "contactInfo", "terms"}); err != nil {
		return err
	}
	for _, s := range suppliers {
		record := []string{
			strconv.FormatUint(uint64(s.ID), 10),
			s.Name,
			s.ContactInfo,
			s.Terms,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
