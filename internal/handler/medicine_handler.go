package handler

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"pharmacy-warehouse/internal/cache"
	"pharmacy-warehouse/internal/inventory"
	"pharmacy-warehouse/internal/model"
	"pharmacy-warehouse/pkg/logger"
	"pharmacy-warehouse/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MedicineRequest defines the structure for medicine creation/update requests
type MedicineRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	MinStock     int     `json:"minStock"`
	ReorderLevel int     `json:"reorderLevel"`
	SupplierID   uint    `json:"supplierId"`
}

func (r *MedicineRequest) toInput() inventory.MedicineInput {
	return inventory.MedicineInput{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Quantity:     r.Quantity,
		MinStock:     r.MinStock,
		ReorderLevel: r.ReorderLevel,
		SupplierID:   r.SupplierID,
	}
}

// MedicineHandler serves the medicine endpoints
type MedicineHandler struct {
	svc   *inventory.Service
	cache *cache.MedicineCache
}

// NewMedicineHandler creates a medicine handler. The cache may be nil.
func NewMedicineHandler(svc *inventory.Service, medicineCache *cache.MedicineCache) *MedicineHandler {
	return &MedicineHandler{svc: svc, cache: medicineCache}
}

// Register wires the medicine routes onto the given group. Mutating routes
// must already be role-gated by the caller.
func (h *MedicineHandler) Register(g *echo.Group, mutating ...echo.MiddlewareFunc) {
	g.GET("", h.List)
	g.GET("/low-stock", h.LowStock)
	g.GET("/export", h.Export)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, mutating...)
	g.PUT("/:id", h.Update, mutating...)
	g.DELETE("/:id", h.Delete, mutating...)
}

// List retrieves all medicines. Pagination stays a client concern; the
// page/limit parameters only trim the response when supplied.
func (h *MedicineHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMedicineOperation("list")

	ctx := c.Request().Context()
	medicines, ok := h.cache.Get(ctx)
	if !ok {
		var err error
		medicines, err = h.svc.ListMedicines(ctx)
		if err != nil {
			return serviceError(c, log, err)
		}
		h.cache.Set(ctx, medicines)
	}

	log.Info("medicines retrieved", zap.Int("count", len(medicines)), zap.Bool("from_cache", ok))
	return c.JSON(http.StatusOK, trimPage(c, medicines))
}

// Get retrieves a single medicine by ID
func (h *MedicineHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMedicineOperation("get")

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid medicine id"})
	}

	medicine, err := h.svc.GetMedicine(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, log, err)
	}
	return c.JSON(http.StatusOK, medicine)
}

// Create creates a new medicine
func (h *MedicineHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMedicineOperation("create")

	var req MedicineRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	ctx := c.Request().Context()
	medicine, err := h.svc.CreateMedicine(ctx, req.toInput())
	if err != nil {
		return serviceError(c, log, err)
	}

	h.cache.Invalidate(ctx)
	go h.refreshLowStockGauge()

	return c.JSON(http.StatusCreated, medicine)
}

// Update replaces an existing medicine's fields
func (h *MedicineHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMedicineOperation("update")

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid medicine id"})
	}

	var req MedicineRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request data", zap.Uint("medicine_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	ctx := c.Request().Context()
	medicine, err := h.svc.UpdateMedicine(ctx, id, req.toInput())
	if err != nil {
		return serviceError(c, log, err)
	}

	h.cache.Invalidate(ctx)
	go h.refreshLowStockGauge()

	return c.JSON(http.StatusOK, medicine)
}

// Delete removes a medicine
func (h *MedicineHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMedicineOperation("delete")

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid medicine id"})
	}

	ctx := c.Request().Context()
	if err := h.svc.DeleteMedicine(ctx, id); err != nil {
		return serviceError(c, log, err)
	}

	h.cache.Invalidate(ctx)
	go h.refreshLowStockGauge()

	return c.JSON(http.StatusOK, echo.Map{"message": "Medicine deleted successfully"})
}

// LowStock reports medicines at or below their reorder level
func (h *MedicineHandler) LowStock(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMedicineOperation("low_stock")

	entries, err := h.svc.ListLowStock(c.Request().Context())
	if err != nil {
		return serviceError(c, log, err)
	}

	prometheus.UpdateLowStockCount(len(entries))
	log.Info("low stock report generated", zap.Int("count", len(entries)))
	return c.JSON(http.StatusOK, entries)
}

// Export streams the full medicine table as CSV
func (h *MedicineHandler) Export(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMedicineOperation("export")

	medicines, err := h.svc.ListMedicines(c.Request().Context())
	if err != nil {
		return serviceError(c, log, err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="medicines.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"id", "name", "description", "price", "quantity", "minStock", "reorderLevel", "supplierId"}); err != nil {
		return err
	}
	for _, m := range medicines {
		description := ""
		if m.Description != nil {
			description = *m.Description
		}
		record := []string{
			strconv.FormatUint(uint64(m.ID), 10),
			m.Name,
			description,
			fmt.Sprintf("%g", m.Price),
			strconv.Itoa(m.Quantity),
			strconv.Itoa(m.MinStock),
			strconv.Itoa(m.ReorderLevel),
			strconv.FormatUint(uint64(m.SupplierID), 10),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// refreshLowStockGauge recomputes the low stock gauge after a mutation
func (h *MedicineHandler) refreshLowStockGauge() {
	entries, err := h.svc.ListLowStock(context.Background())
	if err != nil {
		return
	}
	prometheus.UpdateLowStockCount(len(entries))
}

// trimPage applies the optional page/limit query parameters to a medicine
// list that was fetched in full
func trimPage(c echo.Context, medicines []model.Medicine) []model.Medicine {
	limitStr := c.QueryParam("limit")
	if limitStr == "" {
		return medicines
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return medicines
	}

	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}

	offset := (page - 1) * limit
	if offset >= len(medicines) {
		return []model.Medicine{}
	}
	end := offset + limit
	if end > len(medicines) {
		end = len(medicines)
	}
	return medicines[offset:end]
}
