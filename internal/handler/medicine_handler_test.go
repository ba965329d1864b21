package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"pharmacy-warehouse/internal/handler"
	"pharmacy-warehouse/internal/inventory"
	"pharmacy-warehouse/internal/inventory/inventorytest"
	"pharmacy-warehouse/internal/model"
	"pharmacy-warehouse/pkg/config"
	"pharmacy-warehouse/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	prometheus.InitMetrics(&config.Config{
		Metrics: config.MetricsConfig{Prefix: "handler_test"},
	})
	os.Exit(m.Run())
}

type fixture struct {
	e     *echo.Echo
	svc   *inventory.Service
	store *inventorytest.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := inventorytest.NewStore()
	svc := inventory.NewService(store, nil)

	e := echo.New()
	handler.NewMedicineHandler(svc, nil).Register(e.Group("/api/medicines"))
	handler.NewSupplierHandler(svc).Register(e.Group("/api/suppliers"))

	return &fixture{e: e, svc: svc, store: store}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createSupplier(t *testing.T) *model.Supplier {
	t.Helper()
	rec := f.do(http.MethodPost, "/api/suppliers",
		`{"name":"Acme","contactInfo":"acme@example.com","terms":"Net 30"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var supplier model.Supplier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &supplier))
	return &supplier
}

func (f *fixture) createMedicine(t *testing.T, supplierID uint) *model.Medicine {
	t.Helper()
	body := fmt.Sprintf(
		`{"name":"Paracetamol","description":"Pain relief","price":5000,"quantity":100,"minStock":10,"reorderLevel":20,"supplierId":%d}`,
		supplierID)
	rec := f.do(http.MethodPost, "/api/medicines", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var medicine model.Medicine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &medicine))
	return &medicine
}

func TestCreateMedicineEndpoint(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)

	medicine := f.createMedicine(t, supplier.ID)

	assert.NotZero(t, medicine.ID)
	assert.Equal(t, "Paracetamol", medicine.Name)
	require.NotNil(t, medicine.Description)
	assert.Equal(t, "Pain relief", *medicine.Description)
	assert.Equal(t, float64(5000), medicine.Price)
	assert.Equal(t, supplier.ID, medicine.SupplierID)
}

func TestCreateMedicineValidationStatus(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)

	body := fmt.Sprintf(
		`{"name":"Paracetamol","price":-1,"quantity":1,"minStock":0,"reorderLevel":0,"supplierId":%d}`,
		supplier.ID)
	rec := f.do(http.MethodPost, "/api/medicines", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "price", resp["field"])
}

func TestCreateMedicineDanglingSupplierStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/medicines",
		`{"name":"Paracetamol","price":5000,"quantity":1,"minStock":0,"reorderLevel":0,"supplierId":77}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "supplierId", resp["field"])
}

func TestUpdateMedicineEndpoint(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)
	medicine := f.createMedicine(t, supplier.ID)

	body := fmt.Sprintf(
		`{"name":"Paracetamol","description":"Pain relief","price":5000,"quantity":40,"minStock":10,"reorderLevel":20,"supplierId":%d}`,
		supplier.ID)
	rec := f.do(http.MethodPut, fmt.Sprintf("/api/medicines/%d", medicine.ID), body)

	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Medicine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 40, updated.Quantity)
	assert.Equal(t, medicine.ID, updated.ID)
}

func TestUpdateMedicineNotFoundStatus(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)

	body := fmt.Sprintf(
		`{"name":"Ghost","price":1,"quantity":1,"minStock":0,"reorderLevel":0,"supplierId":%d}`,
		supplier.ID)
	rec := f.do(http.MethodPut, "/api/medicines/9999", body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateMedicineBadID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/api/medicines/abc", `{"name":"x"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteMedicineIdempotenceEndpoint(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)
	medicine := f.createMedicine(t, supplier.ID)

	rec := f.do(http.MethodDelete, fmt.Sprintf("/api/medicines/%d", medicine.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodDelete, fmt.Sprintf("/api/medicines/%d", medicine.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListMedicinesEndpoint(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)
	f.createMedicine(t, supplier.ID)
	f.createMedicine(t, supplier.ID)
	f.createMedicine(t, supplier.ID)

	rec := f.do(http.MethodGet, "/api/medicines", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var medicines []model.Medicine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &medicines))
	assert.Len(t, medicines, 3)
}

func TestListMedicinesPageTrimming(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)
	for i := 0; i < 5; i++ {
		f.createMedicine(t, supplier.ID)
	}

	rec := f.do(http.MethodGet, "/api/medicines?limit=2&page=3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var medicines []model.Medicine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &medicines))
	require.Len(t, medicines, 1)
	assert.Equal(t, uint(5), medicines[0].ID)
}

func TestLowStockEndpoint(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)

	body := fmt.Sprintf(
		`{"name":"Low","price":100,"quantity":5,"minStock":10,"reorderLevel":20,"supplierId":%d}`,
		supplier.ID)
	rec := f.do(http.MethodPost, "/api/medicines", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	f.createMedicine(t, supplier.ID) // quantity 100, not low

	rec = f.do(http.MethodGet, "/api/medicines/low-stock", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []inventory.LowStockEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Low", entries[0].Name)
	assert.True(t, entries[0].Critical)
}

func TestExportMedicinesCSV(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)
	f.createMedicine(t, supplier.ID)

	rec := f.do(http.MethodGet, "/api/medicines/export", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,name,description,price,quantity,minStock,reorderLevel,supplierId", lines[0])
	assert.Contains(t, lines[1], "Paracetamol")
}

func TestInfrastructureErrorStatus(t *testing.T) {
	f := newFixture(t)
	f.store.FailWith = fmt.Errorf("connection refused")

	rec := f.do(http.MethodGet, "/api/medicines", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
