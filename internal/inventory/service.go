// Package inventory implements the warehouse record lifecycle for medicines
// and suppliers: input validation, referential integrity between the two
// entities, and translation of store failures into a typed error taxonomy.
package inventory

import (
	"go.uber.org/zap"
)

const (
	entityMedicine = "medicine"
	entitySupplier = "supplier"
)

// Service validates and applies create/read/update/delete operations for
// medicines and suppliers before delegating to the Store. A validation
// failure always prevents any store interaction.
type Service struct {
	store Store
	log   *zap.Logger
}

// NewService creates an inventory service on top of the given store
func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}
