package inventory

import (
	"context"

	"pharmacy-warehouse/internal/model"
)

// Store is the persistence gateway the service delegates to. Implementations
// report missing rows as ErrRowNotFound and constraint violations as
// ErrForeignKeyViolation; anything else is treated as an infrastructure
// failure.
type Store interface {
	ListMedicines(ctx context.Context) ([]model.Medicine, error)
	GetMedicine(ctx context.Context, id uint) (*model.Medicine, error)
	InsertMedicine(ctx context.Context, m *model.Medicine) error
	SaveMedicine(ctx context.Context, m *model.Medicine) error
	DeleteMedicine(ctx context.Context, id uint) error
	ListLowStockMedicines(ctx context.Context) ([]model.Medicine, error)
	CountMedicinesBySupplier(ctx context.Context, supplierID uint) (int64, error)

	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	GetSupplier(ctx context.Context, id uint) (*model.Supplier, error)
	InsertSupplier(ctx context.Context, s *model.Supplier) error
	SaveSupplier(ctx context.Context, s *model.Supplier) error
	DeleteSupplier(ctx context.Context, id uint) error
}
