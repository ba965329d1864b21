package inventory

import (
	"context"
	"errors"
	"strings"

	"pharmacy-warehouse/internal/model"

	"go.uber.org/zap"
)

// MedicineInput carries the caller-supplied fields for creating or updating
// a medicine.
type MedicineInput struct {
	Name         string
	Description  *string
	Price        float64
	Quantity     int
	MinStock     int
	ReorderLevel int
	SupplierID   uint
}

func validateMedicineInput(in *MedicineInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Entity: entityMedicine, Field: "name", Reason: "must not be empty"}
	}
	if in.Price <= 0 {
		return &ValidationError{Entity: entityMedicine, Field: "price", Reason: "must be greater than zero"}
	}
	if in.Quantity < 0 {
		return &ValidationError{Entity: entityMedicine, Field: "quantity", Reason: "must not be negative"}
	}
	if in.MinStock < 0 {
		return &ValidationError{Entity: entityMedicine, Field: "minStock", Reason: "must not be negative"}
	}
	if in.ReorderLevel < 0 {
		return &ValidationError{Entity: entityMedicine, Field: "reorderLevel", Reason: "must not be negative"}
	}
	if in.SupplierID == 0 {
		return &ValidationError{Entity: entityMedicine, Field: "supplierId", Reason: "is required"}
	}
	return nil
}

// checkSupplierExists verifies the referenced supplier row exists. The
// database foreign key remains the authority; this pre-check just gives a
// precise error before the insert is attempted.
func (s *Service) checkSupplierExists(ctx context.Context, supplierID uint) error {
	_, err := s.store.GetSupplier(ctx, supplierID)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return &ReferenceError{Entity: entityMedicine, Field: "supplierId", ID: supplierID}
		}
		return infraErr("lookup supplier", err)
	}
	return nil
}

// ListMedicines returns all medicines in insertion order
func (s *Service) ListMedicines(ctx context.Context) ([]model.Medicine, error) {
	medicines, err := s.store.ListMedicines(ctx)
	if err != nil {
		return nil, infraErr("list medicines", err)
	}
	return medicines, nil
}

// GetMedicine returns a single medicine by id
func (s *Service) GetMedicine(ctx context.Context, id uint) (*model.Medicine, error) {
	medicine, err := s.store.GetMedicine(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, &NotFoundError{Entity: entityMedicine, ID: id}
		}
		return nil, infraErr("get medicine", err)
	}
	return medicine, nil
}

// CreateMedicine validates the input, verifies the supplier reference and
// inserts a new medicine row
func (s *Service) CreateMedicine(ctx context.Context, in MedicineInput) (*model.Medicine, error) {
	if err := validateMedicineInput(&in); err != nil {
		return nil, err
	}
	if err := s.checkSupplierExists(ctx, in.SupplierID); err != nil {
		return nil, err
	}

	medicine := &model.Medicine{
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Quantity:     in.Quantity,
		MinStock:     in.MinStock,
		ReorderLevel: in.ReorderLevel,
		SupplierID:   in.SupplierID,
	}

	if err := s.store.InsertMedicine(ctx, medicine); err != nil {
		// The supplier may have been deleted between the pre-check and the
		// insert; the database constraint is the source of truth.
		if errors.Is(err, ErrForeignKeyViolation) {
			return nil, &ReferenceError{Entity: entityMedicine, Field: "supplierId", ID: in.SupplierID}
		}
		return nil, infraErr("insert medicine", err)
	}

	s.log.Info("medicine created",
		zap.Uint("id", medicine.ID),
		zap.String("name", medicine.Name),
		zap.Uint("supplier_id", medicine.SupplierID))
	return medicine, nil
}

// UpdateMedicine validates the input and replaces every caller-supplied
// field of an existing medicine. CreatedAt is preserved from the original
// row.
func (s *Service) UpdateMedicine(ctx context.Context, id uint, in MedicineInput) (*model.Medicine, error) {
	if err := validateMedicineInput(&in); err != nil {
		return nil, err
	}

	medicine, err := s.store.GetMedicine(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, &NotFoundError{Entity: entityMedicine, ID: id}
		}
		return nil, infraErr("get medicine", err)
	}

	if err := s.checkSupplierExists(ctx, in.SupplierID); err != nil {
		return nil, err
	}

	medicine.Name = in.Name
	medicine.Description = in.Description
	medicine.Price = in.Price
	medicine.Quantity = in.Quantity
	medicine.MinStock = in.MinStock
	medicine.ReorderLevel = in.ReorderLevel
	medicine.SupplierID = in.SupplierID

	if err := s.store.SaveMedicine(ctx, medicine); err != nil {
		if errors.Is(err, ErrForeignKeyViolation) {
			return nil, &ReferenceError{Entity: entityMedicine, Field: "supplierId", ID: in.SupplierID}
		}
		return nil, infraErr("save medicine", err)
	}

	s.log.Info("medicine updated",
		zap.Uint("id", medicine.ID),
		zap.String("name", medicine.Name))
	return medicine, nil
}

// DeleteMedicine removes a medicine row. Deleting an id that does not
// resolve, including one already deleted, reports NotFoundError.
func (s *Service) DeleteMedicine(ctx context.Context, id uint) error {
	if err := s.store.DeleteMedicine(ctx, id); err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return &NotFoundError{Entity: entityMedicine, ID: id}
		}
		return infraErr("delete medicine", err)
	}

	s.log.Info("medicine deleted", zap.Uint("id", id))
	return nil
}

// LowStockEntry is a medicine at or below its reorder level. Critical marks
// stock that has fallen below the minimum.
type LowStockEntry struct {
	model.Medicine
	Critical bool `json:"critical"`
}

// ListLowStock returns medicines whose quantity is at or below their reorder
// level, flagging those below their minimum stock as critical
func (s *Service) ListLowStock(ctx context.Context) ([]LowStockEntry, error) {
	medicines, err := s.store.ListLowStockMedicines(ctx)
	if err != nil {
		return nil, infraErr("list low stock medicines", err)
	}

	entries := make([]LowStockEntry, 0, len(medicines))
	for _, m := range medicines {
		entries = append(entries, LowStockEntry{
			Medicine: m,
			Critical: m.Quantity < m.MinStock,
		})
	}
	return entries, nil
}
