package inventory

import (
	"context"
	"errors"
	"strings"

	"pharmacy-warehouse/internal/model"

	"go.uber.org/zap"
)

// SupplierInput carries the caller-supplied fields for creating or updating
// a supplier.
type SupplierInput struct {
	Name        string
	ContactInfo string
	Terms       string
}

func validateSupplierInput(in *SupplierInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Entity: entitySupplier, Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.ContactInfo) == "" {
		return &ValidationError{Entity: entitySupplier, Field: "contactInfo", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.Terms) == "" {
		return &ValidationError{Entity: entitySupplier, Field: "terms", Reason: "must not be empty"}
	}
	return nil
}

// ListSuppliers returns all suppliers in insertion order
func (s *Service) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	suppliers, err := s.store.ListSuppliers(ctx)
	if err != nil {
		return nil, infraErr("list suppliers", err)
	}
	return suppliers, nil
}

// GetSupplier returns a single supplier by id
func (s *Service) GetSupplier(ctx context.Context, id uint) (*model.Supplier, error) {
	supplier, err := s.store.GetSupplier(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, &NotFoundError{Entity: entitySupplier, ID: id}
		}
		return nil, infraErr("get supplier", err)
	}
	return supplier, nil
}

// CreateSupplier validates the input and inserts a new supplier row
func (s *Service) CreateSupplier(ctx context.Context, in SupplierInput) (*model.Supplier, error) {
	if err := validateSupplierInput(&in); err != nil {
		return nil, err
	}

	supplier := &model.Supplier{
		Name:        in.Name,
		ContactInfo: in.ContactInfo,
		Terms:       in.Terms,
	}

	if err := s.store.InsertSupplier(ctx, supplier); err != nil {
		return nil, infraErr("insert supplier", err)
	}

	s.log.Info("supplier created",
		zap.Uint("id", supplier.ID),
		zap.String("name", supplier.Name))
	return supplier, nil
}

// UpdateSupplier validates the input and replaces every caller-supplied
// field of an existing supplier
func (s *Service) UpdateSupplier(ctx context.Context, id uint, in SupplierInput) (*model.Supplier, error) {
	if err := validateSupplierInput(&in); err != nil {
		return nil, err
	}

	supplier, err := s.store.GetSupplier(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, &NotFoundError{Entity: entitySupplier, ID: id}
		}
		return nil, infraErr("get supplier", err)
	}

	supplier.Name = in.Name
	supplier.ContactInfo = in.ContactInfo
	supplier.Terms = in.Terms

	if err := s.store.SaveSupplier(ctx, supplier); err != nil {
		return nil, infraErr("save supplier", err)
	}

	s.log.Info("supplier updated",
		zap.Uint("id", supplier.ID),
		zap.String("name", supplier.Name))
	return supplier, nil
}

// DeleteSupplier removes a supplier row. The delete is rejected with
// ConflictError while any medicine still references the supplier; deleting
// medicines is never implied by deleting their supplier.
func (s *Service) DeleteSupplier(ctx context.Context, id uint) error {
	if _, err := s.store.GetSupplier(ctx, id); err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return &NotFoundError{Entity: entitySupplier, ID: id}
		}
		return infraErr("get supplier", err)
	}

	dependents, err := s.store.CountMedicinesBySupplier(ctx, id)
	if err != nil {
		return infraErr("count dependent medicines", err)
	}
	if dependents > 0 {
		return &ConflictError{Entity: entitySupplier, ID: id, Dependents: dependents}
	}

	if err := s.store.DeleteSupplier(ctx, id); err != nil {
		switch {
		case errors.Is(err, ErrRowNotFound):
			return &NotFoundError{Entity: entitySupplier, ID: id}
		case errors.Is(err, ErrForeignKeyViolation):
			// A medicine was created for this supplier after the dependent
			// count; the database constraint wins.
			count, countErr := s.store.CountMedicinesBySupplier(ctx, id)
			if countErr != nil {
				count = 1
			}
			return &ConflictError{Entity: entitySupplier, ID: id, Dependents: count}
		default:
			return infraErr("delete supplier", err)
		}
	}

	s.log.Info("supplier deleted", zap.Uint("id", id))
	return nil
}
