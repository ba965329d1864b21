// Package inventorytest provides an in-memory inventory.Store for tests.
// It mirrors the gorm store's contract, including the foreign key
// restriction between medicines and suppliers.
package inventorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"pharmacy-warehouse/internal/inventory"
	"pharmacy-warehouse/internal/model"
)

// Store is an in-memory implementation of inventory.Store.
type Store struct {
	mu sync.Mutex

	medicines map[uint]model.Medicine
	suppliers map[uint]model.Supplier

	nextMedicineID uint
	nextSupplierID uint

	// FailWith, when set, makes every store call fail with this error.
	// Used to exercise infrastructure error handling.
	FailWith error
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		medicines:      make(map[uint]model.Medicine),
		suppliers:      make(map[uint]model.Supplier),
		nextMedicineID: 1,
		nextSupplierID: 1,
	}
}

func (s *Store) ListMedicines(ctx context.Context) ([]model.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	out := make([]model.Medicine, 0, len(s.medicines))
	for _, m := range s.medicines {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetMedicine(ctx context.Context, id uint) (*model.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	m, ok := s.medicines[id]
	if !ok {
		return nil, inventory.ErrRowNotFound
	}
	return &m, nil
}

func (s *Store) InsertMedicine(ctx context.Context, m *model.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	if _, ok := s.suppliers[m.SupplierID]; !ok {
		return inventory.ErrForeignKeyViolation
	}

	m.ID = s.nextMedicineID
	s.nextMedicineID++
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	s.medicines[m.ID] = *m
	return nil
}

func (s *Store) SaveMedicine(ctx context.Context, m *model.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	if _, ok := s.medicines[m.ID]; !ok {
		return inventory.ErrRowNotFound
	}
	if _, ok := s.suppliers[m.SupplierID]; !ok {
		return inventory.ErrForeignKeyViolation
	}

	m.UpdatedAt = time.Now()
	s.medicines[m.ID] = *m
	return nil
}

func (s *Store) DeleteMedicine(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}

	if _, ok := s.medicines[id]; !ok {
		return inventory.ErrRowNotFound
	}
	delete(s.medicines, id)
	return nil
}

func (s *Store) ListLowStockMedicines(ctx context.Context) ([]model.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	out := make([]model.Medicine, 0)
	for _, m := range s.medicines {
		if m.Quantity <= m.ReorderLevel {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out, nil
}

func (s *Store) CountMedicinesBySupplier(ctx context.Context, supplierID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return 0, s.FailWith
	}

	var count int64
	for _, m := range s.medicines {
		if m.SupplierID == supplierID {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	out := make([]model.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		out = append(out, sup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetSupplier(ctx context.Context, id uint) (*model.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	sup, ok := s.suppliers[id]
	if !ok {
		return nil, inventory.ErrRowNotFound
	}
	return &sup, nil
}

func (s *Store) InsertSupplier(ctx context.Context, sup *model.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}

	sup.ID = s.nextSupplierID
	s.nextSupplierID++
	now := time.Now()
	sup.CreatedAt = now
	sup.UpdatedAt = now
	s.suppliers[sup.ID] = *sup
	return nil
}

func (s *Store) SaveSupplier(ctx context.Context, sup *model.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	if _, ok := s.suppliers[sup.ID]; !ok {
		return inventory.ErrRowNotFound
	}

	sup.UpdatedAt = time.Now()
	s.suppliers[sup.ID] = *sup
	return nil
}

func (s *Store) DeleteSupplier(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}

	if _, ok := s.suppliers[id]; !ok {
		return inventory.ErrRowNotFound
	}
	for _, m := range s.medicines {
		if m.SupplierID == id {
			return inventory.ErrForeignKeyViolation
		}
	}
	delete(s.suppliers, id)
	return nil
}
