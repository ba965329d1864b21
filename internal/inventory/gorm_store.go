package inventory

import (
	"context"
	"errors"
	"time"

	"pharmacy-warehouse/internal/model"
	"pharmacy-warehouse/prometheus"

	"gorm.io/gorm"
)

// gormStore implements Store against a gorm-managed PostgreSQL database.
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a Store backed by the given gorm database handle
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// translateErr maps gorm sentinel errors to store sentinel errors
func translateErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRowNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKeyViolation
	default:
		return err
	}
}

func (g *gormStore) ListMedicines(ctx context.Context) ([]model.Medicine, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var medicines []model.Medicine
	result := g.db.WithContext(ctx).Order("id").Find(&medicines)
	if result.Error != nil {
		return nil, translateErr(result.Error)
	}
	return medicines, nil
}

func (g *gormStore) GetMedicine(ctx context.Context, id uint) (*model.Medicine, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var medicine model.Medicine
	result := g.db.WithContext(ctx).First(&medicine, id)
	if result.Error != nil {
		return nil, translateErr(result.Error)
	}
	return &medicine, nil
}

func (g *gormStore) InsertMedicine(ctx context.Context, m *model.Medicine) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	result := g.db.WithContext(ctx).Create(m)
	return translateOrNil(result.Error)
}

func (g *gormStore) SaveMedicine(ctx context.Context, m *model.Medicine) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := g.db.WithContext(ctx).Save(m)
	return translateOrNil(result.Error)
}

func (g *gormStore) DeleteMedicine(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := g.db.WithContext(ctx).Delete(&model.Medicine{}, id)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRowNotFound
	}
	return nil
}

func (g *gormStore) ListLowStockMedicines(ctx context.Context) ([]model.Medicine, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var medicines []model.Medicine
	result := g.db.WithContext(ctx).
		Where("quantity <= reorder_level").
		Order("quantity").
		Find(&medicines)
	if result.Error != nil {
		return nil, translateErr(result.Error)
	}
	return medicines, nil
}

func (g *gormStore) CountMedicinesBySupplier(ctx context.Context, supplierID uint) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var count int64
	result := g.db.WithContext(ctx).
		Model(&model.Medicine{}).
		Where("supplier_id = ?", supplierID).
		Count(&count)
	if result.Error != nil {
		return 0, translateErr(result.Error)
	}
	return count, nil
}

func (g *gormStore) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var suppliers []model.Supplier
	result := g.db.WithContext(ctx).Order("id").Find(&suppliers)
	if result.Error != nil {
		return nil, translateErr(result.Error)
	}
	return suppliers, nil
}

func (g *gormStore) GetSupplier(ctx context.Context, id uint) (*model.Supplier, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var supplier model.Supplier
	result := g.db.WithContext(ctx).First(&supplier, id)
	if result.Error != nil {
		return nil, translateErr(result.Error)
	}
	return &supplier, nil
}

func (g *gormStore) InsertSupplier(ctx context.Context, s *model.Supplier) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	result := g.db.WithContext(ctx).Create(s)
	return translateOrNil(result.Error)
}

func (g *gormStore) SaveSupplier(ctx context.Context, s *model.Supplier) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := g.db.WithContext(ctx).Save(s)
	return translateOrNil(result.Error)
}

func (g *gormStore) DeleteSupplier(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := g.db.WithContext(ctx).Delete(&model.Supplier{}, id)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRowNotFound
	}
	return nil
}

func translateOrNil(err error) error {
	if err == nil {
		return nil
	}
	return translateErr(err)
}
