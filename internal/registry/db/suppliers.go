package db

import (
	"context"
	"errors"
	"time"

	dbmodels "github.com/gartstein/k9registry/internal/registry/db/models"
	e "github.com/gartstein/k9registry/internal/registry/errors"
	"github.com/gartstein/k9registry/internal/registry/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func preloadDogs(db *gorm.DB) *gorm.DB {
	return db.Order("police_dogs.id ASC")
}

// CreateSupplier inserts a supplier and sets its generated ID. The version
// starts at zero.
func (r *Repository) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	rec := dbmodels.SupplierFromDomain(supplier)
	rec.Version = 0
	result := r.conn(ctx).Omit(clause.Associations).Create(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.AlreadyExists("Supplier", "code", supplier.Code)
		}
		return result.Error
	}
	supplier.ID = rec.ID
	supplier.Version = rec.Version
	if supplier.Dogs == nil {
		supplier.Dogs = []models.DogSummary{}
	}
	return nil
}

// GetSupplier loads a supplier by id with its dogs.
func (r *Repository) GetSupplier(ctx context.Context, id int64) (*models.Supplier, error) {
	var rec dbmodels.Supplier
	result := r.conn(ctx).Preload("Dogs", preloadDogs).First(&rec, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("Supplier", "id", id)
		}
		return nil, result.Error
	}
	return rec.ToDomain(), nil
}

// GetSupplierByCode loads a supplier by its unique code with its dogs.
func (r *Repository) GetSupplierByCode(ctx context.Context, code string) (*models.Supplier, error) {
	var rec dbmodels.Supplier
	result := r.conn(ctx).Preload("Dogs", preloadDogs).First(&rec, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("Supplier", "code", code)
		}
		return nil, result.Error
	}
	return rec.ToDomain(), nil
}

func (r *Repository) SupplierExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	result := r.conn(ctx).Model(&dbmodels.Supplier{}).
		Where("code = ?", code).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// ListSuppliers returns one page of suppliers ordered by id.
func (r *Repository) ListSuppliers(ctx context.Context, page models.PageRequest) (*models.Page[models.Supplier], error) {
	var total int64
	if err := r.conn(ctx).Model(&dbmodels.Supplier{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var recs []dbmodels.Supplier
	result := r.conn(ctx).
		Preload("Dogs", preloadDogs).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}

	content := make([]models.Supplier, 0, len(recs))
	for i := range recs {
		content = append(content, *recs[i].ToDomain())
	}
	return models.NewPage(content, page, total), nil
}

// UpdateSupplier writes code, name and contact fields guarded by the
// supplier's version, and bumps the version on success.
func (r *Repository) UpdateSupplier(ctx context.Context, supplier *models.Supplier) error {
	result := r.conn(ctx).Model(&dbmodels.Supplier{}).
		Where("id = ? AND version = ?", supplier.ID, supplier.Version).
		Updates(map[string]any{
			"code":           supplier.Code,
			"name":           supplier.Name,
			"contact_person": supplier.ContactPerson,
			"email":          supplier.Email,
			"phone":          supplier.Phone,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.AlreadyExists("Supplier", "code", supplier.Code)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, &dbmodels.Supplier{}, "Supplier", supplier.ID)
	}
	supplier.Version++
	return nil
}

// missingOrStale explains a guarded update that touched no rows.
func (r *Repository) missingOrStale(ctx context.Context, model any, entity string, id int64) error {
	var count int64
	if err := r.conn(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return e.NotFound(entity, "ID", id)
	}
	return e.VersionConflict(entity, id)
}
