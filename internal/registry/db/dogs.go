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

// CreateDog inserts a dog and sets its generated ID. Only the supplier
// reference column is written; the supplier row is never touched.
func (r *Repository) CreateDog(ctx context.Context, dog *models.Dog) error {
	rec := dbmodels.DogFromDomain(dog)
	rec.Version = 0
	result := r.conn(ctx).Omit(clause.Associations).Create(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.AlreadyExists("Dog", "badge number", dog.BadgeNumber)
		}
		return result.Error
	}
	dog.ID = rec.ID
	dog.Version = rec.Version
	return nil
}

// GetDog loads a dog by id regardless of its deleted flag, with its supplier.
func (r *Repository) GetDog(ctx context.Context, id int64) (*models.Dog, error) {
	var rec dbmodels.Dog
	result := r.conn(ctx).Preload("Supplier").First(&rec, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("Dog", "ID", id)
		}
		return nil, result.Error
	}
	return rec.ToDomain(), nil
}

// DogExistsByBadgeNumber checks every dog, deleted ones included.
func (r *Repository) DogExistsByBadgeNumber(ctx context.Context, badgeNumber string) (bool, error) {
	var count int64
	result := r.conn(ctx).Model(&dbmodels.Dog{}).
		Where("badge_number = ?", badgeNumber).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// UpdateDog writes every stored field of the dog guarded by its version and
// bumps the version on success.
func (r *Repository) UpdateDog(ctx context.Context, dog *models.Dog) error {
	rec := dbmodels.DogFromDomain(dog)
	values := map[string]any{
		"name":           rec.Name,
		"breed":          rec.Breed,
		"supplier_id":    rec.SupplierID,
		"badge_number":   rec.BadgeNumber,
		"gender":         rec.Gender,
		"birth_date":     rec.BirthDate,
		"date_acquired":  rec.DateAcquired,
		"status":         rec.Status,
		"leaving_date":   rec.LeavingDate,
		"leaving_reason": rec.LeavingReason,
		"deleted":        rec.Deleted,
		"deleted_at":     rec.DeletedAt,
		"version":        gorm.Expr("version + 1"),
		"updated_at":     time.Now(),
	}
	for col, v := range rec.Characteristics.Columns() {
		values[col] = v
	}

	result := r.conn(ctx).Model(&dbmodels.Dog{}).
		Where("id = ? AND version = ?", dog.ID, dog.Version).
		Updates(values)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.AlreadyExists("Dog", "badge number", dog.BadgeNumber)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, &dbmodels.Dog{}, "Dog", dog.ID)
	}
	dog.Version++
	return nil
}

// SearchDogs returns one page of non-deleted dogs matching filter, ordered by id.
func (r *Repository) SearchDogs(ctx context.Context, filter models.SearchFilter, page models.PageRequest) (*models.Page[models.Dog], error) {
	q := r.conn(ctx).Model(&dbmodels.Dog{}).
		Joins("JOIN suppliers ON suppliers.id = police_dogs.supplier_id").
		Where("police_dogs.deleted = ?", false)
	if filter.Name != "" {
		q = q.Where(r.containsClause("police_dogs.name"), filter.Name)
	}
	if filter.Breed != "" {
		q = q.Where(r.containsClause("police_dogs.breed"), filter.Breed)
	}
	if filter.SupplierCode != "" {
		q = q.Where(r.containsClause("suppliers.code"), filter.SupplierCode)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var recs []dbmodels.Dog
	result := q.Select("police_dogs.*").
		Preload("Supplier").
		Order("police_dogs.id ASC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	return models.NewPage(toDomainDogs(recs), page, total), nil
}

func (r *Repository) ListDogsByGender(ctx context.Context, gender models.Gender) ([]models.Dog, error) {
	return r.listDogsWhere(ctx, "gender = ?", string(gender))
}

func (r *Repository) ListDogsByStatus(ctx context.Context, status models.Status) ([]models.Dog, error) {
	return r.listDogsWhere(ctx, "status = ?", string(status))
}

func (r *Repository) ListDogsByLeavingReason(ctx context.Context, reason models.LeavingReason) ([]models.Dog, error) {
	return r.listDogsWhere(ctx, "leaving_reason = ?", string(reason))
}

// listDogsWhere runs an exact-match lookup that includes deleted dogs.
func (r *Repository) listDogsWhere(ctx context.Context, query string, arg any) ([]models.Dog, error) {
	var recs []dbmodels.Dog
	result := r.conn(ctx).
		Preload("Supplier").
		Where(query, arg).
		Order("id ASC").
		Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	return toDomainDogs(recs), nil
}

func toDomainDogs(recs []dbmodels.Dog) []models.Dog {
	dogs := make([]models.Dog, 0, len(recs))
	for i := range recs {
		dogs = append(dogs, *recs[i].ToDomain())
	}
	return dogs
}
