package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/gartstein/k9registry/internal/registry/errors"
	"github.com/gartstein/k9registry/internal/registry/events"
	"github.com/gartstein/k9registry/internal/registry/models"
	"go.uber.org/zap"
)

// DogService enforces the create, update, delete and retire rules of a
// dog's lifecycle and keeps the dog's supplier reference consistent with
// the supplier's dog list.
type DogService struct {
	repo      DogRepository
	suppliers SupplierDirectory
	producer  EventProducer
	metrics   MetricsRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewDogService constructs a DogService. metrics may be nil.
func NewDogService(repo DogRepository, suppliers SupplierDirectory, producer EventProducer, metrics MetricsRecorder, logger *zap.Logger) *DogService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &DogService{
		repo:      repo,
		suppliers: suppliers,
		producer:  producer,
		metrics:   metrics,
		logger:    logger.Named("dog_service"),
		now:       time.Now,
	}
}

// CreateDog registers a new dog with its supplier. The status must be
// TRAINING or IN_SERVICE and the badge number must not be used by any dog,
// deleted ones included.
func (s *DogService) CreateDog(ctx context.Context, req models.CreateDogRequest) (*models.Dog, error) {
	today := models.DateOnly(s.now())
	if err := req.Validate(today); err != nil {
		return nil, err
	}

	dog := &models.Dog{
		Name:            req.Name,
		Breed:           req.Breed,
		BadgeNumber:     req.BadgeNumber,
		Gender:          req.Gender,
		BirthDate:       models.DateOnly(*req.BirthDate),
		DateAcquired:    today,
		Status:          req.Status,
		Characteristics: req.Characteristics,
		Deleted:         false,
	}

	err := s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		supplier, err := s.suppliers.GetSupplierByCode(ctx, req.SupplierCode)
		if err != nil {
			return err
		}
		if err := s.ensureBadgeFree(ctx, req.BadgeNumber); err != nil {
			return err
		}

		dog.Supplier = supplier
		dog.SupplierID = supplier.ID
		if err := s.repo.CreateDog(ctx, dog); err != nil {
			return wrapStoreError("failed to create dog", err)
		}
		supplier.AttachDog(dog)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created new dog", zap.Int64("dog_id", dog.ID))
	s.metrics.RecordDogOperation("create")
	s.publish(events.DogCreated, dog)
	return dog, nil
}

// SearchDogs returns one page of non-deleted dogs matching filter.
func (s *DogService) SearchDogs(ctx context.Context, filter models.SearchFilter, page models.PageRequest) (*models.Page[models.Dog], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	result, err := s.repo.SearchDogs(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search dogs: %w", err)
	}
	return result, nil
}

// GetDog retrieves a dog by ID, whether or not it has been deleted.
func (s *DogService) GetDog(ctx context.Context, id int64) (*models.Dog, error) {
	dog, err := s.repo.GetDog(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			s.logger.Error("Dog not found", zap.Int64("dog_id", id))
			return nil, err
		}
		return nil, fmt.Errorf("failed to get dog: %w", err)
	}
	return dog, nil
}

// DeleteDog soft deletes a dog. Deleting an already deleted dog succeeds
// without changing it.
func (s *DogService) DeleteDog(ctx context.Context, id int64) error {
	var (
		dog     *models.Dog
		changed bool
	)
	err := s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		dog, err = s.GetDog(ctx, id)
		if err != nil {
			return err
		}
		if !dog.MarkDeleted(s.now()) {
			return nil
		}
		changed = true
		if err := s.repo.UpdateDog(ctx, dog); err != nil {
			return wrapStoreError("failed to delete dog", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !changed {
		s.logger.Warn("Dog is already deleted", zap.Int64("dog_id", id))
		return nil
	}

	s.logger.Info("Soft deleted dog", zap.Int64("dog_id", id))
	s.metrics.RecordDogOperation("delete")
	s.publish(events.DogDeleted, dog)
	return nil
}

// UpdateDog replaces the mutable fields of a dog. Deleted dogs and dogs
// that have LEFT service cannot be updated. A supplier change detaches the
// dog from its previous supplier and points it at the new one.
func (s *DogService) UpdateDog(ctx context.Context, id int64, req models.UpdateDogRequest) (*models.Dog, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var dog *models.Dog
	err := s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.GetDog(ctx, id)
		if err != nil {
			return err
		}
		if err := current.CheckMutable(models.OperationUpdate); err != nil {
			s.logger.Error("Rejected dog update", zap.Int64("dog_id", id), zap.Error(err))
			return err
		}

		if current.BadgeNumber != req.BadgeNumber {
			if err := s.ensureBadgeFree(ctx, req.BadgeNumber); err != nil {
				return err
			}
		}

		if currentSupplierCode(current) != req.SupplierCode {
			if err := s.reassignSupplier(ctx, current, req.SupplierCode); err != nil {
				return err
			}
		}

		current.ApplyUpdate(req)
		if err := s.repo.UpdateDog(ctx, current); err != nil {
			return wrapStoreError("failed to update dog", err)
		}
		dog = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated dog", zap.Int64("dog_id", id))
	s.metrics.RecordDogOperation("update")
	s.publish(events.DogUpdated, dog)
	return dog, nil
}

// RetireDog moves a dog to RETIRED with its leaving details. Retiring a
// dog that is already RETIRED returns it unchanged without writing.
func (s *DogService) RetireDog(ctx context.Context, id int64, req models.RetireDogRequest) (*models.Dog, error) {
	if err := req.Validate(models.DateOnly(s.now())); err != nil {
		return nil, err
	}

	var (
		dog     *models.Dog
		changed bool
	)
	err := s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		dog, err = s.GetDog(ctx, id)
		if err != nil {
			return err
		}
		if err := dog.CheckMutable(models.OperationRetire); err != nil {
			s.logger.Error("Rejected dog retirement", zap.Int64("dog_id", id), zap.Error(err))
			return err
		}
		if !dog.Retire(req) {
			return nil
		}
		changed = true
		if err := s.repo.UpdateDog(ctx, dog); err != nil {
			return wrapStoreError("failed to retire dog", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !changed {
		s.logger.Warn("Dog is already retired", zap.Int64("dog_id", id))
		return dog, nil
	}

	s.logger.Info("Retired dog", zap.Int64("dog_id", id))
	s.metrics.RecordDogOperation("retire")
	s.publish(events.DogRetired, dog)
	return dog, nil
}

// ListDogsByGender returns every dog of the gender, deleted ones included.
func (s *DogService) ListDogsByGender(ctx context.Context, gender models.Gender) ([]models.Dog, error) {
	if !gender.Valid() {
		return nil, e.Invalid("gender", fmt.Sprintf("Invalid gender '%s'", gender))
	}
	dogs, err := s.repo.ListDogsByGender(ctx, gender)
	if err != nil {
		return nil, fmt.Errorf("failed to list dogs by gender: %w", err)
	}
	return dogs, nil
}

// ListDogsByStatus returns every dog in the status, deleted ones included.
func (s *DogService) ListDogsByStatus(ctx context.Context, status models.Status) ([]models.Dog, error) {
	if !status.Valid() {
		return nil, e.Invalid("status", fmt.Sprintf("Invalid status '%s'", status))
	}
	dogs, err := s.repo.ListDogsByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list dogs by status: %w", err)
	}
	return dogs, nil
}

// ListDogsByLeavingReason returns every dog with the leaving reason,
// deleted ones included.
func (s *DogService) ListDogsByLeavingReason(ctx context.Context, reason models.LeavingReason) ([]models.Dog, error) {
	if !reason.Valid() {
		return nil, e.Invalid("leavingReason", fmt.Sprintf("Invalid leaving reason '%s'", reason))
	}
	dogs, err := s.repo.ListDogsByLeavingReason(ctx, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to list dogs by leaving reason: %w", err)
	}
	return dogs, nil
}

// reassignSupplier detaches dog from its current supplier and points it at
// the supplier with code. The new supplier's dog list is not appended to;
// the reference on the dog is what the store persists.
func (s *DogService) reassignSupplier(ctx context.Context, dog *models.Dog, code string) error {
	next, err := s.suppliers.GetSupplierByCode(ctx, code)
	if err != nil {
		return err
	}
	if dog.Supplier != nil {
		dog.Supplier.DetachDog(dog.ID)
	}
	dog.Supplier = next
	dog.SupplierID = next.ID
	return nil
}

func (s *DogService) ensureBadgeFree(ctx context.Context, badgeNumber string) error {
	exists, err := s.repo.DogExistsByBadgeNumber(ctx, badgeNumber)
	if err != nil {
		return fmt.Errorf("failed to check badge number existence: %w", err)
	}
	if exists {
		s.logger.Error("Dog badge number already exists", zap.String("badge_number", badgeNumber))
		return e.AlreadyExists("Dog", "badge number", badgeNumber)
	}
	return nil
}

func (s *DogService) publish(eventType events.EventType, dog *models.Dog) {
	snapshot := *dog
	go func() {
		s.producer.ProduceDog(eventType, &snapshot)
	}()
}

func currentSupplierCode(dog *models.Dog) string {
	if dog.Supplier == nil {
		return ""
	}
	return dog.Supplier.Code
}
