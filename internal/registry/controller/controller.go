// Package controller implements the core business logic (service layer)
// of the registry: the Supplier Directory Service and the Dog Lifecycle
// Service. Each mutating operation runs in one store transaction and emits
// an event only once that transaction has committed.
package controller

import (
	"context"

	"github.com/gartstein/k9registry/internal/registry/events"
	"github.com/gartstein/k9registry/internal/registry/models"
)

// EventProducer publishes lifecycle events. Implementations must not block.
type EventProducer interface {
	ProduceDog(eventType events.EventType, dog *models.Dog)
	ProduceSupplier(eventType events.EventType, supplier *models.Supplier)
}

// MetricsRecorder counts successful lifecycle operations.
type MetricsRecorder interface {
	RecordDogOperation(op string)
	RecordSupplierOperation(op string)
}

// Transactor runs fn inside one store transaction. Store calls made with
// the context passed to fn take part in it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SupplierRepository defines the storage interface for Supplier objects.
type SupplierRepository interface {
	Transactor
	CreateSupplier(ctx context.Context, supplier *models.Supplier) error
	GetSupplier(ctx context.Context, id int64) (*models.Supplier, error)
	GetSupplierByCode(ctx context.Context, code string) (*models.Supplier, error)
	SupplierExistsByCode(ctx context.Context, code string) (bool, error)
	ListSuppliers(ctx context.Context, page models.PageRequest) (*models.Page[models.Supplier], error)
	UpdateSupplier(ctx context.Context, supplier *models.Supplier) error
}

// DogRepository defines the storage interface for Dog objects.
type DogRepository interface {
	Transactor
	CreateDog(ctx context.Context, dog *models.Dog) error
	GetDog(ctx context.Context, id int64) (*models.Dog, error)
	DogExistsByBadgeNumber(ctx context.Context, badgeNumber string) (bool, error)
	UpdateDog(ctx context.Context, dog *models.Dog) error
	SearchDogs(ctx context.Context, filter models.SearchFilter, page models.PageRequest) (*models.Page[models.Dog], error)
	ListDogsByGender(ctx context.Context, gender models.Gender) ([]models.Dog, error)
	ListDogsByStatus(ctx context.Context, status models.Status) ([]models.Dog, error)
	ListDogsByLeavingReason(ctx context.Context, reason models.LeavingReason) ([]models.Dog, error)
}

// SupplierDirectory resolves the supplier a dog refers to.
type SupplierDirectory interface {
	GetSupplierByCode(ctx context.Context, code string) (*models.Supplier, error)
}

type nopMetrics struct{}

func (nopMetrics) RecordDogOperation(string)      {}
func (nopMetrics) RecordSupplierOperation(string) {}
