package controller

import (
	"context"
	"errors"
	"fmt"

	e "github.com/gartstein/k9registry/internal/registry/errors"
	"github.com/gartstein/k9registry/internal/registry/events"
	"github.com/gartstein/k9registry/internal/registry/models"
	"go.uber.org/zap"
)

// SupplierService manages suppliers and enforces code uniqueness.
type SupplierService struct {
	repo     SupplierRepository
	producer EventProducer
	metrics  MetricsRecorder
	logger   *zap.Logger
}

// NewSupplierService constructs a SupplierService. metrics may be nil.
func NewSupplierService(repo SupplierRepository, producer EventProducer, metrics MetricsRecorder, logger *zap.Logger) *SupplierService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &SupplierService{
		repo:     repo,
		producer: producer,
		metrics:  metrics,
		logger:   logger.Named("supplier_service"),
	}
}

// GetSupplierByCode resolves a supplier by its code.
func (s *SupplierService) GetSupplierByCode(ctx context.Context, code string) (*models.Supplier, error) {
	supplier, err := s.repo.GetSupplierByCode(ctx, code)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			s.logger.Error("Supplier code not found", zap.String("supplier_code", code))
			return nil, err
		}
		return nil, fmt.Errorf("failed to get supplier by code: %w", err)
	}
	return supplier, nil
}

// GetSupplier retrieves a supplier and its dogs by ID.
func (s *SupplierService) GetSupplier(ctx context.Context, id int64) (*models.Supplier, error) {
	supplier, err := s.repo.GetSupplier(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			s.logger.Error("Supplier not found", zap.Int64("supplier_id", id))
			return nil, err
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return supplier, nil
}

// ListSuppliers returns one page of suppliers without filtering.
func (s *SupplierService) ListSuppliers(ctx context.Context, page models.PageRequest) (*models.Page[models.Supplier], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	result, err := s.repo.ListSuppliers(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return result, nil
}

// CreateSupplier registers a new supplier with an empty dog list.
func (s *SupplierService) CreateSupplier(ctx context.Context, req models.SupplierRequest) (*models.Supplier, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	supplier := &models.Supplier{
		Code:          req.Code,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Dogs:          []models.DogSummary{},
	}

	err := s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureCodeFree(ctx, req.Code); err != nil {
			return err
		}
		if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
			return wrapStoreError("failed to create supplier", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created new supplier", zap.Int64("supplier_id", supplier.ID))
	s.metrics.RecordSupplierOperation("create")
	s.publish(events.SupplierCreated, supplier)
	return supplier, nil
}

// UpdateSupplier overwrites the code, name and contact fields of a supplier.
// The ID and the supplier's dogs are untouched.
func (s *SupplierService) UpdateSupplier(ctx context.Context, id int64, req models.SupplierRequest) (*models.Supplier, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var supplier *models.Supplier
	err := s.repo.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.GetSupplier(ctx, id)
		if err != nil {
			return err
		}
		if current.Code != req.Code {
			if err := s.ensureCodeFree(ctx, req.Code); err != nil {
				return err
			}
		}

		current.Code = req.Code
		current.Name = req.Name
		current.ContactPerson = req.ContactPerson
		current.Email = req.Email
		current.Phone = req.Phone
		if err := s.repo.UpdateSupplier(ctx, current); err != nil {
			return wrapStoreError("failed to update supplier", err)
		}
		supplier = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated supplier", zap.Int64("supplier_id", id))
	s.metrics.RecordSupplierOperation("update")
	s.publish(events.SupplierUpdated, supplier)
	return supplier, nil
}

func (s *SupplierService) ensureCodeFree(ctx context.Context, code string) error {
	exists, err := s.repo.SupplierExistsByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to check supplier code existence: %w", err)
	}
	if exists {
		s.logger.Error("Supplier code already exists", zap.String("supplier_code", code))
		return e.AlreadyExists("Supplier", "code", code)
	}
	return nil
}

func (s *SupplierService) publish(eventType events.EventType, supplier *models.Supplier) {
	snapshot := *supplier
	snapshot.Dogs = append([]models.DogSummary(nil), supplier.Dogs...)
	go func() {
		s.producer.ProduceSupplier(eventType, &snapshot)
	}()
}

// wrapStoreError keeps domain errors as they are and wraps anything else.
func wrapStoreError(msg string, err error) error {
	var domainErr *e.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
