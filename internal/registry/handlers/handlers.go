// Package handlers provides the REST request layer of the registry. It
// translates HTTP verbs, paths and query parameters into dog lifecycle and
// supplier directory calls and renders their results as JSON.
package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/k9registry/internal/registry/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DogController defines the dog lifecycle operations the handlers invoke.
type DogController interface {
	CreateDog(ctx context.Context, req models.CreateDogRequest) (*models.Dog, error)
	SearchDogs(ctx context.Context, filter models.SearchFilter, page models.PageRequest) (*models.Page[models.Dog], error)
	GetDog(ctx context.Context, id int64) (*models.Dog, error)
	DeleteDog(ctx context.Context, id int64) error
	UpdateDog(ctx context.Context, id int64, req models.UpdateDogRequest) (*models.Dog, error)
	RetireDog(ctx context.Context, id int64, req models.RetireDogRequest) (*models.Dog, error)
	ListDogsByGender(ctx context.Context, gender models.Gender) ([]models.Dog, error)
	ListDogsByStatus(ctx context.Context, status models.Status) ([]models.Dog, error)
	ListDogsByLeavingReason(ctx context.Context, reason models.LeavingReason) ([]models.Dog, error)
}

// SupplierController defines the supplier directory operations the handlers invoke.
type SupplierController interface {
	GetSupplier(ctx context.Context, id int64) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, page models.PageRequest) (*models.Page[models.Supplier], error)
	CreateSupplier(ctx context.Context, req models.SupplierRequest) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, req models.SupplierRequest) (*models.Supplier, error)
}

// Handler serves the dog and supplier endpoints.
type Handler struct {
	dogs            DogController
	suppliers       SupplierController
	logger          *zap.Logger
	defaultPageSize int
}

// NewHandler constructs a Handler. A non-positive defaultPageSize falls back
// to models.DefaultPageSize.
func NewHandler(dogs DogController, suppliers SupplierController, logger *zap.Logger, defaultPageSize int) *Handler {
	if defaultPageSize <= 0 {
		defaultPageSize = models.DefaultPageSize
	}
	return &Handler{
		dogs:            dogs,
		suppliers:       suppliers,
		logger:          logger.Named("http_handler"),
		defaultPageSize: defaultPageSize,
	}
}

// RegisterRoutes mounts the dog and supplier endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dogs", func(r chi.Router) {
		r.Post("/", h.CreateDog)
		r.Get("/", h.SearchDogs)
		r.Get("/search/by-gender", h.ListDogsByGender)
		r.Get("/search/by-status", h.ListDogsByStatus)
		r.Get("/search/by-leaving-reason", h.ListDogsByLeavingReason)
		r.Get("/{id}", h.GetDog)
		r.Put("/{id}", h.UpdateDog)
		r.Delete("/{id}", h.DeleteDog)
		r.Post("/{id}/retire", h.RetireDog)
	})
	r.Route("/supplier", func(r chi.Router) {
		r.Get("/", h.ListSuppliers)
		r.Post("/", h.CreateSupplier)
		r.Get("/{id}", h.GetSupplier)
		r.Put("/{id}", h.UpdateSupplier)
	})
}

// CreateDog handles POST /dogs.
func (h *Handler) CreateDog(w http.ResponseWriter, r *http.Request) {
	var body CreateDogRequest
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	dog, err := h.dogs.CreateDog(r.Context(), dtoToCreateRequest(&body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dogToResponse(dog))
}

// SearchDogs handles GET /dogs?filter=&pageNo=&pageSize=.
func (h *Handler) SearchDogs(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := parsePage(r, h.defaultPageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.dogs.SearchDogs(r.Context(), filter, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(result, dogToResponse))
}

// GetDog handles GET /dogs/{id}.
func (h *Handler) GetDog(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	dog, err := h.dogs.GetDog(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dogToResponse(dog))
}

// DeleteDog handles DELETE /dogs/{id}.
func (h *Handler) DeleteDog(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.dogs.DeleteDog(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateDog handles PUT /dogs/{id}.
func (h *Handler) UpdateDog(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body UpdateDogRequest
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	dog, err := h.dogs.UpdateDog(r.Context(), id, dtoToUpdateRequest(&body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dogToResponse(dog))
}

// RetireDog handles POST /dogs/{id}/retire.
func (h *Handler) RetireDog(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body RetireDogRequest
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	dog, err := h.dogs.RetireDog(r.Context(), id, dtoToRetireRequest(&body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dogToResponse(dog))
}

// ListDogsByGender handles GET /dogs/search/by-gender?gender=.
func (h *Handler) ListDogsByGender(w http.ResponseWriter, r *http.Request) {
	raw, err := requiredParam(r, "gender")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeDogList(w, r, func(ctx context.Context) ([]models.Dog, error) {
		return h.dogs.ListDogsByGender(ctx, models.Gender(raw))
	})
}

// ListDogsByStatus handles GET /dogs/search/by-status?status=.
func (h *Handler) ListDogsByStatus(w http.ResponseWriter, r *http.Request) {
	raw, err := requiredParam(r, "status")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeDogList(w, r, func(ctx context.Context) ([]models.Dog, error) {
		return h.dogs.ListDogsByStatus(ctx, models.Status(raw))
	})
}

// ListDogsByLeavingReason handles GET /dogs/search/by-leaving-reason?leavingReason=.
func (h *Handler) ListDogsByLeavingReason(w http.ResponseWriter, r *http.Request) {
	raw, err := requiredParam(r, "leavingReason")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeDogList(w, r, func(ctx context.Context) ([]models.Dog, error) {
		return h.dogs.ListDogsByLeavingReason(ctx, models.LeavingReason(raw))
	})
}

func (h *Handler) writeDogList(w http.ResponseWriter, r *http.Request, list func(ctx context.Context) ([]models.Dog, error)) {
	dogs, err := list(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dogsToResponse(dogs))
}

// GetSupplier handles GET /supplier/{id}.
func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	supplier, err := h.suppliers.GetSupplier(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, supplierToResponse(supplier))
}

// ListSuppliers handles GET /supplier?pageNo=&pageSize=.
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, h.defaultPageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.suppliers.ListSuppliers(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(result, supplierToResponse))
}

// CreateSupplier handles POST /supplier.
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var body SupplierRequest
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	supplier, err := h.suppliers.CreateSupplier(r.Context(), dtoToSupplierRequest(&body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, supplierToResponse(supplier))
}

// UpdateSupplier handles PUT /supplier/{id}.
func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var body SupplierRequest
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	supplier, err := h.suppliers.UpdateSupplier(r.Context(), id, dtoToSupplierRequest(&body))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, supplierToResponse(supplier))
}
