package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gartstein/k9registry/internal/pkg/utils"
	e "github.com/gartstein/k9registry/internal/registry/errors"
	"github.com/gartstein/k9registry/internal/registry/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// dtoToCreateRequest converts a create payload into a service request.
func dtoToCreateRequest(dto *CreateDogRequest) models.CreateDogRequest {
	return models.CreateDogRequest{
		Name:            dto.Name,
		Breed:           dto.Breed,
		SupplierCode:    dto.SupplierCode,
		BadgeNumber:     dto.BadgeNumber,
		Gender:          models.Gender(dto.Gender),
		BirthDate:       dateToTime(dto.BirthDate),
		Status:          models.Status(dto.Status),
		Characteristics: dtoToCharacteristics(dto.Characteristics),
	}
}

func dtoToUpdateRequest(dto *UpdateDogRequest) models.UpdateDogRequest {
	return models.UpdateDogRequest{
		Name:            dto.Name,
		Breed:           dto.Breed,
		SupplierCode:    dto.SupplierCode,
		BadgeNumber:     dto.BadgeNumber,
		Gender:          models.Gender(dto.Gender),
		Status:          models.Status(dto.Status),
		Characteristics: dtoToCharacteristics(dto.Characteristics),
	}
}

func dtoToRetireRequest(dto *RetireDogRequest) models.RetireDogRequest {
	return models.RetireDogRequest{
		LeavingDate:   dateToTime(dto.LeavingDate),
		LeavingReason: models.LeavingReason(dto.LeavingReason),
	}
}

func dtoToSupplierRequest(dto *SupplierRequest) models.SupplierRequest {
	return models.SupplierRequest{
		Code:          dto.Code,
		Name:          dto.Name,
		ContactPerson: dto.ContactPerson,
		Email:         dto.Email,
		Phone:         dto.Phone,
	}
}

func dtoToCharacteristics(dto *CharacteristicsDTO) *models.Characteristics {
	if dto == nil {
		return nil
	}
	return &models.Characteristics{
		IsAggressive:           dto.IsAggressive,
		RequiresSeparateKennel: dto.RequiresSeparateKennel,
		IsNoiseTolerant:        dto.IsNoiseTolerant,
		HasSpecialDiet:         dto.HasSpecialDiet,
		DietaryRequirements:    dto.DietaryRequirements,
		RequiresExercise:       dto.RequiresExercise,
		ExerciseNotes:          dto.ExerciseNotes,
		HasMedicalConditions:   dto.HasMedicalConditions,
		MedicalNotes:           dto.MedicalNotes,
		Temperament:            dto.Temperament,
	}
}

func characteristicsToDTO(c *models.Characteristics) *CharacteristicsDTO {
	if c == nil {
		return nil
	}
	return &CharacteristicsDTO{
		IsAggressive:           c.IsAggressive,
		RequiresSeparateKennel: c.RequiresSeparateKennel,
		IsNoiseTolerant:        c.IsNoiseTolerant,
		HasSpecialDiet:         c.HasSpecialDiet,
		DietaryRequirements:    c.DietaryRequirements,
		RequiresExercise:       c.RequiresExercise,
		ExerciseNotes:          c.ExerciseNotes,
		HasMedicalConditions:   c.HasMedicalConditions,
		MedicalNotes:           c.MedicalNotes,
		Temperament:            c.Temperament,
	}
}

// dogToResponse converts a domain dog into its detail representation.
func dogToResponse(dog *models.Dog) DogResponse {
	resp := DogResponse{
		ID:                dog.ID,
		Name:              dog.Name,
		Breed:             dog.Breed,
		BadgeNumber:       dog.BadgeNumber,
		Gender:            string(dog.Gender),
		BirthDate:         Date{dog.BirthDate},
		DateAcquired:      Date{dog.DateAcquired},
		Status:            string(dog.Status),
		StatusDescription: dog.Status.Description(),
		Characteristics:   characteristicsToDTO(dog.Characteristics),
		Deleted:           dog.Deleted,
		DeletedAt:         dog.DeletedAt,
	}
	if dog.Supplier != nil {
		resp.Supplier = &SupplierInfo{
			ID:            dog.Supplier.ID,
			Code:          dog.Supplier.Code,
			Name:          dog.Supplier.Name,
			ContactPerson: dog.Supplier.ContactPerson,
			Email:         dog.Supplier.Email,
			Phone:         dog.Supplier.Phone,
		}
	}
	if dog.LeavingDate != nil {
		resp.LeavingDate = &Date{*dog.LeavingDate}
	}
	if dog.LeavingReason != nil {
		resp.LeavingReason = utils.Ptr(string(*dog.LeavingReason))
		resp.LeavingReasonDescription = utils.Ptr(dog.LeavingReason.Description())
	}
	return resp
}

func dogsToResponse(dogs []models.Dog) []DogResponse {
	out := make([]DogResponse, 0, len(dogs))
	for i := range dogs {
		out = append(out, dogToResponse(&dogs[i]))
	}
	return out
}

func supplierToResponse(s *models.Supplier) SupplierResponse {
	dogs := make([]DogSummaryResponse, 0, len(s.Dogs))
	for _, d := range s.Dogs {
		dogs = append(dogs, DogSummaryResponse{
			ID:          d.ID,
			Name:        d.Name,
			Breed:       d.Breed,
			BadgeNumber: d.BadgeNumber,
			Gender:      string(d.Gender),
			BirthDate:   Date{d.BirthDate},
		})
	}
	return SupplierResponse{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Dogs:          dogs,
	}
}

// pageToResponse maps the content of a page with convert.
func pageToResponse[T, R any](page *models.Page[T], convert func(*T) R) PageResponse[R] {
	content := make([]R, 0, len(page.Content))
	for i := range page.Content {
		content = append(content, convert(&page.Content[i]))
	}
	m := page.Metadata
	return PageResponse[R]{
		Content: content,
		Metadata: PageMetadata{
			Page:          m.Page,
			Size:          m.Size,
			TotalElements: m.TotalElements,
			TotalPages:    m.TotalPages,
			First:         m.First,
			Last:          m.Last,
		},
	}
}

func dateToTime(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	return utils.Ptr(d.Time)
}

// parseID reads the {id} path parameter.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Invalid("id", fmt.Sprintf("Invalid ID '%s'", raw))
	}
	return id, nil
}

// parsePage reads pageNo and pageSize, defaulting absent values.
func parsePage(r *http.Request, defaultSize int) (models.PageRequest, error) {
	page := models.PageRequest{PageNo: models.DefaultPageNo, PageSize: defaultSize}
	v := e.NewValidationError("Validation failed")
	q := r.URL.Query()
	if raw := q.Get("pageNo"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			v.Add("pageNo", "Page number must be an integer")
		}
		page.PageNo = n
	}
	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			v.Add("pageSize", "Page size must be an integer")
		}
		page.PageSize = n
	}
	if err := v.OrNil(); err != nil {
		return models.PageRequest{}, err
	}
	return page, nil
}

// parseFilter decodes the optional JSON filter query parameter.
func parseFilter(r *http.Request) (models.SearchFilter, error) {
	raw := r.URL.Query().Get("filter")
	if raw == "" {
		return models.SearchFilter{}, nil
	}
	var dto SearchFilterDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return models.SearchFilter{}, e.Invalid("filter", "Invalid filter parameter")
	}
	return models.SearchFilter{
		Name:         dto.Name,
		Breed:        dto.Breed,
		SupplierCode: dto.SupplierCode,
	}, nil
}

// requiredParam reads a mandatory query parameter.
func requiredParam(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", e.Invalid(name, fmt.Sprintf("Query parameter '%s' is required", name))
	}
	return v, nil
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return e.Invalid("body", "Malformed request body: "+err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service and repository errors to the error envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{Message: err.Error()}
	switch {
	case errors.Is(err, e.ErrNotFound):
		resp.Status = http.StatusNotFound
	case errors.Is(err, e.ErrAlreadyExists),
		errors.Is(err, e.ErrInvalidState),
		errors.Is(err, e.ErrVersionConflict):
		resp.Status = http.StatusConflict
	case errors.Is(err, e.ErrInvalidInput):
		resp.Status = http.StatusBadRequest
		if v, ok := e.AsValidation(err); ok {
			resp.Message = v.Message
			resp.Errors = v.Fields
		}
	default:
		h.logger.Error("Internal server error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		resp.Status = http.StatusInternalServerError
		resp.Message = "internal server error"
	}
	writeJSON(w, resp.Status, resp)
}
