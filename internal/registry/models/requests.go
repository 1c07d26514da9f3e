package models

import (
	"strings"
	"time"

	e "github.com/gartstein/k9registry/internal/registry/errors"
)

// CreateDogRequest carries the fields needed to register a new dog.
type CreateDogRequest struct {
	Name            string
	Breed           string
	SupplierCode    string
	BadgeNumber     string
	Gender          Gender
	BirthDate       *time.Time
	Status          Status
	Characteristics *Characteristics
}

// Validate checks presence and cross-field rules. today is the current
// calendar date; the birth date must fall strictly before it.
func (r *CreateDogRequest) Validate(today time.Time) error {
	v := e.NewValidationError("Validation failed")
	requireText(v, "name", r.Name, "Name is required")
	requireText(v, "breed", r.Breed, "Breed is required")
	requireText(v, "supplierCode", r.SupplierCode, "Supplier code is required")
	requireText(v, "badgeNumber", r.BadgeNumber, "Badge number is required")
	requireGender(v, r.Gender)

	switch {
	case r.BirthDate == nil:
		v.Add("birthDate", "Birth date is required")
	case !DateOnly(*r.BirthDate).Before(DateOnly(today)):
		v.Add("birthDate", "Birth date must be in the past")
	}

	addStatusError(v, ValidateStatus(OperationCreate, r.Status))
	return v.OrNil()
}

// UpdateDogRequest carries the full replacement of a dog's mutable fields.
type UpdateDogRequest struct {
	Name            string
	Breed           string
	SupplierCode    string
	BadgeNumber     string
	Gender          Gender
	Status          Status
	Characteristics *Characteristics
}

// Validate checks presence and the update status set.
func (r *UpdateDogRequest) Validate() error {
	v := e.NewValidationError("Validation failed")
	requireText(v, "name", r.Name, "Name is required")
	requireText(v, "breed", r.Breed, "Breed is required")
	requireText(v, "supplierCode", r.SupplierCode, "Supplier code is required")
	requireText(v, "badgeNumber", r.BadgeNumber, "Badge number is required")
	requireGender(v, r.Gender)
	addStatusError(v, ValidateStatus(OperationUpdate, r.Status))
	return v.OrNil()
}

// RetireDogRequest carries the leaving details recorded on retirement.
type RetireDogRequest struct {
	LeavingDate   *time.Time
	LeavingReason LeavingReason
}

// Validate checks that the leaving date is set and not after today, and that
// the reason is known.
func (r *RetireDogRequest) Validate(today time.Time) error {
	v := e.NewValidationError("Validation failed")
	switch {
	case r.LeavingDate == nil:
		v.Add("leavingDate", "Leaving date is required")
	case DateOnly(*r.LeavingDate).After(DateOnly(today)):
		v.Add("leavingDate", "Leaving date cannot be in the future")
	}
	switch {
	case r.LeavingReason == "":
		v.Add("leavingReason", "Leaving reason is required.")
	case !r.LeavingReason.Valid():
		v.Add("leavingReason", "Invalid leaving reason '"+string(r.LeavingReason)+"'")
	}
	return v.OrNil()
}

// SupplierRequest carries the fields for creating or replacing a supplier.
type SupplierRequest struct {
	Code          string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
}

// Validate checks the required supplier fields.
func (r *SupplierRequest) Validate() error {
	v := e.NewValidationError("Validation failed")
	requireText(v, "code", r.Code, "Supplier code must not be empty")
	requireText(v, "name", r.Name, "Supplier name must not be empty")
	return v.OrNil()
}

func requireText(v *e.ValidationError, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, message)
	}
}

func requireGender(v *e.ValidationError, g Gender) {
	switch {
	case g == "":
		v.Add("gender", "Gender is required")
	case !g.Valid():
		v.Add("gender", "Invalid gender '"+string(g)+"'")
	}
}

func addStatusError(v *e.ValidationError, err error) {
	if err == nil {
		return
	}
	if sv, ok := e.AsValidation(err); ok {
		for field, msg := range sv.Fields {
			v.Add(field, msg)
		}
	}
}
