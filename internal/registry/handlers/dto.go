package handlers

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date encoded as "2006-01-02".
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("date %q must use the format YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// CharacteristicsDTO is the wire form of a dog's optional attributes.
type CharacteristicsDTO struct {
	IsAggressive           *bool   `json:"isAggressive"`
	RequiresSeparateKennel *bool   `json:"requiresSeparateKennel"`
	IsNoiseTolerant        *bool   `json:"isNoiseTolerant"`
	HasSpecialDiet         *bool   `json:"hasSpecialDiet"`
	DietaryRequirements    *string `json:"dietaryRequirements"`
	RequiresExercise       *bool   `json:"requiresExercise"`
	ExerciseNotes          *string `json:"exerciseNotes"`
	HasMedicalConditions   *bool   `json:"hasMedicalConditions"`
	MedicalNotes           *string `json:"medicalNotes"`
	Temperament            *string `json:"temperament"`
}

type CreateDogRequest struct {
	Name            string              `json:"name"`
	Breed           string              `json:"breed"`
	SupplierCode    string              `json:"supplierCode"`
	BadgeNumber     string              `json:"badgeNumber"`
	Gender          string              `json:"gender"`
	BirthDate       *Date               `json:"birthDate"`
	Status          string              `json:"status"`
	Characteristics *CharacteristicsDTO `json:"characteristics"`
}

type UpdateDogRequest struct {
	Name            string              `json:"name"`
	Breed           string              `json:"breed"`
	SupplierCode    string              `json:"supplierCode"`
	BadgeNumber     string              `json:"badgeNumber"`
	Gender          string              `json:"gender"`
	Status          string              `json:"status"`
	Characteristics *CharacteristicsDTO `json:"characteristics"`
}

type RetireDogRequest struct {
	LeavingDate   *Date  `json:"leavingDate"`
	LeavingReason string `json:"leavingReason"`
}

type SupplierRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

// SearchFilterDTO is the JSON carried in the filter query parameter.
type SearchFilterDTO struct {
	Name         string `json:"name"`
	Breed        string `json:"breed"`
	SupplierCode string `json:"supplierCode"`
}

// SupplierInfo is the supplier as embedded in a dog.
type SupplierInfo struct {
	ID            int64  `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

type DogResponse struct {
	ID                       int64               `json:"id"`
	Name                     string              `json:"name"`
	Breed                    string              `json:"breed"`
	Supplier                 *SupplierInfo       `json:"supplier"`
	BadgeNumber              string              `json:"badgeNumber"`
	Gender                   string              `json:"gender"`
	BirthDate                Date                `json:"birthDate"`
	DateAcquired             Date                `json:"dateAcquired"`
	Status                   string              `json:"status"`
	StatusDescription        string              `json:"statusDescription"`
	LeavingDate              *Date               `json:"leavingDate"`
	LeavingReason            *string             `json:"leavingReason"`
	LeavingReasonDescription *string             `json:"leavingReasonDescription,omitempty"`
	Characteristics          *CharacteristicsDTO `json:"characteristics"`
	Deleted                  bool                `json:"deleted"`
	DeletedAt                *time.Time          `json:"deletedAt"`
}

type DogSummaryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Breed       string `json:"breed"`
	BadgeNumber string `json:"badgeNumber"`
	Gender      string `json:"gender"`
	BirthDate   Date   `json:"birthDate"`
}

type SupplierResponse struct {
	ID            int64                `json:"id"`
	Code          string               `json:"code"`
	Name          string               `json:"name"`
	ContactPerson string               `json:"contactPerson"`
	Email         string               `json:"email"`
	Phone         string               `json:"phone"`
	Dogs          []DogSummaryResponse `json:"dogs"`
}

type PageMetadata struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

type PageResponse[T any] struct {
	Content  []T          `json:"content"`
	Metadata PageMetadata `json:"metadata"`
}

// ErrorResponse is the envelope returned for every failed request.
type ErrorResponse struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}
