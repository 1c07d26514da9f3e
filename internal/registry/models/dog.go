// Package models defines the core domain models of the police dog registry:
// dogs, their suppliers, the lifecycle enumerations, and the request and page
// shapes exchanged with the service layer.
package models

import (
	"time"
)

// Characteristics is an optional bag of behavioural and care attributes.
// Every field is independently optional.
type Characteristics struct {
	IsAggressive           *bool
	RequiresSeparateKennel *bool
	IsNoiseTolerant        *bool
	HasSpecialDiet         *bool
	DietaryRequirements    *string
	RequiresExercise       *bool
	ExerciseNotes          *string
	HasMedicalConditions   *bool
	MedicalNotes           *string
	Temperament            *string
}

// Dog defines the domain model for a police dog.
type Dog struct {
	// ID is generated by the store and never changes.
	ID    int64
	Name  string
	Breed string
	// SupplierID is the authoritative reference to the owning supplier.
	SupplierID int64
	// Supplier is the resolved supplier, populated on reads.
	Supplier    *Supplier
	BadgeNumber string
	Gender      Gender
	BirthDate   time.Time
	// DateAcquired is stamped at creation and never changes.
	DateAcquired time.Time
	Status       Status
	// LeavingDate and LeavingReason are set iff Status is RETIRED or LEFT.
	LeavingDate     *time.Time
	LeavingReason   *LeavingReason
	Characteristics *Characteristics
	Deleted         bool
	// DeletedAt is set iff Deleted is true.
	DeletedAt *time.Time
	// Version is the optimistic concurrency counter, managed by the store.
	Version int64
}

// Summary returns the short form listed under a supplier.
func (d *Dog) Summary() DogSummary {
	return DogSummary{
		ID:          d.ID,
		Name:        d.Name,
		Breed:       d.Breed,
		BadgeNumber: d.BadgeNumber,
		Gender:      d.Gender,
		BirthDate:   d.BirthDate,
	}
}

// DogSummary is the short form of a dog shown in a supplier's dog list.
type DogSummary struct {
	ID          int64
	Name        string
	Breed       string
	BadgeNumber string
	Gender      Gender
	BirthDate   time.Time
}

// SearchFilter narrows a dog search. Empty fields match everything;
// non-empty fields are case-sensitive substring matches, ANDed together.
type SearchFilter struct {
	Name         string
	Breed        string
	SupplierCode string
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
