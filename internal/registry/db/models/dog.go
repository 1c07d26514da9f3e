// Package models contains the persistence records of the registry,
// configured to work using GORM as the ORM, together with their conversion
// to and from the domain models.
package models

import (
	"time"

	"github.com/gartstein/k9registry/internal/registry/models"
)

// Characteristics is embedded into the dog row with a char_ column prefix.
type Characteristics struct {
	IsAggressive           *bool
	RequiresSeparateKennel *bool
	IsNoiseTolerant        *bool
	HasSpecialDiet         *bool
	DietaryRequirements    *string `gorm:"size:1000"`
	RequiresExercise       *bool
	ExerciseNotes          *string `gorm:"size:1000"`
	HasMedicalConditions   *bool
	MedicalNotes           *string `gorm:"size:1000"`
	Temperament            *string `gorm:"size:255"`
}

// Dog represents a police dog row.
// The supplier reference is the single source of truth for which supplier
// owns the dog; the supplier's dog list is always derived from it.
type Dog struct {
	ID              int64    `gorm:"primaryKey;autoIncrement"`
	Name            string   `gorm:"size:255"`
	Breed           string   `gorm:"size:255"`
	SupplierID      int64    `gorm:"not null;index"`
	Supplier        Supplier `gorm:"foreignKey:SupplierID"`
	BadgeNumber     string   `gorm:"size:64;not null;uniqueIndex"`
	Gender          string   `gorm:"size:16;index"`
	BirthDate       time.Time
	DateAcquired    time.Time
	Status          string `gorm:"size:16;index"`
	LeavingDate     *time.Time
	LeavingReason   *string         `gorm:"size:32;index"`
	Characteristics Characteristics `gorm:"embedded;embeddedPrefix:char_"`
	Deleted         bool            `gorm:"not null;index"`
	DeletedAt       *time.Time
	Version         int64 `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Dog) TableName() string {
	return "police_dogs"
}

// DogFromDomain builds a row from a domain dog. The supplier association is
// not copied; only the reference column is.
func DogFromDomain(d *models.Dog) Dog {
	rec := Dog{
		ID:           d.ID,
		Name:         d.Name,
		Breed:        d.Breed,
		SupplierID:   d.SupplierID,
		BadgeNumber:  d.BadgeNumber,
		Gender:       string(d.Gender),
		BirthDate:    d.BirthDate,
		DateAcquired: d.DateAcquired,
		Status:       string(d.Status),
		LeavingDate:  d.LeavingDate,
		Deleted:      d.Deleted,
		DeletedAt:    d.DeletedAt,
		Version:      d.Version,
	}
	if d.LeavingReason != nil {
		reason := string(*d.LeavingReason)
		rec.LeavingReason = &reason
	}
	if c := d.Characteristics; c != nil {
		rec.Characteristics = Characteristics{
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
	return rec
}

// ToDomain converts the row to a domain dog. The supplier is attached only
// when it was loaded alongside the row.
func (r *Dog) ToDomain() *models.Dog {
	d := &models.Dog{
		ID:           r.ID,
		Name:         r.Name,
		Breed:        r.Breed,
		SupplierID:   r.SupplierID,
		BadgeNumber:  r.BadgeNumber,
		Gender:       models.Gender(r.Gender),
		BirthDate:    r.BirthDate,
		DateAcquired: r.DateAcquired,
		Status:       models.Status(r.Status),
		LeavingDate:  r.LeavingDate,
		Deleted:      r.Deleted,
		DeletedAt:    r.DeletedAt,
		Version:      r.Version,
	}
	if r.LeavingReason != nil {
		reason := models.LeavingReason(*r.LeavingReason)
		d.LeavingReason = &reason
	}
	if c := r.Characteristics; !c.empty() {
		d.Characteristics = &models.Characteristics{
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
	if r.Supplier.ID != 0 {
		d.Supplier = r.Supplier.ToDomain()
	}
	return d
}

// Columns returns the embedded characteristic columns keyed by column name,
// for use in map based updates.
func (c Characteristics) Columns() map[string]any {
	return map[string]any{
		"char_is_aggressive":            c.IsAggressive,
		"char_requires_separate_kennel": c.RequiresSeparateKennel,
		"char_is_noise_tolerant":        c.IsNoiseTolerant,
		"char_has_special_diet":         c.HasSpecialDiet,
		"char_dietary_requirements":     c.DietaryRequirements,
		"char_requires_exercise":        c.RequiresExercise,
		"char_exercise_notes":           c.ExerciseNotes,
		"char_has_medical_conditions":   c.HasMedicalConditions,
		"char_medical_notes":            c.MedicalNotes,
		"char_temperament":              c.Temperament,
	}
}

func (c Characteristics) empty() bool {
	return c.IsAggressive == nil && c.RequiresSeparateKennel == nil && c.IsNoiseTolerant == nil &&
		c.HasSpecialDiet == nil && c.DietaryRequirements == nil && c.RequiresExercise == nil &&
		c.ExerciseNotes == nil && c.HasMedicalConditions == nil && c.MedicalNotes == nil &&
		c.Temperament == nil
}
