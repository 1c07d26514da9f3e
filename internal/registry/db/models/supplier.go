package models

import (
	"time"

	"github.com/gartstein/k9registry/internal/registry/models"
)

// Supplier represents a supplier row.
type Supplier struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	Code          string `gorm:"size:64;not null;uniqueIndex"`
	Name          string `gorm:"size:255;not null"`
	ContactPerson string `gorm:"size:255"`
	Email         string `gorm:"size:255"`
	Phone         string `gorm:"size:32"`
	Dogs          []Dog  `gorm:"foreignKey:SupplierID"`
	Version       int64  `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierFromDomain builds a row from a domain supplier. The dog list is
// derived data and is not copied.
func SupplierFromDomain(s *models.Supplier) Supplier {
	return Supplier{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Version:       s.Version,
	}
}

// ToDomain converts the row, including any preloaded dogs, to a domain supplier.
func (r *Supplier) ToDomain() *models.Supplier {
	s := &models.Supplier{
		ID:            r.ID,
		Code:          r.Code,
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		Email:         r.Email,
		Phone:         r.Phone,
		Dogs:          make([]models.DogSummary, 0, len(r.Dogs)),
		Version:       r.Version,
	}
	for i := range r.Dogs {
		s.Dogs = append(s.Dogs, models.DogSummary{
			ID:          r.Dogs[i].ID,
			Name:        r.Dogs[i].Name,
			Breed:       r.Dogs[i].Breed,
			BadgeNumber: r.Dogs[i].BadgeNumber,
			Gender:      models.Gender(r.Dogs[i].Gender),
			BirthDate:   r.Dogs[i].BirthDate,
		})
	}
	return s
}
