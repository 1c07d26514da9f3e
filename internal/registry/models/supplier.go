package models

// Supplier defines the domain model for an organisation that supplies dogs.
type Supplier struct {
	ID            int64
	Code          string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	// Dogs mirrors the dogs referencing this supplier. The store derives it
	// from the dogs' supplier reference on every read; it is never persisted.
	Dogs    []DogSummary
	Version int64
}

// AttachDog points dog at s and appends it to the in-memory dog list.
func (s *Supplier) AttachDog(dog *Dog) {
	dog.Supplier = s
	dog.SupplierID = s.ID
	s.Dogs = append(s.Dogs, dog.Summary())
}

// DetachDog removes the dog with the given id from the in-memory dog list.
func (s *Supplier) DetachDog(dogID int64) {
	kept := s.Dogs[:0]
	for _, d := range s.Dogs {
		if d.ID != dogID {
			kept = append(kept, d)
		}
	}
	s.Dogs = kept
}

// HasDog reports whether the in-memory dog list contains the dog.
func (s *Supplier) HasDog(dogID int64) bool {
	for _, d := range s.Dogs {
		if d.ID == dogID {
			return true
		}
	}
	return false
}
