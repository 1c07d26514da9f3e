package models

import (
	"fmt"
	"strings"
	"time"

	e "github.com/gartstein/k9registry/internal/registry/errors"
)

// Operation names the caller context of a status assignment.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationRetire Operation = "retire"
	OperationDelete Operation = "delete"
)

// allowedStatuses lists the statuses a request may assign per operation.
// RETIRED through update is allowed; LEFT is never assignable here.
var allowedStatuses = map[Operation][]Status{
	OperationCreate: {Training, InService},
	OperationUpdate: {Training, InService, Retired},
}

// AllowedStatuses returns the statuses a request may set for op.
func AllowedStatuses(op Operation) []Status {
	return append([]Status(nil), allowedStatuses[op]...)
}

// ValidateStatus checks that status may be assigned by op. It returns a
// ValidationError on the "status" field when it may not.
func ValidateStatus(op Operation, status Status) error {
	if status == "" {
		return e.Invalid("status", "Status is required")
	}
	allowed := allowedStatuses[op]
	for _, s := range allowed {
		if s == status {
			return nil
		}
	}
	names := make([]string, 0, len(allowed))
	for _, s := range allowed {
		names = append(names, string(s))
	}
	return e.Invalid("status", fmt.Sprintf("Invalid status '%s'. Allowed values are: %s.", status, strings.Join(names, ", ")))
}

// CheckMutable applies the precedence rule between the two lifecycle axes:
// a deleted dog rejects update and retire; status alone only blocks update
// once the dog has LEFT. Delete is always permitted (it is idempotent).
func (d *Dog) CheckMutable(op Operation) error {
	if op == OperationDelete {
		return nil
	}
	if d.Deleted {
		return e.InvalidState(string(op), "deleted", d.ID)
	}
	if op == OperationUpdate && d.Status == Left {
		return e.InvalidState(string(op), "retired", d.ID)
	}
	return nil
}

// Retire moves the dog to RETIRED with the given leaving details.
// It reports false and changes nothing when the dog is already retired.
func (d *Dog) Retire(req RetireDogRequest) bool {
	if d.Status == Retired {
		return false
	}
	date := DateOnly(*req.LeavingDate)
	reason := req.LeavingReason
	d.Status = Retired
	d.LeavingDate = &date
	d.LeavingReason = &reason
	return true
}

// MarkDeleted soft deletes the dog at the given time. It reports false and changes
// nothing when the dog is already deleted.
func (d *Dog) MarkDeleted(at time.Time) bool {
	if d.Deleted {
		return false
	}
	d.Deleted = true
	d.DeletedAt = &at
	return true
}

// ApplyUpdate overwrites the fields an update may touch. Birth date, date
// acquired, leaving details, deletion flags and version are left alone; the
// supplier reference is handled by the caller.
func (d *Dog) ApplyUpdate(req UpdateDogRequest) {
	d.Name = req.Name
	d.Breed = req.Breed
	d.BadgeNumber = req.BadgeNumber
	d.Gender = req.Gender
	d.Status = req.Status
	d.Characteristics = req.Characteristics
}
