package models

import "fmt"

// Gender of a dog.
type Gender string

const (
	Male   Gender = "MALE"
	Female Gender = "FEMALE"
)

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// ParseGender converts wire input to a Gender.
func ParseGender(s string) (Gender, error) {
	g := Gender(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown gender %q", s)
	}
	return g, nil
}

// Status is the service lifecycle state of a dog.
type Status string

const (
	Training  Status = "TRAINING"
	InService Status = "IN_SERVICE"
	Retired   Status = "RETIRED"
	// Left is terminal and only ever set outside this service.
	Left Status = "LEFT"
)

var statusDescriptions = map[Status]string{
	Training:  "Training",
	InService: "In Service",
	Retired:   "Retired",
	Left:      "Left",
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusDescriptions[s]
	return ok
}

// Description returns the human readable label.
func (s Status) Description() string {
	return statusDescriptions[s]
}

// HasLeft reports whether a dog in this status must carry leaving details.
func (s Status) HasLeft() bool {
	return s == Retired || s == Left
}

// ParseStatus converts wire input to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// LeavingReason is the categorical cause of a dog leaving active service.
type LeavingReason string

const (
	Transferred     LeavingReason = "TRANSFERRED"
	RetiredPutDown  LeavingReason = "RETIRED_PUT_DOWN"
	KIA             LeavingReason = "KIA"
	Rejected        LeavingReason = "REJECTED"
	RetiredReHoused LeavingReason = "RETIRED_RE_HOUSED"
	Died            LeavingReason = "DIED"
)

var leavingReasonDescriptions = map[LeavingReason]string{
	Transferred:     "Transferred",
	RetiredPutDown:  "Retired (Put Down)",
	KIA:             "KIA",
	Rejected:        "Rejected",
	RetiredReHoused: "Retired (Re-housed)",
	Died:            "Died",
}

// Valid reports whether r is a known leaving reason.
func (r LeavingReason) Valid() bool {
	_, ok := leavingReasonDescriptions[r]
	return ok
}

// Description returns the human readable label.
func (r LeavingReason) Description() string {
	return leavingReasonDescriptions[r]
}

// ParseLeavingReason converts wire input to a LeavingReason.
func ParseLeavingReason(s string) (LeavingReason, error) {
	r := LeavingReason(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown leaving reason %q", s)
	}
	return r, nil
}
