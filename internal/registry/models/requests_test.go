package models

import (
	"testing"
	"time"

	"github.com/gartstein/k9registry/internal/pkg/utils"
	e "github.com/gartstein/k9registry/internal/registry/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func validCreate() CreateDogRequest {
	return CreateDogRequest{
		Name:         "Rex",
		Breed:        "German Shepherd",
		SupplierCode: "ELITE_K9",
		BadgeNumber:  "BDG456",
		Gender:       Male,
		BirthDate:    utils.Ptr(time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)),
		Status:       Training,
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.ErrorIs(t, err, e.ErrInvalidInput)
	v, ok := e.AsValidation(err)
	require.True(t, ok)
	return v.Fields
}

func TestCreateDogRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := validCreate()
		assert.NoError(t, req.Validate(today))
	})

	t.Run("all missing", func(t *testing.T) {
		req := CreateDogRequest{}
		fields := fieldErrors(t, req.Validate(today))
		assert.Equal(t, map[string]string{
			"name":         "Name is required",
			"breed":        "Breed is required",
			"supplierCode": "Supplier code is required",
			"badgeNumber":  "Badge number is required",
			"gender":       "Gender is required",
			"birthDate":    "Birth date is required",
			"status":       "Status is required",
		}, fields)
	})

	t.Run("birth date today is not in the past", func(t *testing.T) {
		req := validCreate()
		req.BirthDate = utils.Ptr(today.Add(9 * time.Hour))
		fields := fieldErrors(t, req.Validate(today))
		assert.Equal(t, "Birth date must be in the past", fields["birthDate"])
	})

	t.Run("status outside create set", func(t *testing.T) {
		req := validCreate()
		req.Status = Retired
		fields := fieldErrors(t, req.Validate(today))
		assert.Equal(t, "Invalid status 'RETIRED'. Allowed values are: TRAINING, IN_SERVICE.", fields["status"])
	})

	t.Run("unknown gender", func(t *testing.T) {
		req := validCreate()
		req.Gender = "OTHER"
		fields := fieldErrors(t, req.Validate(today))
		assert.Equal(t, "Invalid gender 'OTHER'", fields["gender"])
	})

	t.Run("blank text", func(t *testing.T) {
		req := validCreate()
		req.Name = "   "
		fields := fieldErrors(t, req.Validate(today))
		assert.Equal(t, "Name is required", fields["name"])
	})
}

func TestUpdateDogRequest_Validate(t *testing.T) {
	req := UpdateDogRequest{
		Name:         "Rex",
		Breed:        "GSD",
		SupplierCode: "ELITE_K9",
		BadgeNumber:  "BDG456",
		Gender:       Female,
		Status:       Retired,
	}
	assert.NoError(t, req.Validate())

	req.Status = Left
	fields := fieldErrors(t, req.Validate())
	assert.Equal(t, "Invalid status 'LEFT'. Allowed values are: TRAINING, IN_SERVICE, RETIRED.", fields["status"])
}

func TestRetireDogRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		req    RetireDogRequest
		fields map[string]string
	}{
		{
			name: "today is allowed",
			req:  RetireDogRequest{LeavingDate: utils.Ptr(today.Add(23 * time.Hour)), LeavingReason: RetiredPutDown},
		},
		{
			name:   "missing everything",
			req:    RetireDogRequest{},
			fields: map[string]string{"leavingDate": "Leaving date is required", "leavingReason": "Leaving reason is required."},
		},
		{
			name:   "future date",
			req:    RetireDogRequest{LeavingDate: utils.Ptr(today.AddDate(0, 0, 1)), LeavingReason: KIA},
			fields: map[string]string{"leavingDate": "Leaving date cannot be in the future"},
		},
		{
			name:   "unknown reason",
			req:    RetireDogRequest{LeavingDate: utils.Ptr(today), LeavingReason: "BORED"},
			fields: map[string]string{"leavingReason": "Invalid leaving reason 'BORED'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(today)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.fields, fieldErrors(t, err))
		})
	}
}

func TestSupplierRequest_Validate(t *testing.T) {
	req := SupplierRequest{Code: "ELITE_K9", Name: "Elite"}
	assert.NoError(t, req.Validate())

	req = SupplierRequest{}
	assert.Equal(t, map[string]string{
		"code": "Supplier code must not be empty",
		"name": "Supplier name must not be empty",
	}, fieldErrors(t, req.Validate()))
}

func TestPageRequest(t *testing.T) {
	assert.NoError(t, PageRequest{PageNo: 0, PageSize: 10}.Validate())
	assert.Equal(t, 20, PageRequest{PageNo: 2, PageSize: 10}.Offset())

	fields := fieldErrors(t, PageRequest{PageNo: -1, PageSize: 0}.Validate())
	assert.Contains(t, fields, "pageNo")
	assert.Contains(t, fields, "pageSize")
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name  string
		req   PageRequest
		total int64
		want  PageMetadata
	}{
		{
			name:  "empty",
			req:   PageRequest{PageNo: 0, PageSize: 10},
			total: 0,
			want:  PageMetadata{Page: 0, Size: 10, TotalElements: 0, TotalPages: 0, First: true, Last: true},
		},
		{
			name:  "middle page",
			req:   PageRequest{PageNo: 1, PageSize: 10},
			total: 35,
			want:  PageMetadata{Page: 1, Size: 10, TotalElements: 35, TotalPages: 4, First: false, Last: false},
		},
		{
			name:  "exact last page",
			req:   PageRequest{PageNo: 2, PageSize: 5},
			total: 15,
			want:  PageMetadata{Page: 2, Size: 5, TotalElements: 15, TotalPages: 3, First: false, Last: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage[int](nil, tt.req, tt.total)
			assert.Equal(t, tt.want, page.Metadata)
			assert.NotNil(t, page.Content)
		})
	}
}

func TestEnums(t *testing.T) {
	g, err := ParseGender("FEMALE")
	require.NoError(t, err)
	assert.Equal(t, Female, g)
	_, err = ParseGender("female")
	assert.Error(t, err)

	s, err := ParseStatus("IN_SERVICE")
	require.NoError(t, err)
	assert.Equal(t, "In Service", s.Description())
	assert.False(t, s.HasLeft())
	_, err = ParseStatus("ASLEEP")
	assert.Error(t, err)

	r, err := ParseLeavingReason("RETIRED_RE_HOUSED")
	require.NoError(t, err)
	assert.Equal(t, "Retired (Re-housed)", r.Description())
	_, err = ParseLeavingReason("")
	assert.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), DateOnly(in))
}
