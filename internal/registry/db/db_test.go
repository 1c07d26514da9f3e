package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gartstein/k9registry/internal/pkg/utils"
	e "github.com/gartstein/k9registry/internal/registry/errors"
	"github.com/gartstein/k9registry/internal/registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// SetupTestDB initializes a throwaway SQLite database for testing. A file
// in the test's temp dir is used so every pooled connection sees the same
// schema.
func SetupTestDB(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewWithDialector(sqlite.Open(filepath.Join(t.TempDir(), "registry.db")))
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func createSupplier(t *testing.T, repo *Repository, code string) *models.Supplier {
	t.Helper()
	s := &models.Supplier{Code: code, Name: code + " Ltd", ContactPerson: "Jane", Email: "jane@example.com"}
	require.NoError(t, repo.CreateSupplier(context.Background(), s))
	return s
}

func createDog(t *testing.T, repo *Repository, supplier *models.Supplier, name, breed, badge string) *models.Dog {
	t.Helper()
	dog := &models.Dog{
		Name:         name,
		Breed:        breed,
		SupplierID:   supplier.ID,
		BadgeNumber:  badge,
		Gender:       models.Male,
		BirthDate:    time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		DateAcquired: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:       models.Training,
	}
	require.NoError(t, repo.CreateDog(context.Background(), dog))
	return dog
}

func TestCreateSupplier(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	s := createSupplier(t, repo, "ELITE_K9")
	assert.NotZero(t, s.ID)
	assert.Equal(t, int64(0), s.Version)
	assert.Empty(t, s.Dogs)

	err := repo.CreateSupplier(ctx, &models.Supplier{Code: "ELITE_K9", Name: "Other"})
	assert.ErrorIs(t, err, e.ErrAlreadyExists)
	assert.EqualError(t, err, "Supplier with code ELITE_K9 already exists")

	exists, err := repo.SupplierExistsByCode(ctx, "ELITE_K9")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SupplierExistsByCode(ctx, "NOPE")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetSupplier(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	s := createSupplier(t, repo, "ELITE_K9")
	other := createSupplier(t, repo, "K9_PRO")
	createDog(t, repo, s, "Rex", "German Shepherd", "B2")
	createDog(t, repo, s, "Max", "Malinois", "B1")
	createDog(t, repo, other, "Ace", "Labrador", "B3")

	got, err := repo.GetSupplier(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "ELITE_K9", got.Code)
	require.Len(t, got.Dogs, 2)
	assert.Equal(t, "Rex", got.Dogs[0].Name)
	assert.Equal(t, "Max", got.Dogs[1].Name)

	byCode, err := repo.GetSupplierByCode(ctx, "K9_PRO")
	require.NoError(t, err)
	assert.Equal(t, other.ID, byCode.ID)
	require.Len(t, byCode.Dogs, 1)
	assert.Equal(t, "B3", byCode.Dogs[0].BadgeNumber)

	_, err = repo.GetSupplier(ctx, 999)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.EqualError(t, err, "Supplier with id 999 not found")

	_, err = repo.GetSupplierByCode(ctx, "MISSING")
	assert.EqualError(t, err, "Supplier with code MISSING not found")
}

func TestListSuppliers(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	for _, code := range []string{"A", "B", "C"} {
		createSupplier(t, repo, code)
	}

	page, err := repo.ListSuppliers(ctx, models.PageRequest{PageNo: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "C", page.Content[0].Code)
	assert.Equal(t, models.PageMetadata{Page: 1, Size: 2, TotalElements: 3, TotalPages: 2, First: false, Last: true}, page.Metadata)
}

func TestUpdateSupplier(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	s := createSupplier(t, repo, "ELITE_K9")
	createSupplier(t, repo, "TAKEN")

	s.Name = "Elite Canine"
	s.Phone = "555-0100"
	require.NoError(t, repo.UpdateSupplier(ctx, s))
	assert.Equal(t, int64(1), s.Version)

	got, err := repo.GetSupplier(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Elite Canine", got.Name)
	assert.Equal(t, "555-0100", got.Phone)
	assert.Equal(t, int64(1), got.Version)

	t.Run("stale version", func(t *testing.T) {
		stale := *got
		stale.Version = 0
		err := repo.UpdateSupplier(ctx, &stale)
		assert.ErrorIs(t, err, e.ErrVersionConflict)
		assert.EqualError(t, err, "Supplier with ID 1 was modified concurrently")
	})

	t.Run("missing supplier", func(t *testing.T) {
		err := repo.UpdateSupplier(ctx, &models.Supplier{ID: 42, Code: "X", Name: "X"})
		assert.ErrorIs(t, err, e.ErrNotFound)
	})

	t.Run("duplicate code", func(t *testing.T) {
		dup := *got
		dup.Code = "TAKEN"
		err := repo.UpdateSupplier(ctx, &dup)
		assert.ErrorIs(t, err, e.ErrAlreadyExists)
	})
}

func TestCreateAndGetDog(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	s := createSupplier(t, repo, "ELITE_K9")
	dog := &models.Dog{
		Name:         "Rex",
		Breed:        "German Shepherd",
		SupplierID:   s.ID,
		BadgeNumber:  "BDG456",
		Gender:       models.Male,
		BirthDate:    time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		DateAcquired: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:       models.Training,
		Characteristics: &models.Characteristics{
			IsAggressive: utils.Ptr(false),
			Temperament:  utils.Ptr("calm"),
		},
	}
	require.NoError(t, repo.CreateDog(ctx, dog))
	assert.NotZero(t, dog.ID)

	got, err := repo.GetDog(ctx, dog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rex", got.Name)
	assert.Equal(t, s.ID, got.SupplierID)
	require.NotNil(t, got.Supplier)
	assert.Equal(t, "ELITE_K9", got.Supplier.Code)
	assert.True(t, got.BirthDate.Equal(dog.BirthDate))
	assert.Nil(t, got.LeavingDate)
	assert.Nil(t, got.LeavingReason)
	require.NotNil(t, got.Characteristics)
	assert.Equal(t, "calm", *got.Characteristics.Temperament)
	assert.False(t, *got.Characteristics.IsAggressive)
	assert.Nil(t, got.Characteristics.MedicalNotes)

	t.Run("no characteristics", func(t *testing.T) {
		plain := createDog(t, repo, s, "Ace", "Labrador", "PLAIN1")
		got, err := repo.GetDog(ctx, plain.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Characteristics)
	})

	t.Run("duplicate badge", func(t *testing.T) {
		dup := *dog
		dup.ID = 0
		err := repo.CreateDog(ctx, &dup)
		assert.ErrorIs(t, err, e.ErrAlreadyExists)
		assert.EqualError(t, err, "Dog with badge number BDG456 already exists")
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetDog(ctx, 404)
		assert.ErrorIs(t, err, e.ErrNotFound)
		assert.EqualError(t, err, "Dog with ID 404 not found")
	})
}

func TestDogExistsByBadgeNumber(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	s := createSupplier(t, repo, "ELITE_K9")
	dog := createDog(t, repo, s, "Rex", "GSD", "BDG456")
	dog.MarkDeleted(time.Now().UTC())
	require.NoError(t, repo.UpdateDog(ctx, dog))

	exists, err := repo.DogExistsByBadgeNumber(ctx, "BDG456")
	require.NoError(t, err)
	assert.True(t, exists, "deleted dogs still hold their badge number")

	exists, err = repo.DogExistsByBadgeNumber(ctx, "FREE")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateDog(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	a := createSupplier(t, repo, "A")
	b := createSupplier(t, repo, "B")
	dog := createDog(t, repo, a, "Rex", "GSD", "BDG456")

	dog.Name = "Rexy"
	dog.SupplierID = b.ID
	dog.Retire(models.RetireDogRequest{
		LeavingDate:   utils.Ptr(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
		LeavingReason: models.Transferred,
	})
	dog.Characteristics = &models.Characteristics{MedicalNotes: utils.Ptr("hip dysplasia")}
	require.NoError(t, repo.UpdateDog(ctx, dog))
	assert.Equal(t, int64(1), dog.Version)

	got, err := repo.GetDog(ctx, dog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rexy", got.Name)
	assert.Equal(t, models.Retired, got.Status)
	require.NotNil(t, got.LeavingReason)
	assert.Equal(t, models.Transferred, *got.LeavingReason)
	require.NotNil(t, got.LeavingDate)
	assert.Equal(t, "2025-05-01", got.LeavingDate.UTC().Format("2006-01-02"))
	assert.Equal(t, "B", got.Supplier.Code)
	require.NotNil(t, got.Characteristics)
	assert.Equal(t, "hip dysplasia", *got.Characteristics.MedicalNotes)

	oldSupplier, err := repo.GetSupplier(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, oldSupplier.Dogs)
	newSupplier, err := repo.GetSupplier(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, newSupplier.HasDog(dog.ID))

	t.Run("clearing characteristics", func(t *testing.T) {
		got.Characteristics = nil
		require.NoError(t, repo.UpdateDog(ctx, got))
		reloaded, err := repo.GetDog(ctx, dog.ID)
		require.NoError(t, err)
		assert.Nil(t, reloaded.Characteristics)
	})

	t.Run("stale version", func(t *testing.T) {
		stale := *dog
		stale.Version = 0
		err := repo.UpdateDog(ctx, &stale)
		assert.ErrorIs(t, err, e.ErrVersionConflict)
	})

	t.Run("missing dog", func(t *testing.T) {
		err := repo.UpdateDog(ctx, &models.Dog{ID: 77, BadgeNumber: "X"})
		assert.ErrorIs(t, err, e.ErrNotFound)
	})
}

func TestSearchDogs(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	elite := createSupplier(t, repo, "ELITE_K9")
	pro := createSupplier(t, repo, "K9_PRO")
	createDog(t, repo, elite, "Max", "German Shepherd", "B1")
	createDog(t, repo, elite, "Maxine", "Malinois", "B2")
	createDog(t, repo, pro, "max", "German Shepherd", "B3")
	gone := createDog(t, repo, pro, "Maximus", "German Shepherd", "B4")
	gone.MarkDeleted(time.Now().UTC())
	require.NoError(t, repo.UpdateDog(ctx, gone))

	all := models.PageRequest{PageNo: 0, PageSize: 10}

	tests := []struct {
		name   string
		filter models.SearchFilter
		want   []string
	}{
		{name: "no filter returns non-deleted", filter: models.SearchFilter{}, want: []string{"B1", "B2", "B3"}},
		{name: "name is case sensitive", filter: models.SearchFilter{Name: "Max"}, want: []string{"B1", "B2"}},
		{name: "breed contains", filter: models.SearchFilter{Breed: "Shep"}, want: []string{"B1", "B3"}},
		{name: "supplier code contains", filter: models.SearchFilter{SupplierCode: "PRO"}, want: []string{"B3"}},
		{name: "filters are ANDed", filter: models.SearchFilter{Name: "Max", Breed: "Malinois"}, want: []string{"B2"}},
		{name: "underscore is literal", filter: models.SearchFilter{SupplierCode: "_K9"}, want: []string{"B1", "B2"}},
		{name: "no match", filter: models.SearchFilter{Name: "Zed"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.SearchDogs(ctx, tt.filter, all)
			require.NoError(t, err)
			badges := make([]string, 0, len(page.Content))
			for _, d := range page.Content {
				badges = append(badges, d.BadgeNumber)
				require.NotNil(t, d.Supplier)
			}
			assert.Equal(t, tt.want, badges)
			assert.Equal(t, int64(len(tt.want)), page.Metadata.TotalElements)
		})
	}

	t.Run("pagination metadata", func(t *testing.T) {
		page, err := repo.SearchDogs(ctx, models.SearchFilter{}, models.PageRequest{PageNo: 0, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, page.Content, 2)
		assert.Equal(t, models.PageMetadata{Page: 0, Size: 2, TotalElements: 3, TotalPages: 2, First: true, Last: false}, page.Metadata)

		page, err = repo.SearchDogs(ctx, models.SearchFilter{}, models.PageRequest{PageNo: 1, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, page.Content, 1)
		assert.Equal(t, "B3", page.Content[0].BadgeNumber)
		assert.True(t, page.Metadata.Last)
	})
}

func TestListDogsBy(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	s := createSupplier(t, repo, "ELITE_K9")
	rex := createDog(t, repo, s, "Rex", "GSD", "B1")
	bella := createDog(t, repo, s, "Bella", "Lab", "B2")
	bella.Gender = models.Female
	bella.Retire(models.RetireDogRequest{
		LeavingDate:   utils.Ptr(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		LeavingReason: models.KIA,
	})
	bella.MarkDeleted(time.Now().UTC())
	require.NoError(t, repo.UpdateDog(ctx, bella))

	females, err := repo.ListDogsByGender(ctx, models.Female)
	require.NoError(t, err)
	require.Len(t, females, 1, "deleted dogs are included")
	assert.Equal(t, bella.ID, females[0].ID)

	training, err := repo.ListDogsByStatus(ctx, models.Training)
	require.NoError(t, err)
	require.Len(t, training, 1)
	assert.Equal(t, rex.ID, training[0].ID)

	kia, err := repo.ListDogsByLeavingReason(ctx, models.KIA)
	require.NoError(t, err)
	require.Len(t, kia, 1)
	assert.True(t, kia[0].Deleted)
	require.NotNil(t, kia[0].DeletedAt)

	none, err := repo.ListDogsByLeavingReason(ctx, models.Died)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWithTransaction(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := repo.CreateSupplier(ctx, &models.Supplier{Code: "ROLLED_BACK", Name: "R"}); err != nil {
			return err
		}
		// A nested call joins the outer transaction.
		return repo.WithTransaction(ctx, func(ctx context.Context) error {
			exists, err := repo.SupplierExistsByCode(ctx, "ROLLED_BACK")
			require.NoError(t, err)
			assert.True(t, exists)
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	exists, err := repo.SupplierExistsByCode(ctx, "ROLLED_BACK")
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.WithTransaction(ctx, func(ctx context.Context) error {
		return repo.CreateSupplier(ctx, &models.Supplier{Code: "COMMITTED", Name: "C"})
	})
	require.NoError(t, err)
	exists, err = repo.SupplierExistsByCode(ctx, "COMMITTED")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPingAndExec(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Ping(ctx))
	createSupplier(t, repo, "ELITE_K9")
	require.NoError(t, repo.Exec(ctx, "UPDATE suppliers SET phone = ? WHERE code = ?", "555", "ELITE_K9"))

	got, err := repo.GetSupplierByCode(ctx, "ELITE_K9")
	require.NoError(t, err)
	assert.Equal(t, "555", got.Phone)
}
