package database

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/konradh/hpi-ii-project-2022/core/dedup"
	"github.com/konradh/hpi-ii-project-2022/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolutionStoreNewResolutionStore(t *testing.T) {
	database := initDB(t)
	initHandlers(t, database)

	t.Run("Valid call NewResolutionStore", func(t *testing.T) {
		store, err := NewResolutionStore(database)
		assert.NoError(t, err, "Expected NewResolutionStore to not return an error")
		require.NotNil(t, store, "Expected NewResolutionStore to return a non-nil instance")
	})

	t.Run("Invalid call NewResolutionStore with nil database", func(t *testing.T) {
		_, err := NewResolutionStore(nil)
		assert.Error(t, err, "Expected error when creating ResolutionStore with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestResolutionStoreClearInvalidBirthDates(t *testing.T) {
	database := initDB(t)
	_, persons, _, _, _ := initHandlers(t, database)
	store, err := NewResolutionStore(database)
	require.NoError(t, err)

	// OCR artifact year, lexicographically below the cutoff.
	broken := &model.Person{FirstName: "Karl", LastName: "Fehler", BirthDate: "0976-01-26", BirthPlace: "Potsdam"}
	require.NoError(t, persons.InsertPerson(broken))
	valid := &model.Person{FirstName: "Karla", LastName: "Richtig", BirthDate: "1976-01-26", BirthPlace: "Potsdam"}
	require.NoError(t, persons.InsertPerson(valid))

	cleared, err := store.ClearInvalidBirthDates(context.Background(), 1800)
	assert.NoError(t, err, "Expected ClearInvalidBirthDates to not return an error")
	assert.GreaterOrEqual(t, cleared, int64(1), "Expected the broken birth date to be cleared")

	stored, err := persons.SelectPerson(broken.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.BirthDate, "Expected the broken birth date to be nulled")

	stored, err = persons.SelectPerson(valid.ID)
	require.NoError(t, err)
	assert.Equal(t, "1976-01-26", stored.BirthDate, "Expected the valid birth date to survive")
}

func TestResolutionStoreMergeCluster(t *testing.T) {
	database := initDB(t)
	companies, persons, roles, _, _ := initHandlers(t, database)
	store, err := NewResolutionStore(database)
	require.NoError(t, err)

	company := model.NewCompany(660001)
	company.Name = "Fusion Verwaltungs GmbH"
	require.NoError(t, companies.UpsertCompany(company))

	canonical := &model.Person{FirstName: "Hans", LastName: "Müller", BirthDate: "1950-01-01", BirthPlace: "München"}
	duplicate := &model.Person{FirstName: "Hans", LastName: "Mueller", BirthDate: "1950-01-01", BirthPlace: "Muenchen"}
	require.NoError(t, persons.InsertPerson(canonical))
	require.NoError(t, persons.InsertPerson(duplicate))

	active := true
	require.NoError(t, roles.InsertCorporateRole(&model.CorporateRole{
		CompanyID: company.ID, Person: duplicate, Role: model.RoleManager, Active: &active,
	}))

	err = store.MergeCluster(context.Background(), canonical.ID, []int64{duplicate.ID})
	assert.NoError(t, err, "Expected MergeCluster to not return an error")

	stored, err := roles.SelectRolesByCompany(company.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, canonical.ID, stored[0].Person.ID, "Expected the role to be rewritten onto the canonical person")

	merged, err := persons.SelectPerson(duplicate.ID)
	require.NoError(t, err)
	assert.True(t, merged.Deleted, "Expected the duplicate to be soft deleted")

	kept, err := persons.SelectPerson(canonical.ID)
	require.NoError(t, err)
	assert.False(t, kept.Deleted, "Expected the canonical person to stay live")
}

func TestResolutionStorePersonsForResolution(t *testing.T) {
	database := initDB(t)
	_, persons, _, _, _ := initHandlers(t, database)
	store, err := NewResolutionStore(database)
	require.NoError(t, err)

	complete := &model.Person{FirstName: "Theodor", LastName: "Brandt", BirthDate: "1955-06-12", BirthPlace: "Lübeck"}
	require.NoError(t, persons.InsertPerson(complete))
	incomplete := &model.Person{FirstName: "Theodora", LastName: "Brandt"}
	require.NoError(t, persons.InsertPerson(incomplete))
	merged := &model.Person{FirstName: "Theo", LastName: "Brandt", BirthDate: "1955-06-12", BirthPlace: "Luebeck"}
	require.NoError(t, persons.InsertPerson(merged))
	require.NoError(t, store.MergeCluster(context.Background(), complete.ID, []int64{merged.ID}))

	loaded, err := store.PersonsForResolution(context.Background())
	assert.NoError(t, err, "Expected PersonsForResolution to not return an error")

	byID := map[int64]*model.Person{}
	for _, person := range loaded {
		byID[person.ID] = person
	}
	require.Contains(t, byID, complete.ID, "Expected the person with full birth data to be loaded")
	assert.Equal(t, "Theodor", byID[complete.ID].FirstName)
	assert.Equal(t, "1955-06-12", byID[complete.ID].BirthDate)
	assert.Equal(t, "Lübeck", byID[complete.ID].BirthPlace)
	assert.NotContains(t, byID, incomplete.ID, "Expected persons without birth data to be skipped")
	assert.NotContains(t, byID, merged.ID, "Expected soft deleted persons to be skipped")
}

func TestResolverRunAgainstDatabase(t *testing.T) {
	database := initDB(t)
	_, persons, _, _, _ := initHandlers(t, database)
	store, err := NewResolutionStore(database)
	require.NoError(t, err)

	exactA := &model.Person{FirstName: "Erika", LastName: "Schulz", BirthDate: "1962-07-14", BirthPlace: "Leipzig"}
	exactB := &model.Person{FirstName: "Erika", LastName: "Schulz", BirthDate: "1962-07-14", BirthPlace: "Leipzig"}
	fuzzyA := &model.Person{FirstName: "Friedrich", LastName: "Weiß", BirthDate: "1948-03-09", BirthPlace: "Köln"}
	fuzzyB := &model.Person{FirstName: "Friedrich", LastName: "Weiss", BirthDate: "1948-03-09", BirthPlace: "Koeln"}
	distinct := &model.Person{FirstName: "Peter", LastName: "Wagner", BirthDate: "1971-12-30", BirthPlace: "Hamburg"}
	for _, person := range []*model.Person{exactA, exactB, fuzzyA, fuzzyB, distinct} {
		require.NoError(t, persons.InsertPerson(person))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := dedup.NewResolver(store, model.NewMatcherConfig(), logger)

	result, err := resolver.Run(context.Background())
	assert.NoError(t, err, "Expected the resolution run to not return an error")
	require.NotNil(t, result)
	assert.GreaterOrEqual(t, result.ExactMerged, 1, "Expected the exact pair to be merged")
	assert.GreaterOrEqual(t, result.PersonsMerged, 1, "Expected the fuzzy pair to be merged")

	for _, duplicate := range []*model.Person{exactB, fuzzyB} {
		stored, err := persons.SelectPerson(duplicate.ID)
		require.NoError(t, err)
		assert.True(t, stored.Deleted, "Expected duplicate %d to be soft deleted", duplicate.ID)
	}
	for _, canonical := range []*model.Person{exactA, fuzzyA, distinct} {
		stored, err := persons.SelectPerson(canonical.ID)
		require.NoError(t, err)
		assert.False(t, stored.Deleted, "Expected person %d to stay live", canonical.ID)
	}
}
