package dedup

import (
	"testing"

	"github.com/konradh/hpi-ii-project-2022/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlicingHelpersClamp(t *testing.T) {
	assert.Equal(t, "ab", prefix("ab", 3))
	assert.Equal(t, "Mül", prefix("Müller", 3))
	assert.Equal(t, "ab", suffix("ab", 3))
	assert.Equal(t, "ler", suffix("Müller", 3))
	assert.Equal(t, "", offset("ab", 3))
	assert.Equal(t, "ler", offset("Müller", 3))
	assert.Equal(t, "50-01", substring("1950-01-01", 2, 7))
	assert.Equal(t, "b", substring("ab", 1, 7))
	assert.Equal(t, "", substring("a", 2, 7))
}

func TestBlockingKeysSurviveSingleFieldNoise(t *testing.T) {
	keys := blockingKeys()

	sharesKey := func(a, b *model.Person) bool {
		for _, key := range keys {
			if key(a) == key(b) {
				return true
			}
		}
		return false
	}

	base := &model.Person{FirstName: "Hans", LastName: "Müller", BirthDate: "1950-01-01", BirthPlace: "Berlin"}

	t.Run("Different last name spelling", func(t *testing.T) {
		other := &model.Person{FirstName: "Hans", LastName: "Mueller", BirthDate: "1950-01-01", BirthPlace: "Berlin"}
		assert.True(t, sharesKey(base, other))
	})

	t.Run("Single digit birth date typo", func(t *testing.T) {
		other := &model.Person{FirstName: "Hans", LastName: "Müller", BirthDate: "1950-01-02", BirthPlace: "Berlin"}
		assert.True(t, sharesKey(base, other))
	})

	t.Run("Unrelated person shares nothing", func(t *testing.T) {
		other := &model.Person{FirstName: "Gabriele", LastName: "Winter", BirthDate: "1968-12-24", BirthPlace: "Köln"}
		assert.False(t, sharesKey(base, other))
	})
}

func TestGroupByKeyDropsSingletons(t *testing.T) {
	persons := []*model.Person{
		{ID: 1, FirstName: "Hans", LastName: "Müller", BirthDate: "1950-01-01"},
		{ID: 2, FirstName: "Hans", LastName: "Müller", BirthDate: "1950-01-01"},
		{ID: 3, FirstName: "Gabriele", LastName: "Winter", BirthDate: "1968-12-24"},
	}

	groups := groupByKey(persons, blockingKeys()[0])
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 2)
}
