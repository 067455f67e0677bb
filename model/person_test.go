package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSamePerson(t *testing.T) {
	base := &Person{FirstName: "Max", LastName: "Mustermann", BirthDate: "1980-05-12", BirthPlace: "Hamburg"}

	t.Run("identical", func(t *testing.T) {
		assert.True(t, base.SamePerson(&Person{FirstName: "Max", LastName: "Mustermann", BirthDate: "1980-05-12", BirthPlace: "Hamburg"}))
	})

	t.Run("unknown fields do not disagree", func(t *testing.T) {
		assert.True(t, base.SamePerson(&Person{FirstName: "Max", LastName: "Mustermann"}))
		assert.True(t, base.SamePerson(&Person{FirstName: "Max", LastName: "Mustermann", BirthPlace: "Hamburg"}))
	})

	t.Run("name must match exactly", func(t *testing.T) {
		assert.False(t, base.SamePerson(&Person{FirstName: "Maximilian", LastName: "Mustermann"}))
		assert.False(t, base.SamePerson(&Person{FirstName: "Max", LastName: "Muster"}))
	})

	t.Run("known fields that differ disagree", func(t *testing.T) {
		assert.False(t, base.SamePerson(&Person{FirstName: "Max", LastName: "Mustermann", BirthDate: "1975-01-01"}))
		assert.False(t, base.SamePerson(&Person{FirstName: "Max", LastName: "Mustermann", BirthPlace: "Berlin"}))
	})
}

func TestPersonMergeFillsOnly(t *testing.T) {
	person := &Person{FirstName: "Max", LastName: "Mustermann", BirthDate: "1980-05-12"}
	person.Merge(&Person{FirstName: "Max", LastName: "Mustermann", BirthDate: "1999-09-09", BirthPlace: "Hamburg"})
	assert.Equal(t, "1980-05-12", person.BirthDate, "populated fields are kept")
	assert.Equal(t, "Hamburg", person.BirthPlace)
}
