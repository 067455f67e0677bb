package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/konradh/hpi-ii-project-2022/helper"
	"github.com/konradh/hpi-ii-project-2022/model"
	"github.com/konradh/hpi-ii-project-2022/sql"
)

// PersonsDBHandlerFunctions defines the interface for person database operations.
type PersonsDBHandlerFunctions interface {
	InsertPerson(person *model.Person) error
	SelectPerson(id int64) (*model.Person, error)
}

// PersonsDBHandler handles person-related database operations
type PersonsDBHandler struct {
	db *helper.Database
}

// NewPersonsDBHandler creates a new persons database handler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewPersonsDBHandler(db *helper.Database, force bool) (*PersonsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	personsDbHandler := &PersonsDBHandler{
		db: db,
	}

	err := sql.LoadPersonsSql(personsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load persons sql", err)
	}

	err = personsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized PersonsDBHandler")

	return personsDbHandler, nil
}

// CreateTable creates the 'persons' table if it does not exist yet.
func (h *PersonsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_persons();`)
	if err != nil {
		log.Panicf("error initializing persons table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table persons")

	return nil
}

// InsertPerson inserts a new person and assigns its id.
func (h *PersonsDBHandler) InsertPerson(person *model.Person) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_person($1, $2, $3, $4)`,
		person.FirstName,
		person.LastName,
		nullIfEmpty(person.BirthDate),
		nullIfEmpty(person.BirthPlace),
	)

	var birthDate, birthPlace *string
	err := row.Scan(
		&person.ID,
		&person.FirstName,
		&person.LastName,
		&birthDate,
		&birthPlace,
		&person.Deleted,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}
	person.BirthDate = stringOrEmpty(birthDate)
	person.BirthPlace = stringOrEmpty(birthPlace)

	return nil
}

// SelectPerson retrieves a person by id
func (h *PersonsDBHandler) SelectPerson(id int64) (*model.Person, error) {
	person := &model.Person{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_person($1)`,
		id,
	)

	var birthDate, birthPlace *string
	err := row.Scan(
		&person.ID,
		&person.FirstName,
		&person.LastName,
		&birthDate,
		&birthPlace,
		&person.Deleted,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}
	person.BirthDate = stringOrEmpty(birthDate)
	person.BirthPlace = stringOrEmpty(birthPlace)

	return person, nil
}
