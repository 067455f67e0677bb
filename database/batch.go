package database

import (
	"context"

	"github.com/konradh/hpi-ii-project-2022/helper"
	"github.com/konradh/hpi-ii-project-2022/model"
)

// BatchWriter persists a fully parsed company in one transaction: the
// snapshot, its persons, its role assignments and its typed event log.
// Either the whole company lands or nothing of it does, a crashed run can
// simply be repeated.
type BatchWriter struct {
	db *helper.Database
}

// NewBatchWriter creates a batch writer. The table handlers must have been
// initialized before, the writer only uses the installed SQL functions.
func NewBatchWriter(db *helper.Database) *BatchWriter {
	return &BatchWriter{db: db}
}

// SaveCompanyResult writes one extraction result atomically. Person ids are
// assigned during the write and propagated to the in-memory records.
func (w *BatchWriter) SaveCompanyResult(ctx context.Context, company *model.Company) error {
	tx, err := w.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	var name, legalForm, address, purpose *string
	err = tx.QueryRowContext(ctx,
		`SELECT * FROM upsert_company($1, $2, $3, $4, $5, $6, $7, $8)`,
		company.ID,
		nullIfEmpty(company.Name),
		nullIfEmpty(company.LegalForm),
		nullIfEmpty(company.Address),
		nullIfEmpty(company.Purpose),
		company.Capital,
		company.Currency,
		company.Active,
	).Scan(
		&company.ID, &name, &legalForm, &address, &purpose,
		&company.Capital, &company.Currency, &company.Active,
	)
	if err != nil {
		return helper.NewError("upsert company", err)
	}

	for _, person := range company.Persons {
		var birthDate, birthPlace *string
		err = tx.QueryRowContext(ctx,
			`SELECT * FROM insert_person($1, $2, $3, $4)`,
			person.FirstName,
			person.LastName,
			nullIfEmpty(person.BirthDate),
			nullIfEmpty(person.BirthPlace),
		).Scan(
			&person.ID, &person.FirstName, &person.LastName,
			&birthDate, &birthPlace, &person.Deleted,
		)
		if err != nil {
			return helper.NewError("insert person", err)
		}
	}

	for _, role := range company.Roles {
		var id, companyID, personID int64
		var roleKind string
		var active *bool
		var startDate, endDate *string
		err = tx.QueryRowContext(ctx,
			`SELECT * FROM insert_corporate_role($1, $2, $3, $4, $5, $6)`,
			company.ID,
			role.Person.ID,
			string(role.Role),
			role.Active,
			nullIfEmpty(role.StartDate),
			nullIfEmpty(role.EndDate),
		).Scan(&id, &companyID, &personID, &roleKind, &active, &startDate, &endDate)
		if err != nil {
			return helper.NewError("insert corporate role", err)
		}
	}

	for _, event := range company.Events {
		var id, companyID int64
		var eventDate, eventType string
		payload := model.Payload{}
		err = tx.QueryRowContext(ctx,
			`SELECT * FROM insert_typed_event($1, $2, $3, $4)`,
			company.ID,
			event.Date,
			string(event.Type),
			event.Payload,
		).Scan(&id, &companyID, &eventDate, &eventType, &payload)
		if err != nil {
			return helper.NewError("insert typed event", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return helper.NewError("commit transaction", err)
	}
	return nil
}
