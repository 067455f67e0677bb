package database

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/konradh/hpi-ii-project-2022/core/dedup"
	"github.com/konradh/hpi-ii-project-2022/helper"
	"github.com/konradh/hpi-ii-project-2022/model"
)

// ResolutionStore backs the identity resolution engine with the persons and
// corporate role tables. It implements dedup.PersonStore.
type ResolutionStore struct {
	db *helper.Database
}

// NewResolutionStore creates a resolution store. The persons and corporate
// role handlers must have been initialized before, the store only uses the
// installed SQL functions.
func NewResolutionStore(db *helper.Database) (*ResolutionStore, error) {
	if db == nil || db.Instance == nil {
		return nil, helper.NewError("NewResolutionStore", fmt.Errorf("database connection is nil"))
	}
	return &ResolutionStore{db: db}, nil
}

// ClearInvalidBirthDates nulls birth dates before the given year.
// Birth dates are stored as text, so the cutoff is a lexicographic prefix.
func (r *ResolutionStore) ClearInvalidBirthDates(ctx context.Context, minYear int) (int64, error) {
	var cleared int64
	cutoff := fmt.Sprintf("%04d", minYear)
	err := r.db.Instance.QueryRowContext(ctx, `SELECT clear_invalid_birth_dates($1)`, cutoff).Scan(&cleared)
	if err != nil {
		return 0, helper.NewError("clear invalid birth dates", err)
	}
	return cleared, nil
}

// ExactDuplicates returns every person that matches an older person on all
// four identity fields, paired with the smallest id of its group.
func (r *ResolutionStore) ExactDuplicates(ctx context.Context) ([]dedup.DuplicatePair, error) {
	rows, err := r.db.Instance.QueryContext(ctx, `SELECT * FROM select_exact_duplicate_persons()`)
	if err != nil {
		return nil, helper.NewError("select exact duplicate persons", err)
	}
	defer rows.Close()

	var pairs []dedup.DuplicatePair
	for rows.Next() {
		var pair dedup.DuplicatePair
		if err := rows.Scan(&pair.CanonicalID, &pair.DuplicateID); err != nil {
			return nil, helper.NewError("scan duplicate pair", err)
		}
		pairs = append(pairs, pair)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("select exact duplicate persons", err)
	}
	return pairs, nil
}

// PersonsForResolution returns every live person with complete birth data,
// ordered by id.
func (r *ResolutionStore) PersonsForResolution(ctx context.Context) ([]*model.Person, error) {
	rows, err := r.db.Instance.QueryContext(ctx, `SELECT * FROM select_persons_for_resolution()`)
	if err != nil {
		return nil, helper.NewError("select persons for resolution", err)
	}
	defer rows.Close()

	var persons []*model.Person
	for rows.Next() {
		person := &model.Person{}
		var birthDate, birthPlace *string
		err := rows.Scan(
			&person.ID, &person.FirstName, &person.LastName,
			&birthDate, &birthPlace,
		)
		if err != nil {
			return nil, helper.NewError("scan person", err)
		}
		person.BirthDate = stringOrEmpty(birthDate)
		person.BirthPlace = stringOrEmpty(birthPlace)
		persons = append(persons, person)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("select persons for resolution", err)
	}
	return persons, nil
}

// MergeCluster rewrites all role assignments of the duplicates onto the
// canonical person and soft deletes the duplicates, atomically.
func (r *ResolutionStore) MergeCluster(ctx context.Context, canonicalID int64, duplicateIDs []int64) error {
	if len(duplicateIDs) == 0 {
		return nil
	}
	_, err := r.db.Instance.ExecContext(ctx,
		`SELECT merge_person_cluster($1, $2)`,
		canonicalID, pq.Array(duplicateIDs),
	)
	if err != nil {
		return helper.NewError("merge person cluster", err)
	}
	return nil
}
