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

// RawEventsDBHandlerFunctions defines the interface for raw event database
// operations.
type RawEventsDBHandlerFunctions interface {
	InsertRawEvent(event *model.RawEvent) error
	StreamRawEvents(ctx context.Context, handle func(event model.RawEvent) error) error
	SelectRawEventCount() (int64, error)
}

// RawEventsDBHandler handles raw event database operations
type RawEventsDBHandler struct {
	db *helper.Database
}

// NewRawEventsDBHandler creates a new raw events database handler.
func NewRawEventsDBHandler(db *helper.Database, force bool) (*RawEventsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	rawEventsDbHandler := &RawEventsDBHandler{
		db: db,
	}

	err := sql.LoadRawEventsSql(rawEventsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load raw events sql", err)
	}

	err = rawEventsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized RawEventsDBHandler")

	return rawEventsDbHandler, nil
}

// CreateTable creates the 'raw_events' table if it does not exist yet.
func (h *RawEventsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_raw_events();`)
	if err != nil {
		log.Panicf("error initializing raw_events table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table raw_events")

	return nil
}

// InsertRawEvent stores one crawled filing and assigns its id.
func (h *RawEventsDBHandler) InsertRawEvent(event *model.RawEvent) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_raw_event($1, $2, $3, $4)`,
		event.CompanyID,
		event.EventDate,
		event.EventType,
		event.Information,
	)

	err := row.Scan(
		&event.ID,
		&event.CompanyID,
		&event.EventDate,
		&event.EventType,
		&event.Information,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// StreamRawEvents calls handle for every filing, ordered by company id and
// insertion order. The whole log never fits in memory, so rows are handed
// over one at a time.
func (h *RawEventsDBHandler) StreamRawEvents(ctx context.Context, handle func(event model.RawEvent) error) error {
	rows, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_raw_events_ordered()`)
	if err != nil {
		return helper.NewError("query", err)
	}
	defer rows.Close()

	for rows.Next() {
		event := model.RawEvent{}
		err := rows.Scan(
			&event.ID,
			&event.CompanyID,
			&event.EventDate,
			&event.EventType,
			&event.Information,
		)
		if err != nil {
			return helper.NewError("scan", err)
		}
		if err := handle(event); err != nil {
			return err
		}
	}

	err = rows.Err()
	if err != nil {
		return helper.NewError("rows error", err)
	}

	return nil
}

// SelectRawEventCount returns the number of stored filings
func (h *RawEventsDBHandler) SelectRawEventCount() (int64, error) {
	var count int64
	err := h.db.Instance.QueryRow(`SELECT * FROM select_raw_event_count()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}
