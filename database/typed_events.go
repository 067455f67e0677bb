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

// TypedEventsDBHandlerFunctions defines the interface for typed event
// database operations.
type TypedEventsDBHandlerFunctions interface {
	InsertTypedEvent(companyID int64, event *model.TypedEvent) error
	SelectTypedEventsByCompany(companyID int64) ([]*model.TypedEvent, error)
}

// TypedEventsDBHandler handles typed event database operations
type TypedEventsDBHandler struct {
	db *helper.Database
}

// NewTypedEventsDBHandler creates a new typed events database handler.
func NewTypedEventsDBHandler(db *helper.Database, force bool) (*TypedEventsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	typedEventsDbHandler := &TypedEventsDBHandler{
		db: db,
	}

	err := sql.LoadTypedEventsSql(typedEventsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load typed events sql", err)
	}

	err = typedEventsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized TypedEventsDBHandler")

	return typedEventsDbHandler, nil
}

// CreateTable creates the 'typed_events' table if it does not exist yet.
func (h *TypedEventsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_typed_events();`)
	if err != nil {
		log.Panicf("error initializing typed_events table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table typed_events")

	return nil
}

// InsertTypedEvent appends one typed event to a company's log.
func (h *TypedEventsDBHandler) InsertTypedEvent(companyID int64, event *model.TypedEvent) error {
	var id, company int64
	var eventDate, eventType string
	var payload model.Payload
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_typed_event($1, $2, $3, $4)`,
		companyID,
		event.Date,
		string(event.Type),
		event.Payload,
	)

	err := row.Scan(&id, &company, &eventDate, &eventType, &payload)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectTypedEventsByCompany retrieves a company's typed event log in append
// order.
func (h *TypedEventsDBHandler) SelectTypedEventsByCompany(companyID int64) ([]*model.TypedEvent, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_typed_events_by_company($1)`,
		companyID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var events []*model.TypedEvent
	for rows.Next() {
		var id, company int64
		var eventDate, eventType string
		payload := model.Payload{}
		err := rows.Scan(&id, &company, &eventDate, &eventType, &payload)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		events = append(events, &model.TypedEvent{
			Date:    eventDate,
			Type:    model.EventType(eventType),
			Payload: payload,
		})
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return events, nil
}
