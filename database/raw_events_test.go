package database

import (
	"context"
	"testing"

	"github.com/konradh/hpi-ii-project-2022/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawEventsNewRawEventsDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewRawEventsDBHandler", func(t *testing.T) {
		rawEventsDbHandler, err := NewRawEventsDBHandler(database, true)
		assert.NoError(t, err, "Expected NewRawEventsDBHandler to not return an error")
		require.NotNil(t, rawEventsDbHandler, "Expected NewRawEventsDBHandler to return a non-nil instance")
		require.NotNil(t, rawEventsDbHandler.db, "Expected NewRawEventsDBHandler to have a non-nil database instance")
		require.NotNil(t, rawEventsDbHandler.db.Instance, "Expected NewRawEventsDBHandler to have a non-nil database connection instance")
	})

	t.Run("Invalid call NewRawEventsDBHandler with nil database", func(t *testing.T) {
		_, err := NewRawEventsDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating RawEventsDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestRawEventsInsertAndStream(t *testing.T) {
	database := initDB(t)

	rawEventsDbHandler, err := NewRawEventsDBHandler(database, true)
	require.NoError(t, err, "Expected NewRawEventsDBHandler to not return an error")

	countBefore, err := rawEventsDbHandler.SelectRawEventCount()
	require.NoError(t, err)

	// Insertion order per company must survive, companies may arrive
	// interleaved from the crawl.
	filings := []*model.RawEvent{
		{CompanyID: 555002, EventDate: "2022-03-01", EventType: model.RawEventCreate, Information: "Beta GmbH gegründet."},
		{CompanyID: 555001, EventDate: "2022-03-02", EventType: model.RawEventCreate, Information: "Alpha GmbH gegründet."},
		{CompanyID: 555002, EventDate: "2022-04-01", EventType: model.RawEventUpdate, Information: "Kapital: 50.000,00 EUR."},
		{CompanyID: 555001, EventDate: "2022-05-01", EventType: model.RawEventDelete, Information: ""},
	}
	for _, filing := range filings {
		err := rawEventsDbHandler.InsertRawEvent(filing)
		require.NoError(t, err, "Expected InsertRawEvent to not return an error")
		assert.NotZero(t, filing.ID, "Expected inserted filing to have an id")
	}

	count, err := rawEventsDbHandler.SelectRawEventCount()
	assert.NoError(t, err)
	assert.Equal(t, countBefore+4, count, "Expected all filings to be counted")

	var streamed []model.RawEvent
	err = rawEventsDbHandler.StreamRawEvents(context.Background(), func(event model.RawEvent) error {
		if event.CompanyID == 555001 || event.CompanyID == 555002 {
			streamed = append(streamed, event)
		}
		return nil
	})
	assert.NoError(t, err, "Expected StreamRawEvents to not return an error")
	require.Len(t, streamed, 4)

	// Grouped by company, insertion order within each group.
	assert.Equal(t, int64(555001), streamed[0].CompanyID)
	assert.Equal(t, model.RawEventCreate, streamed[0].EventType)
	assert.Equal(t, int64(555001), streamed[1].CompanyID)
	assert.Equal(t, model.RawEventDelete, streamed[1].EventType)
	assert.Equal(t, int64(555002), streamed[2].CompanyID)
	assert.Equal(t, "Beta GmbH gegründet.", streamed[2].Information)
	assert.Equal(t, int64(555002), streamed[3].CompanyID)
	assert.Equal(t, model.RawEventUpdate, streamed[3].EventType)
}

func TestRawEventsStreamStopsOnHandlerError(t *testing.T) {
	database := initDB(t)

	rawEventsDbHandler, err := NewRawEventsDBHandler(database, true)
	require.NoError(t, err)

	filing := &model.RawEvent{CompanyID: 555003, EventDate: "2022-06-01", EventType: model.RawEventCreate, Information: "Gamma GmbH."}
	require.NoError(t, rawEventsDbHandler.InsertRawEvent(filing))

	calls := 0
	err = rawEventsDbHandler.StreamRawEvents(context.Background(), func(event model.RawEvent) error {
		calls++
		return assert.AnError
	})
	assert.Error(t, err, "Expected handler error to abort the stream")
	assert.Equal(t, 1, calls, "Expected the stream to stop after the failing row")
}
