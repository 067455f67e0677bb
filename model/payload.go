package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/konradh/hpi-ii-project-2022/helper"
)

// Payload represents the JSONB payload of a typed event stored in PostgreSQL
type Payload map[string]interface{}

// StringPayload wraps a plain string value the way the event log stores scalar changes.
func StringPayload(value string) Payload {
	return Payload{"value": value}
}

// Value implements the driver.Valuer interface for database storage
func (p Payload) Value() (driver.Value, error) {
	return p.Marshal()
}

// Scan implements the sql.Scanner interface for database retrieval
func (p *Payload) Scan(value interface{}) error {
	return p.Unmarshal(value)
}

// Marshal converts Payload to JSON bytes
func (p Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// Unmarshal converts JSON bytes or Payload to Payload
func (p *Payload) Unmarshal(value interface{}) error {
	if value == nil {
		*p = Payload{}
		return nil
	}

	if s, ok := value.(Payload); ok {
		*p = Payload(s)
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, p)
}
