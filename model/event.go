package model

// EventType identifies one observable kind of change to a company.
type EventType string

const (
	EventCompanyDeactivated EventType = "COMPANY_DEACTIVATED"
	EventNewName            EventType = "NEW_NAME"
	EventNewLegalForm       EventType = "NEW_TYPE"
	EventNewAddress         EventType = "NEW_ADDRESS"
	EventNewPurpose         EventType = "NEW_PURPOSE"
	EventNewCapital         EventType = "NEW_CAPITAL"
	EventNewCorporateRole   EventType = "NEW_CORPORATE_ROLE"
	EventRoleDeactivated    EventType = "CORPORATE_ROLE_DEACTIVATED"
	EventRoleReactivated    EventType = "CORPORATE_ROLE_REACTIVATED"
	EventRoleRevoked        EventType = "ROLE_REVOKED"
)

// TypedEvent is a derived, de-duplicated record of one observable change,
// distinct from the raw filing text it was extracted from. Typed events are
// immutable and append-only.
type TypedEvent struct {
	Date    string    `json:"date"`
	Type    EventType `json:"type"`
	Payload Payload   `json:"payload"`
}

// Raw filing event types as produced by the register crawler.
const (
	RawEventCreate = "create"
	RawEventUpdate = "update"
	RawEventDelete = "delete"
)

// RawEvent is one row of the authoritative free-text change log.
type RawEvent struct {
	ID          int64  `json:"id"`
	CompanyID   int64  `json:"company_id"`
	EventDate   string `json:"event_date"`
	EventType   string `json:"event_type"`
	Information string `json:"information"`
}
