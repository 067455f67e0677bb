package pipeline

import "github.com/konradh/hpi-ii-project-2022/model"

// Preamble is the structured head of a filing text: legal name, postal
// address and, on founding filings, the legal form clause.
type Preamble struct {
	Name      string
	Address   string
	LegalForm string
}

// Capital is a parsed registered capital statement.
type Capital struct {
	Amount   float64
	Currency string
}

// RoleAction is what a role segment does to the persons it lists.
type RoleAction int

const (
	RoleAppointed RoleAction = iota
	RoleRemoved
	RoleRevoked
)

// RoleSegment is one role clause of a filing: a role kind, the action the
// clause performs and the persons it lists.
type RoleSegment struct {
	Role    model.RoleKind
	Action  RoleAction
	Persons []*model.Person
}

// PreambleExtractFunc parses the head of a filing text.
// Returns false on a hard miss, i.e. not even a name could be captured.
// eventType distinguishes founding filings, which carry the legal form clause.
type PreambleExtractFunc func(information string, eventType string) (*Preamble, bool)

// PurposeExtractFunc captures the business purpose clause of a filing.
type PurposeExtractFunc func(information string) (string, bool)

// CapitalExtractFunc captures the registered capital clause of a filing.
type CapitalExtractFunc func(information string) (*Capital, bool)

// SegmentExtractFunc splits a filing into role segments and parses the person
// entries of each. The second return value counts entries that were listed
// but could not be parsed.
type SegmentExtractFunc func(information string) ([]RoleSegment, int)
