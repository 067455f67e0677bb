package model

import "errors"

// ErrCompanyReactivated is returned when a filing tries to reactivate a
// company after a deletion announcement. The register never does that for
// the same register id, so it indicates a grouping defect upstream.
var ErrCompanyReactivated = errors.New("company reactivated after deactivation")

// Company is the replayed state of one register id plus the diff events
// produced while replaying its filings in order.
type Company struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Address   string           `json:"address"`
	LegalForm string           `json:"legal_form"`
	Purpose   string           `json:"purpose"`
	Capital   *float64         `json:"capital"`
	Currency  string           `json:"currency"`
	Active    bool             `json:"active"`
	Persons   []*Person        `json:"persons"`
	Roles     []*CorporateRole `json:"roles"`
	Events    []*TypedEvent    `json:"events"`
}

// NewCompany returns an active company with no state assigned yet.
func NewCompany(id int64) *Company {
	return &Company{
		ID:       id,
		Currency: "EUR",
		Active:   true,
	}
}

// AppendEvent records an already built event. Nil events are ignored so
// setter results can be appended unconditionally.
func (c *Company) AppendEvent(event *TypedEvent) {
	if event != nil {
		c.Events = append(c.Events, event)
	}
}

// SetName updates the name and returns a NEW_NAME event, or nil when the
// value is unchanged.
func (c *Company) SetName(name string, date string) *TypedEvent {
	if name == "" || name == c.Name {
		return nil
	}
	c.Name = name
	return &TypedEvent{Date: date, Type: EventNewName, Payload: StringPayload(name)}
}

// SetAddress updates the address and returns a NEW_ADDRESS event, or nil
// when the value is unchanged.
func (c *Company) SetAddress(address string, date string) *TypedEvent {
	if address == "" || address == c.Address {
		return nil
	}
	c.Address = address
	return &TypedEvent{Date: date, Type: EventNewAddress, Payload: StringPayload(address)}
}

// SetLegalForm updates the legal form and returns a NEW_TYPE event, or nil
// when the value is unchanged.
func (c *Company) SetLegalForm(legalForm string, date string) *TypedEvent {
	if legalForm == "" || legalForm == c.LegalForm {
		return nil
	}
	c.LegalForm = legalForm
	return &TypedEvent{Date: date, Type: EventNewLegalForm, Payload: StringPayload(legalForm)}
}

// SetPurpose updates the business purpose and returns a NEW_PURPOSE event,
// or nil when the value is unchanged.
func (c *Company) SetPurpose(purpose string, date string) *TypedEvent {
	if purpose == "" || purpose == c.Purpose {
		return nil
	}
	c.Purpose = purpose
	return &TypedEvent{Date: date, Type: EventNewPurpose, Payload: StringPayload(purpose)}
}

// SetCapital updates the registered capital and returns a NEW_CAPITAL event,
// or nil when amount and currency are unchanged.
func (c *Company) SetCapital(amount float64, currency string, date string) *TypedEvent {
	if c.Capital != nil && *c.Capital == amount && c.Currency == currency {
		return nil
	}
	c.Capital = &amount
	c.Currency = currency
	return &TypedEvent{Date: date, Type: EventNewCapital, Payload: Payload{
		"capital":  amount,
		"currency": currency,
	}}
}

// SetActive applies an activation flag from a filing. Deactivation emits
// COMPANY_DEACTIVATED once and is idempotent afterwards. Reactivating a
// deactivated company is rejected with ErrCompanyReactivated.
func (c *Company) SetActive(active bool, date string) (*TypedEvent, error) {
	if active == c.Active {
		return nil, nil
	}
	if active {
		return nil, ErrCompanyReactivated
	}
	c.Active = false
	return &TypedEvent{Date: date, Type: EventCompanyDeactivated, Payload: Payload{}}, nil
}

// FindOrInsertPerson returns the company's person matching candidate under
// the same-person predicate, merging any newly known fields into it. Persons
// that never matched are appended as new.
func (c *Company) FindOrInsertPerson(candidate *Person) *Person {
	for _, person := range c.Persons {
		if person.SamePerson(candidate) {
			person.Merge(candidate)
			return person
		}
	}
	c.Persons = append(c.Persons, candidate)
	return candidate
}

// FindOrInsertRole returns the existing role binding for (person, role) or
// appends a fresh one with no interval assigned yet.
func (c *Company) FindOrInsertRole(person *Person, role RoleKind) *CorporateRole {
	for _, r := range c.Roles {
		if r.Person == person && r.Role == role {
			return r
		}
	}
	binding := &CorporateRole{CompanyID: c.ID, Person: person, Role: role}
	c.Roles = append(c.Roles, binding)
	return binding
}
