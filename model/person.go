package model

// Person is a natural person associated with a company. The ID is assigned on
// first persistence and stays zero for persons that only live in memory.
// BirthDate is stored in calendar order (yyyy-mm-dd); empty string means unknown.
type Person struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	BirthDate  string `json:"birth_date"`
	BirthPlace string `json:"birth_place"`
	Deleted    bool   `json:"deleted"`
}

// SamePerson reports whether two person records describe the same natural person.
// First and last name must be equal; birth place and birth date only disagree
// when both sides have them populated. Unknown fields never block equality.
// The predicate is reflexive and symmetric but not transitive; transitivity is
// imposed later by the duplicate cluster closure.
func (p *Person) SamePerson(other *Person) bool {
	if p.FirstName != other.FirstName {
		return false
	}
	if p.LastName != other.LastName {
		return false
	}
	if p.BirthPlace != "" && other.BirthPlace != "" && p.BirthPlace != other.BirthPlace {
		return false
	}
	if p.BirthDate != "" && other.BirthDate != "" && p.BirthDate != other.BirthDate {
		return false
	}
	return true
}

// Merge fills unknown fields from the other record. Populated fields are never
// overwritten.
func (p *Person) Merge(other *Person) *Person {
	if p.BirthDate == "" {
		p.BirthDate = other.BirthDate
	}
	if p.BirthPlace == "" {
		p.BirthPlace = other.BirthPlace
	}
	return p
}

// EventPayload returns the person fields as stored in role event payloads.
func (p *Person) EventPayload() Payload {
	payload := Payload{
		"first_name":  p.FirstName,
		"last_name":   p.LastName,
		"birth_date":  nil,
		"birth_place": nil,
	}
	if p.BirthDate != "" {
		payload["birth_date"] = p.BirthDate
	}
	if p.BirthPlace != "" {
		payload["birth_place"] = p.BirthPlace
	}
	return payload
}
