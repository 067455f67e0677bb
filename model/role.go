package model

// RoleKind is the normalized capacity a person holds in a company.
type RoleKind string

const (
	RoleManager     RoleKind = "MANAGER"
	RoleOwner       RoleKind = "OWNER"
	RoleBoardMember RoleKind = "BOARD_MEMBER"
	RoleChairman    RoleKind = "CHAIRMAN"
	RoleLiquidator  RoleKind = "LIQUIDATOR"
	RoleSoleProxy   RoleKind = "SOLE_PROXY"
	RoleProxy       RoleKind = "PROXY"
)

// roleKeywords maps the register filing wording to normalized role kinds.
// Order matters: longer keywords come first so the marker pattern prefers them
// (Vorstandsvorsitzender over Vorstand, Einzelprokurist over Prokurist).
// The "…ist" spellings collapse onto the same kinds as their "…a" variants.
var roleKeywords = []struct {
	Keyword string
	Kind    RoleKind
}{
	{"Vorstandsvorsitzender", RoleChairman},
	{"Vorstand", RoleBoardMember},
	{"Geschäftsführer", RoleManager},
	{"Inhaber", RoleOwner},
	{"Liquidator", RoleLiquidator},
	{"Einzelprokurist", RoleSoleProxy},
	{"Einzelprokura", RoleSoleProxy},
	{"Prokurist", RoleProxy},
	{"Prokura", RoleProxy},
}

// RoleKeywords returns the filing keywords in matching order.
func RoleKeywords() []string {
	keywords := make([]string, 0, len(roleKeywords))
	for _, rk := range roleKeywords {
		keywords = append(keywords, rk.Keyword)
	}
	return keywords
}

// RoleFromKeyword resolves a filing keyword to its normalized role kind.
func RoleFromKeyword(keyword string) (RoleKind, bool) {
	for _, rk := range roleKeywords {
		if rk.Keyword == keyword {
			return rk.Kind, true
		}
	}
	return "", false
}

// CorporateRole binds one person to one company under a role kind for a
// validity interval. A role assignment has at most one open interval; closing
// and re-opening toggles the same row instead of creating a new one.
// Active is nil until the first appointment or deactivation is seen.
type CorporateRole struct {
	CompanyID int64    `json:"company_id"`
	Person    *Person  `json:"person"`
	Role      RoleKind `json:"role"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Active    *bool    `json:"active"`
}

func (r *CorporateRole) eventPayload() Payload {
	return Payload{
		"role":   string(r.Role),
		"person": r.Person.EventPayload(),
	}
}

// Assign applies an appointment (active) or deactivation (inactive) dated at
// date and returns the resulting typed event. The first appointment emits
// NEW_CORPORATE_ROLE, a later one after a deactivation emits
// CORPORATE_ROLE_REACTIVATED, a deactivation emits CORPORATE_ROLE_DEACTIVATED
// and closes the interval. Repeating the current state is a no-op, filings
// often restate existing appointments verbatim.
func (r *CorporateRole) Assign(active bool, date string) *TypedEvent {
	if r.Active != nil && *r.Active == active {
		return nil
	}
	var event *TypedEvent
	if active {
		r.StartDate = date
		if r.Active == nil {
			event = &TypedEvent{Date: date, Type: EventNewCorporateRole, Payload: r.eventPayload()}
		} else {
			// Reactivation
			r.EndDate = ""
			event = &TypedEvent{Date: date, Type: EventRoleReactivated, Payload: r.eventPayload()}
		}
	} else {
		r.EndDate = date
		event = &TypedEvent{Date: date, Type: EventRoleDeactivated, Payload: r.eventPayload()}
	}
	r.Active = &active
	return event
}

// Revoke closes the interval and emits ROLE_REVOKED. Used for filings that
// withdraw a capacity explicitly instead of merely ending it. Revoking a
// role that is already inactive is a no-op, like restating an appointment.
func (r *CorporateRole) Revoke(date string) *TypedEvent {
	if r.Active != nil && !*r.Active {
		return nil
	}
	r.EndDate = date
	inactive := false
	r.Active = &inactive
	return &TypedEvent{Date: date, Type: EventRoleRevoked, Payload: r.eventPayload()}
}
