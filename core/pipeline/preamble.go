package pipeline

import (
	"fmt"
	"regexp"

	"github.com/konradh/hpi-ii-project-2022/model"
)

// Filings start with an optional register reference like "HRB 12345 B: ".
const registerPrefix = `^(?:[A-Z]+ \d+(?: .)?: )?`

var (
	// "Name, Street 1 (District, 12345 City, ...)" with optional district
	// and an optional trailing clause inside the parentheses.
	preambleStructured = regexp.MustCompile(registerPrefix +
		`(.+?), ([^,.]+?) ?\((?:(.+?), )?(\d{5}) *([^,]+?)(?:, (?:.+?)|Gegenstand: (?:.+?))?\)`)
	// "Name, Street 1 (City, 12345)" puts the city before the postal code.
	preambleCityFirst = regexp.MustCompile(registerPrefix +
		`(.+?), ([^,(]+?) ?\(([^,()]+?), (\d{5})\)`)
	// "Name, CityStreet 1, 12345 City." glues the city onto the street
	// with no separator, recognizable by the case change.
	preambleGluedCity = regexp.MustCompile(registerPrefix +
		`(.+?), ([^,.(]+?[a-z])([A-Z][^,]+?), (\d{5}) ([^,.]+?)\.`)
	// "Name, City, Street 1, 12345 City."
	preambleCityStreet = regexp.MustCompile(registerPrefix +
		`(.+?), ([^,.(]+?), ([^,]+?), (\d{5}) ([^,.]+?)\.`)

	preambleFallbackName    = regexp.MustCompile(`^(.+?),`)
	preambleFallbackAddress = regexp.MustCompile(`(\d{5}) ([^,.]+)`)

	legalFormClause = regexp.MustCompile(`Rechtsform: (.+?)[.;]`)
)

// legalForm captures the legal form clause on founding filings only. Later
// filings repeat the clause verbatim and would drown out real changes.
func legalForm(information string, eventType string) string {
	if eventType != model.RawEventCreate {
		return ""
	}
	if m := legalFormClause.FindStringSubmatch(information); m != nil {
		return m[1]
	}
	return ""
}

// DefaultPreambleExtractor parses the filing head with an ordered pattern
// cascade, most specific first. The order is significant: the looser
// patterns happily swallow text an earlier pattern parses correctly.
func DefaultPreambleExtractor() PreambleExtractFunc {
	return func(information string, eventType string) (*Preamble, bool) {
		if m := preambleStructured.FindStringSubmatch(information); m != nil {
			district := m[3]
			if district == "" {
				district = m[2]
			}
			return &Preamble{
				Name:      m[1],
				Address:   fmt.Sprintf("%s, %s %s", district, m[4], m[5]),
				LegalForm: legalForm(information, eventType),
			}, true
		}
		if m := preambleCityFirst.FindStringSubmatch(information); m != nil {
			return &Preamble{
				Name:      m[1],
				Address:   fmt.Sprintf("%s, %s %s", m[2], m[4], m[3]),
				LegalForm: legalForm(information, eventType),
			}, true
		}
		if m := preambleGluedCity.FindStringSubmatch(information); m != nil {
			return &Preamble{
				Name:      m[1],
				Address:   fmt.Sprintf("%s, %s %s", m[3], m[4], m[2]),
				LegalForm: legalForm(information, eventType),
			}, true
		}
		if m := preambleCityStreet.FindStringSubmatch(information); m != nil {
			return &Preamble{
				Name:      m[1],
				Address:   fmt.Sprintf("%s, %s %s", m[3], m[4], m[5]),
				LegalForm: legalForm(information, eventType),
			}, true
		}
		// Incomplete fallback: at least the name before the first comma,
		// plus a postal code if one shows up anywhere.
		if m := preambleFallbackName.FindStringSubmatch(information); m != nil {
			preamble := &Preamble{Name: m[1]}
			if a := preambleFallbackAddress.FindStringSubmatch(information); a != nil {
				preamble.Address = fmt.Sprintf("???, %s %s", a[1], a[2])
			}
			return preamble, true
		}
		return nil, false
	}
}
