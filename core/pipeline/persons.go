package pipeline

import (
	"regexp"
	"strings"
	"time"

	"github.com/konradh/hpi-ii-project-2022/model"
)

// Entry head shared by all person entry forms: optional list number, last
// name, first name (one or two tokens, no initials), optional maiden name.
const entryHead = `^(?:\d+\.[ \n]?)?([^,;]+?), ([^,; .]+(?: [^,; .]+)?)(?:, geb\. [^,; .]+(?: [^,; .]+)?)?`

var (
	// "Schmidt, Peter, Hamburg, *01.01.1970"
	entryFull = regexp.MustCompile(entryHead + `, ([^,;]+?), \*(\d{2}\.\d{2}\.\d{4})`)
	// "Schmidt, Peter, *01.01.1970, Hamburg"
	entryAlt = regexp.MustCompile(entryHead + `, \*(\d{2}\.\d{2}\.\d{4}), ([^,; ]+(?: [^,; ]+)*?)(?:[.,;]|$)`)
	// "Schmidt, Peter" or "Schmidt, Peter, *01.01.1970", accepted only in
	// removal segments where the person is already known.
	entryNameOnly = regexp.MustCompile(entryHead + `(?:, \*(\d{2}\.\d{2}\.\d{4}))?(?:[.,;]|$)`)

	birthPlaceTrailer = regexp.MustCompile(`[.,/]+$`)
)

// roleMarker finds role clause openers like "Geschäftsführer: ", including
// the "Nicht mehr" and "Widerrufen" prefixes that flip the clause's meaning.
// Keywords are ordered longest first so "Vorstandsvorsitzender" is never cut
// down to "Vorstand".
var roleMarker = regexp.MustCompile(
	`(?:^| )((?:[Nn]icht mehr )|(?:[Ww]iderruf(?:en)? ))?(` +
		strings.Join(model.RoleKeywords(), "|") + `):;? `)

// clauseTerminator marks clauses that end a person list without opening a
// new role segment.
var clauseTerminator = regexp.MustCompile(`(?:^| )(?:Rechtsform|Rechtsverhaeltnis|Rechtsverhältnis)`)

// reorderBirthDate turns "dd.mm.yyyy" into "yyyy-mm-dd" by position.
// Filings contain impossible dates like "26.00.1976"; those are kept verbatim
// unless validation is switched on.
func reorderBirthDate(raw string, validate bool) string {
	iso := raw[6:] + "-" + raw[3:5] + "-" + raw[:2]
	if validate {
		if _, err := time.Parse("2006-01-02", iso); err != nil {
			return ""
		}
	}
	return iso
}

// parseEntry parses one "; "-separated person entry. Name-only entries are
// accepted only when the segment removes or revokes, an appointment without
// birth data is too ambiguous to keep.
func parseEntry(entry string, action RoleAction, config model.ParserConfig) *model.Person {
	if m := entryFull.FindStringSubmatch(entry); m != nil {
		// The maiden name clause is optional, so a missing birth place can
		// make the pattern misread "geb. X" as the place. Reject those.
		if !strings.HasPrefix(m[3], "geb.") {
			return &model.Person{
				LastName:   m[1],
				FirstName:  m[2],
				BirthPlace: birthPlaceTrailer.ReplaceAllString(m[3], ""),
				BirthDate:  reorderBirthDate(m[4], config.ValidateBirthDates),
			}
		}
	}
	if m := entryAlt.FindStringSubmatch(entry); m != nil {
		return &model.Person{
			LastName:   m[1],
			FirstName:  m[2],
			BirthDate:  reorderBirthDate(m[3], config.ValidateBirthDates),
			BirthPlace: birthPlaceTrailer.ReplaceAllString(m[4], ""),
		}
	}
	if action == RoleAppointed {
		return nil
	}
	if m := entryNameOnly.FindStringSubmatch(entry); m != nil {
		person := &model.Person{LastName: m[1], FirstName: m[2]}
		if m[3] != "" {
			person.BirthDate = reorderBirthDate(m[3], config.ValidateBirthDates)
		}
		return person
	}
	return nil
}

// DefaultSegmentExtractor scans a filing for role clauses and parses the
// person list of each. A segment runs from its role marker to the next
// marker, the next terminating clause or the end of the text. Within a
// segment the first unparseable entry ends the list, the rest is counted as
// dropped.
func DefaultSegmentExtractor(config model.ParserConfig) SegmentExtractFunc {
	return func(information string) ([]RoleSegment, int) {
		markers := roleMarker.FindAllStringSubmatchIndex(information, -1)
		if markers == nil {
			return nil, 0
		}
		terminators := clauseTerminator.FindAllStringIndex(information, -1)

		var segments []RoleSegment
		dropped := 0
		for i, m := range markers {
			action := RoleAppointed
			if m[2] >= 0 {
				prefix := information[m[2]:m[3]]
				if strings.HasPrefix(prefix, "Widerruf") || strings.HasPrefix(prefix, "widerruf") {
					action = RoleRevoked
				} else {
					action = RoleRemoved
				}
			}
			role, ok := model.RoleFromKeyword(information[m[4]:m[5]])
			if !ok {
				continue
			}

			start := m[1]
			end := len(information)
			if i+1 < len(markers) && markers[i+1][0] < end {
				end = markers[i+1][0]
			}
			for _, t := range terminators {
				if t[0] >= start && t[0] < end {
					end = t[0]
				}
			}

			segment := RoleSegment{Role: role, Action: action}
			entries := strings.Split(information[start:end], "; ")
			for j, entry := range entries {
				person := parseEntry(entry, action, config)
				if person == nil {
					dropped += len(entries) - j
					break
				}
				segment.Persons = append(segment.Persons, person)
			}
			if len(segment.Persons) > 0 {
				segments = append(segments, segment)
			}
		}
		return segments, dropped
	}
}
