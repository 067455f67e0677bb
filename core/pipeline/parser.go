package pipeline

import (
	"log/slog"

	"github.com/konradh/hpi-ii-project-2022/helper"
	"github.com/konradh/hpi-ii-project-2022/model"
)

// Stats are the data quality counters of an extraction pass. The unmatched
// preamble ratio is the primary signal for how well the cascade fits the
// crawled register.
type Stats struct {
	Events             int
	UnmatchedPreambles int
	DroppedEntries     int
	RoleEvents         map[model.RoleKind]int
}

// Add merges the counters of another pass, used to aggregate worker results.
func (s *Stats) Add(other Stats) {
	s.Events += other.Events
	s.UnmatchedPreambles += other.UnmatchedPreambles
	s.DroppedEntries += other.DroppedEntries
	for kind, count := range other.RoleEvents {
		s.countRole(kind, count)
	}
}

func (s *Stats) countRole(kind model.RoleKind, count int) {
	if s.RoleEvents == nil {
		s.RoleEvents = map[model.RoleKind]int{}
	}
	s.RoleEvents[kind] += count
}

// Parser replays the raw filings of one company at a time into the structured
// model. The extractors are pluggable, the defaults implement the German
// register conventions.
type Parser struct {
	Preamble PreambleExtractFunc
	Purpose  PurposeExtractFunc
	Capital  CapitalExtractFunc
	Segments SegmentExtractFunc
	Config   model.ParserConfig
	Logger   *slog.Logger
}

// NewParser creates a parser with the default extractors for config.
func NewParser(config model.ParserConfig, logger *slog.Logger) *Parser {
	return &Parser{
		Preamble: DefaultPreambleExtractor(),
		Purpose:  DefaultPurposeExtractor(),
		Capital:  DefaultCapitalExtractor(config),
		Segments: DefaultSegmentExtractor(config),
		Config:   config,
		Logger:   logger,
	}
}

// ParseCompany replays events in order and returns the resulting company
// snapshot with its diff event log. events must all belong to companyID and
// be ordered by filing date.
func (p *Parser) ParseCompany(companyID int64, events []model.RawEvent) (*model.Company, Stats, error) {
	company := model.NewCompany(companyID)
	stats := Stats{}
	for _, event := range events {
		stats.Events++
		if err := p.parseRawEvent(company, event, &stats); err != nil {
			return nil, stats, helper.NewError("parsing raw event", err)
		}
	}
	return company, stats, nil
}

func (p *Parser) parseRawEvent(company *model.Company, event model.RawEvent, stats *Stats) error {
	if event.EventType == model.RawEventDelete {
		deactivated, err := company.SetActive(false, event.EventDate)
		if err != nil {
			return err
		}
		company.AppendEvent(deactivated)
		return nil
	}

	if preamble, ok := p.Preamble(event.Information, event.EventType); ok {
		company.AppendEvent(company.SetName(preamble.Name, event.EventDate))
		company.AppendEvent(company.SetAddress(preamble.Address, event.EventDate))
		company.AppendEvent(company.SetLegalForm(preamble.LegalForm, event.EventDate))
	} else {
		stats.UnmatchedPreambles++
		p.Logger.Warn("preamble not matched", "company", company.ID, "information", truncate(event.Information, 150))
	}

	if capital, ok := p.Capital(event.Information); ok {
		company.AppendEvent(company.SetCapital(capital.Amount, capital.Currency, event.EventDate))
	}
	if purpose, ok := p.Purpose(event.Information); ok {
		company.AppendEvent(company.SetPurpose(purpose, event.EventDate))
	}

	segments, dropped := p.Segments(event.Information)
	stats.DroppedEntries += dropped
	for _, segment := range segments {
		stats.countRole(segment.Role, len(segment.Persons))
		for _, candidate := range segment.Persons {
			person := company.FindOrInsertPerson(candidate)
			role := company.FindOrInsertRole(person, segment.Role)
			if segment.Action == RoleRevoked {
				company.AppendEvent(role.Revoke(event.EventDate))
			} else {
				company.AppendEvent(role.Assign(segment.Action == RoleAppointed, event.EventDate))
			}
		}
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
