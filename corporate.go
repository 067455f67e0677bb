package corporate

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/konradh/hpi-ii-project-2022/core/dedup"
	"github.com/konradh/hpi-ii-project-2022/core/match"
	"github.com/konradh/hpi-ii-project-2022/core/pipeline"
	"github.com/konradh/hpi-ii-project-2022/database"
	"github.com/konradh/hpi-ii-project-2022/helper"
	"github.com/konradh/hpi-ii-project-2022/model"
	loadSql "github.com/konradh/hpi-ii-project-2022/sql"
)

// Corporate provides a unified interface to the register store and the batch
// runners on top of it.
type Corporate struct {
	DB        *helper.Database
	Companies *database.CompaniesDBHandler
	Persons   *database.PersonsDBHandler
	Roles     *database.CorporateRolesDBHandler
	Events    *database.TypedEventsDBHandler
	RawEvents *database.RawEventsDBHandler
	Parser    *pipeline.Parser
	Matcher   model.MatcherConfig
	// Logging
	log *slog.Logger
}

// NewCorporate creates a Corporate instance with all handlers initialized
func NewCorporate(config *helper.DatabaseConfiguration, parserConfig model.ParserConfig, matcherConfig model.MatcherConfig) (*Corporate, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("corporate", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers in dependency order (roles reference companies
	// and persons). force=false to not reload if functions already exist.
	companies, err := database.NewCompaniesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create companies handler", err)
	}

	persons, err := database.NewPersonsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create persons handler", err)
	}

	roles, err := database.NewCorporateRolesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create corporate roles handler", err)
	}

	events, err := database.NewTypedEventsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create typed events handler", err)
	}

	rawEvents, err := database.NewRawEventsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create raw events handler", err)
	}

	return &Corporate{
		DB:        db,
		Companies: companies,
		Persons:   persons,
		Roles:     roles,
		Events:    events,
		RawEvents: rawEvents,
		Parser:    pipeline.NewParser(parserConfig, logger),
		Matcher:   matcherConfig,
		log:       logger,
	}, nil
}

// Close closes the database connection
func (c *Corporate) Close() error {
	if c.DB != nil && c.DB.Instance != nil {
		return c.DB.Instance.Close()
	}
	return nil
}

// ImportRawEventsCSV loads a crawler export into the raw_events table. The
// expected columns are company id, event date, event type and the filing
// text; a header row is skipped. progress, when set, is called with the
// number of imported rows after each insert.
func (c *Corporate) ImportRawEventsCSV(r io.Reader, progress func(imported int)) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4

	imported := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, helper.NewError("read csv record", err)
		}
		if record[0] == "company_id" || record[0] == "rb_id" {
			continue
		}

		companyID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return imported, helper.NewError("parse company id", err)
		}
		event := &model.RawEvent{
			CompanyID:   companyID,
			EventDate:   record[1],
			EventType:   record[2],
			Information: record[3],
		}
		if err := c.RawEvents.InsertRawEvent(event); err != nil {
			return imported, helper.NewError("insert raw event", err)
		}

		imported++
		if progress != nil {
			progress(imported)
		}
	}

	c.log.Info("Imported raw events", slog.Int("rows", imported))
	return imported, nil
}

// ExtractionOptions configure one extraction run.
type ExtractionOptions struct {
	// Workers bounds the parser worker pool, <1 means one worker.
	Workers int
	// Progress, when set, is called with the number of raw events a
	// finished company consumed. Called from worker goroutines.
	Progress func(events int)
	// MentionCounter, when set, additionally counts person mentions in
	// every filing text. Comparing ModelMentions against the role event
	// counts estimates how many persons the patterns miss.
	MentionCounter pipeline.MentionCountFunc
}

// ExtractionReport summarizes one extraction run.
type ExtractionReport struct {
	RunID     uuid.UUID
	Companies int
	Failed    int
	// ModelMentions is only filled when ExtractionOptions.MentionCounter
	// is set.
	ModelMentions int
	Stats         pipeline.Stats
}

// RunExtraction replays the whole raw event log into companies, persons,
// roles and typed events. Companies are disjoint units of work, so batches
// are fanned out to a bounded worker pool and each result is saved in its
// own transaction. A company whose replay violates the lifecycle invariants
// is logged and skipped, the run continues.
func (c *Corporate) RunExtraction(ctx context.Context, opts ExtractionOptions) (*ExtractionReport, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	report := &ExtractionReport{RunID: uuid.New()}
	c.log.Info("Starting extraction", slog.String("run_id", report.RunID.String()), slog.Int("workers", workers))

	writer := database.NewBatchWriter(c.DB)
	batches := make(chan *pipeline.CompanyBatch, workers)

	group, groupCtx := errgroup.WithContext(ctx)
	var mutex sync.Mutex

	for i := 0; i < workers; i++ {
		group.Go(func() error {
			for batch := range batches {
				company, stats, err := c.Parser.ParseCompany(batch.CompanyID, batch.Events)

				mentions := 0
				if opts.MentionCounter != nil {
					for _, event := range batch.Events {
						count, countErr := opts.MentionCounter(event.Information)
						if countErr != nil {
							c.log.Warn("Mention scan failed", slog.Int64("company", batch.CompanyID), slog.String("error", countErr.Error()))
							continue
						}
						mentions += count
					}
				}

				mutex.Lock()
				report.ModelMentions += mentions
				report.Companies++
				report.Stats.Add(stats)
				if err != nil {
					report.Failed++
				}
				mutex.Unlock()

				if err != nil {
					c.log.Error("Company replay failed", slog.Int64("company", batch.CompanyID), slog.String("error", err.Error()))
					continue
				}
				if err := writer.SaveCompanyResult(groupCtx, company); err != nil {
					return helper.NewError(fmt.Sprintf("save company %d", batch.CompanyID), err)
				}
				if opts.Progress != nil {
					opts.Progress(len(batch.Events))
				}
			}
			return nil
		})
	}

	group.Go(func() error {
		defer close(batches)
		grouper := &pipeline.Grouper{}
		dispatch := func(batch *pipeline.CompanyBatch) error {
			if batch == nil {
				return nil
			}
			select {
			case batches <- batch:
				return nil
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
		err := c.RawEvents.StreamRawEvents(groupCtx, func(event model.RawEvent) error {
			return dispatch(grouper.Push(event))
		})
		if err != nil {
			return err
		}
		return dispatch(grouper.Flush())
	})

	if err := group.Wait(); err != nil {
		return nil, helper.NewError("extraction run", err)
	}

	c.log.Info("Extraction finished",
		slog.String("run_id", report.RunID.String()),
		slog.Int("companies", report.Companies),
		slog.Int("failed", report.Failed),
		slog.Int("events", report.Stats.Events),
		slog.Int("unmatched_preambles", report.Stats.UnmatchedPreambles),
		slog.Int("dropped_entries", report.Stats.DroppedEntries))
	return report, nil
}

// MatchLEIRecords joins the stored companies against external legal entity
// identifier records, blocked by postal code.
func (c *Corporate) MatchLEIRecords(records []match.LEIRecord) ([]match.Match, match.JoinStats, error) {
	companies, err := c.Companies.SelectAllCompanies()
	if err != nil {
		return nil, match.JoinStats{}, err
	}

	candidates := make([]match.Company, 0, len(companies))
	for _, company := range companies {
		candidates = append(candidates, match.Company{
			ID:      company.ID,
			Name:    company.Name,
			Address: company.Address,
		})
	}

	matches, stats := match.Join(candidates, records)
	c.log.Info("Matched companies against LEI records",
		slog.Int("companies", len(candidates)),
		slog.Int("records", len(records)),
		slog.Int("matches", len(matches)),
		slog.Int("comparisons", stats.Comparisons))
	return matches, stats, nil
}

// RunDeduplication collapses duplicate person records across all companies.
func (c *Corporate) RunDeduplication(ctx context.Context) (*dedup.Result, error) {
	runID := uuid.New()
	c.log.Info("Starting identity resolution", slog.String("run_id", runID.String()))

	store, err := database.NewResolutionStore(c.DB)
	if err != nil {
		return nil, err
	}

	result, err := dedup.NewResolver(store, c.Matcher, c.log).Run(ctx)
	if err != nil {
		return nil, helper.NewError("identity resolution run", err)
	}

	c.log.Info("Identity resolution finished",
		slog.String("run_id", runID.String()),
		slog.Int64("invalid_birth_dates", result.InvalidDatesCleared),
		slog.Int("exact_merged", result.ExactMerged),
		slog.Int("fuzzy_pairs", result.FuzzyPairs),
		slog.Int("clusters", result.Clusters),
		slog.Int("persons_merged", result.PersonsMerged))
	return result, nil
}
