package corporate

import (
	"context"
	"log"
	"strings"
	"testing"

	"github.com/konradh/hpi-ii-project-2022/core/match"
	"github.com/konradh/hpi-ii-project-2022/helper"
	"github.com/konradh/hpi-ii-project-2022/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var dbPort string

func TestMain(m *testing.M) {
	var teardown func(ctx context.Context, opts ...testcontainers.TerminateOption) error
	var err error
	teardown, dbPort, err = helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("error starting postgres container: %v", err)
	}

	m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatalf("error tearing down postgres container: %v", err)
	}
}

func initCorporate(t *testing.T) *Corporate {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")

	corporate, err := NewCorporate(dbConfig, model.NewParserConfig(), model.NewMatcherConfig())
	require.NoError(t, err, "Expected NewCorporate to not return an error")
	return corporate
}

func TestNewCorporate(t *testing.T) {
	corporate := initCorporate(t)

	require.NotNil(t, corporate.DB)
	require.NotNil(t, corporate.DB.Instance)
	assert.NotNil(t, corporate.Companies)
	assert.NotNil(t, corporate.Persons)
	assert.NotNil(t, corporate.Roles)
	assert.NotNil(t, corporate.Events)
	assert.NotNil(t, corporate.RawEvents)
	assert.NotNil(t, corporate.Parser)
}

const crawlExport = `company_id,event_date,event_type,information
101,2022-01-03,create,"Acme GmbH, Musterstr. 1 (Hamburg, 20095), Rechtsform: Gesellschaft mit beschränkter Haftung."
101,2022-02-01,update,"Acme GmbH, Musterstr. 1 (Hamburg, 20095), Kapital: 25.000,00 EUR. Geschäftsführer: Müller, Hans, München, *01.01.1950."
102,2022-01-10,create,"Beta GmbH, Hauptweg 1 (Mitte, 10115 Berlin) Geschäftsführer: Mueller, Hans, Muenchen, *01.01.1950."
102,2022-09-01,delete,
`

func TestImportAndRunExtraction(t *testing.T) {
	corporate := initCorporate(t)

	imported, err := corporate.ImportRawEventsCSV(strings.NewReader(crawlExport), nil)
	require.NoError(t, err, "Expected ImportRawEventsCSV to not return an error")
	assert.Equal(t, 4, imported, "Expected all data rows to be imported, header skipped")

	progressed := 0
	report, err := corporate.RunExtraction(context.Background(), ExtractionOptions{
		Workers:  2,
		Progress: func(events int) { progressed += events },
		// Stand-in for the NER model, every birth date marker is one
		// person mention.
		MentionCounter: func(text string) (int, error) {
			return strings.Count(text, "*"), nil
		},
	})
	require.NoError(t, err, "Expected RunExtraction to not return an error")
	require.NotNil(t, report)
	assert.Equal(t, 2, report.Companies, "Expected both companies to be replayed")
	assert.Zero(t, report.Failed)
	assert.Equal(t, 4, report.Stats.Events)
	assert.Zero(t, report.Stats.UnmatchedPreambles)
	assert.Equal(t, 2, report.Stats.RoleEvents[model.RoleManager])
	assert.Equal(t, 4, progressed, "Expected progress to cover every raw event")
	assert.Equal(t, 2, report.ModelMentions, "Expected one counted mention per birth date marker")

	acme, err := corporate.Companies.SelectCompany(101)
	require.NoError(t, err)
	assert.Equal(t, "Acme GmbH", acme.Name)
	assert.Equal(t, "Musterstr. 1, 20095 Hamburg", acme.Address)
	assert.Equal(t, "Gesellschaft mit beschränkter Haftung", acme.LegalForm)
	require.NotNil(t, acme.Capital)
	assert.Equal(t, 25000.0, *acme.Capital)
	assert.True(t, acme.Active)

	beta, err := corporate.Companies.SelectCompany(102)
	require.NoError(t, err)
	assert.False(t, beta.Active, "Expected the delete filing to deactivate the company")

	events, err := corporate.Events.SelectTypedEventsByCompany(102)
	require.NoError(t, err)
	var sawDeactivation bool
	for _, event := range events {
		if event.Type == model.EventCompanyDeactivated {
			sawDeactivation = true
		}
	}
	assert.True(t, sawDeactivation, "Expected a COMPANY_DEACTIVATED event for the delete filing")
}

func TestMatchLEIRecords(t *testing.T) {
	corporate := initCorporate(t)

	company := model.NewCompany(301)
	company.Name = "Nordlicht Logistik GmbH"
	company.Address = "Kaistr. 7, 18055 Rostock"
	require.NoError(t, corporate.Companies.UpsertCompany(company))

	records := []match.LEIRecord{
		{LEI: "529900T8BM49AURSDO55", Name: "Nordlicht Logistik G.m.b.H.", PostalCode: "18055"},
		{LEI: "529900J2N45DDNE4Y554", Name: "Other AG", PostalCode: "18055"},
		{LEI: "529900D6G9GGQJ5OIL14", Name: "Nordlicht Logistik GmbH", PostalCode: "80331"},
	}

	matches, stats, err := corporate.MatchLEIRecords(records)
	require.NoError(t, err, "Expected MatchLEIRecords to not return an error")
	require.Len(t, matches, 1, "Expected only the punctuation variant in the same postal block to match")
	assert.Equal(t, int64(301), matches[0].CompanyID)
	assert.Equal(t, "529900T8BM49AURSDO55", matches[0].LEI)
	assert.GreaterOrEqual(t, stats.Comparisons, 2)
}

func TestRunDeduplicationMergesAcrossCompanies(t *testing.T) {
	corporate := initCorporate(t)

	// The two liquidators are the same person behind umlaut spelling
	// variants.
	export := `201,2022-01-03,create,"Gamma GmbH, Ringstr. 2 (Hamburg, 20095) Liquidator: Weiß, Friedrich, Köln, *09.03.1948."
202,2022-01-10,create,"Delta GmbH, Hauptweg 9 (Mitte, 10115 Berlin) Liquidator: Weiss, Friedrich, Koeln, *09.03.1948."
`
	_, err := corporate.ImportRawEventsCSV(strings.NewReader(export), nil)
	require.NoError(t, err)
	_, err = corporate.RunExtraction(context.Background(), ExtractionOptions{Workers: 2})
	require.NoError(t, err)

	result, err := corporate.RunDeduplication(context.Background())
	require.NoError(t, err, "Expected RunDeduplication to not return an error")
	require.NotNil(t, result)
	assert.GreaterOrEqual(t, result.PersonsMerged, 1, "Expected the spelling variants to collapse")

	gammaRoles, err := corporate.Roles.SelectRolesByCompany(201)
	require.NoError(t, err)
	deltaRoles, err := corporate.Roles.SelectRolesByCompany(202)
	require.NoError(t, err)
	require.Len(t, gammaRoles, 1)
	require.Len(t, deltaRoles, 1)
	assert.Equal(t, gammaRoles[0].Person.ID, deltaRoles[0].Person.ID,
		"Expected both roles to reference the canonical person after the merge")
}
