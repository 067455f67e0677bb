package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	corporate "github.com/konradh/hpi-ii-project-2022"
	"github.com/konradh/hpi-ii-project-2022/helper"
	"github.com/konradh/hpi-ii-project-2022/model"
)

// A tiny crawler export: two companies whose managers are the same person
// behind umlaut spelling variants, and one company that gets dissolved.
const sampleExport = `company_id,event_date,event_type,information
1001,2022-01-03,create,"Acme GmbH, Musterstr. 1 (Hamburg, 20095), Rechtsform: Gesellschaft mit beschränkter Haftung. Gegenstand: Handel mit Waren. Kapital: 25.000,00 EUR. Geschäftsführer: Müller, Hans, München, *01.01.1950."
1002,2022-02-14,create,"Beta GmbH, Hauptweg 1 (Mitte, 10115 Berlin) Geschäftsführer: Mueller, Hans, Muenchen, *01.01.1950."
1003,2022-03-01,create,"Gamma GmbH, Ringstr. 2 (Hamburg, 20095) Liquidator: Weiß, Friedrich, Köln, *09.03.1948."
1003,2022-11-20,delete,
`

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	register, err := corporate.NewCorporate(dbConfig, model.NewParserConfig(), model.NewMatcherConfig())
	if err != nil {
		log.Fatalf("Failed to create corporate: %v", err)
	}
	defer register.Close()

	// Load the crawler export
	fmt.Println("Importing raw events...")
	imported, err := register.ImportRawEventsCSV(strings.NewReader(sampleExport), nil)
	if err != nil {
		log.Fatalf("Failed to import raw events: %v", err)
	}
	fmt.Printf("Imported %d raw events\n\n", imported)

	// Replay the filings into companies, persons and roles
	fmt.Println("Running extraction...")
	report, err := register.RunExtraction(context.Background(), corporate.ExtractionOptions{Workers: 2})
	if err != nil {
		log.Fatalf("Failed to run extraction: %v", err)
	}
	fmt.Printf("Replayed %d companies (%d events, %d unmatched preambles)\n\n",
		report.Companies, report.Stats.Events, report.Stats.UnmatchedPreambles)

	for _, id := range []int64{1001, 1002, 1003} {
		company, err := register.Companies.SelectCompany(id)
		if err != nil {
			log.Fatalf("Failed to select company %d: %v", id, err)
		}
		fmt.Printf("%d %q (%s) active=%v\n", company.ID, company.Name, company.Address, company.Active)

		events, err := register.Events.SelectTypedEventsByCompany(id)
		if err != nil {
			log.Fatalf("Failed to select events of company %d: %v", id, err)
		}
		for _, event := range events {
			fmt.Printf("  %s %s\n", event.Date, event.Type)
		}
	}

	// Collapse the spelling variants of the shared manager
	fmt.Println("\nRunning identity resolution...")
	result, err := register.RunDeduplication(context.Background())
	if err != nil {
		log.Fatalf("Failed to run deduplication: %v", err)
	}
	fmt.Printf("Merged %d persons in %d clusters\n", result.PersonsMerged, result.Clusters)

	roles, err := register.Roles.SelectRolesByCompany(1002)
	if err != nil {
		log.Fatalf("Failed to select roles: %v", err)
	}
	for _, role := range roles {
		person, err := register.Persons.SelectPerson(role.Person.ID)
		if err != nil {
			log.Fatalf("Failed to select person: %v", err)
		}
		fmt.Printf("Beta GmbH %s: %s %s (canonical person %d)\n",
			role.Role, person.FirstName, person.LastName, person.ID)
	}
}
