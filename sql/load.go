package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed companies.sql
var companiesSQL string

//go:embed persons.sql
var personsSQL string

//go:embed corporate_roles.sql
var corporateRolesSQL string

//go:embed typed_events.sql
var typedEventsSQL string

//go:embed raw_events.sql
var rawEventsSQL string

// Function lists for verification
var CompaniesFunctions = []string{
	"init_companies",
	"upsert_company",
	"select_company",
	"select_companies",
	"select_company_count",
}

var PersonsFunctions = []string{
	"init_persons",
	"insert_person",
	"select_person",
	"select_persons_for_resolution",
	"select_exact_duplicate_persons",
	"clear_invalid_birth_dates",
	"merge_person_cluster",
}

var CorporateRolesFunctions = []string{
	"init_corporate_roles",
	"insert_corporate_role",
	"select_roles_by_company",
	"select_roles_by_person",
}

var TypedEventsFunctions = []string{
	"init_typed_events",
	"insert_typed_event",
	"select_typed_events_by_company",
}

var RawEventsFunctions = []string{
	"init_raw_events",
	"insert_raw_event",
	"select_raw_events_ordered",
	"select_raw_event_count",
}

// Init installs shared database infrastructure, currently the updated_at
// trigger function.
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database infrastructure initialized successfully")
	return nil
}

// LoadCompaniesSql loads company-related SQL functions
func LoadCompaniesSql(db *sql.DB, force bool) error {
	return loadFunctions(db, force, companiesSQL, CompaniesFunctions, "companies")
}

// LoadPersonsSql loads person-related SQL functions
func LoadPersonsSql(db *sql.DB, force bool) error {
	return loadFunctions(db, force, personsSQL, PersonsFunctions, "persons")
}

// LoadCorporateRolesSql loads role-assignment SQL functions
func LoadCorporateRolesSql(db *sql.DB, force bool) error {
	return loadFunctions(db, force, corporateRolesSQL, CorporateRolesFunctions, "corporate roles")
}

// LoadTypedEventsSql loads typed-event SQL functions
func LoadTypedEventsSql(db *sql.DB, force bool) error {
	return loadFunctions(db, force, typedEventsSQL, TypedEventsFunctions, "typed events")
}

// LoadRawEventsSql loads raw-event SQL functions
func LoadRawEventsSql(db *sql.DB, force bool) error {
	return loadFunctions(db, force, rawEventsSQL, RawEventsFunctions, "raw events")
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadCompaniesSql(db, force); err != nil {
		return err
	}

	if err := LoadPersonsSql(db, force); err != nil {
		return err
	}

	if err := LoadCorporateRolesSql(db, force); err != nil {
		return err
	}

	if err := LoadTypedEventsSql(db, force); err != nil {
		return err
	}

	if err := LoadRawEventsSql(db, force); err != nil {
		return err
	}

	return nil
}

func loadFunctions(db *sql.DB, force bool, script string, sqlFunctions []string, name string) error {
	if !force {
		exist, err := checkFunctions(db, sqlFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(script)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, sqlFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
