package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/konradh/hpi-ii-project-2022/helper"
	"github.com/konradh/hpi-ii-project-2022/model"
	"github.com/konradh/hpi-ii-project-2022/sql"
)

// CompaniesDBHandlerFunctions defines the interface for company database operations.
type CompaniesDBHandlerFunctions interface {
	UpsertCompany(company *model.Company) error
	SelectCompany(id int64) (*model.Company, error)
	SelectAllCompanies() ([]*model.Company, error)
	SelectCompanyCount() (int64, error)
}

// CompaniesDBHandler handles company-related database operations
type CompaniesDBHandler struct {
	db *helper.Database
}

// NewCompaniesDBHandler creates a new companies database handler.
// It loads the company SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewCompaniesDBHandler(db *helper.Database, force bool) (*CompaniesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	companiesDbHandler := &CompaniesDBHandler{
		db: db,
	}

	err := sql.LoadCompaniesSql(companiesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load companies sql", err)
	}

	err = companiesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized CompaniesDBHandler")

	return companiesDbHandler, nil
}

// CreateTable creates the 'companies' table if it does not exist yet,
// including its indexes and triggers.
func (h *CompaniesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_companies();`)
	if err != nil {
		log.Panicf("error initializing companies table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table companies")

	return nil
}

// UpsertCompany writes the company snapshot, replacing an earlier snapshot
// of the same register id.
func (h *CompaniesDBHandler) UpsertCompany(company *model.Company) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM upsert_company($1, $2, $3, $4, $5, $6, $7, $8)`,
		company.ID,
		nullIfEmpty(company.Name),
		nullIfEmpty(company.LegalForm),
		nullIfEmpty(company.Address),
		nullIfEmpty(company.Purpose),
		company.Capital,
		company.Currency,
		company.Active,
	)

	var name, legalForm, address, purpose *string
	err := row.Scan(
		&company.ID,
		&name,
		&legalForm,
		&address,
		&purpose,
		&company.Capital,
		&company.Currency,
		&company.Active,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectCompany retrieves a company snapshot by register id
func (h *CompaniesDBHandler) SelectCompany(id int64) (*model.Company, error) {
	company := &model.Company{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_company($1)`,
		id,
	)

	var name, legalForm, address, purpose *string
	err := row.Scan(
		&company.ID,
		&name,
		&legalForm,
		&address,
		&purpose,
		&company.Capital,
		&company.Currency,
		&company.Active,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}
	company.Name = stringOrEmpty(name)
	company.LegalForm = stringOrEmpty(legalForm)
	company.Address = stringOrEmpty(address)
	company.Purpose = stringOrEmpty(purpose)

	return company, nil
}

// SelectAllCompanies retrieves every company snapshot ordered by register id
func (h *CompaniesDBHandler) SelectAllCompanies() ([]*model.Company, error) {
	rows, err := h.db.Instance.Query(`SELECT * FROM select_companies()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var companies []*model.Company
	for rows.Next() {
		company := &model.Company{}
		var name, legalForm, address, purpose *string
		err := rows.Scan(
			&company.ID,
			&name,
			&legalForm,
			&address,
			&purpose,
			&company.Capital,
			&company.Currency,
			&company.Active,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		company.Name = stringOrEmpty(name)
		company.LegalForm = stringOrEmpty(legalForm)
		company.Address = stringOrEmpty(address)
		company.Purpose = stringOrEmpty(purpose)
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return companies, nil
}

// SelectCompanyCount returns the number of stored companies
func (h *CompaniesDBHandler) SelectCompanyCount() (int64, error) {
	var count int64
	err := h.db.Instance.QueryRow(`SELECT * FROM select_company_count()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
