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

// CorporateRolesDBHandlerFunctions defines the interface for role assignment
// database operations.
type CorporateRolesDBHandlerFunctions interface {
	InsertCorporateRole(role *model.CorporateRole) error
	SelectRolesByCompany(companyID int64) ([]*model.CorporateRole, error)
	SelectRolesByPerson(personID int64) ([]*model.CorporateRole, error)
}

// CorporateRolesDBHandler handles role-assignment database operations
type CorporateRolesDBHandler struct {
	db *helper.Database
}

// NewCorporateRolesDBHandler creates a new role assignment database handler.
// The companies and persons tables must exist, the role table references both.
func NewCorporateRolesDBHandler(db *helper.Database, force bool) (*CorporateRolesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	rolesDbHandler := &CorporateRolesDBHandler{
		db: db,
	}

	err := sql.LoadCorporateRolesSql(rolesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load corporate roles sql", err)
	}

	err = rolesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized CorporateRolesDBHandler")

	return rolesDbHandler, nil
}

// CreateTable creates the 'corporate_roles' table if it does not exist yet.
func (h *CorporateRolesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_corporate_roles();`)
	if err != nil {
		log.Panicf("error initializing corporate_roles table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table corporate_roles")

	return nil
}

// InsertCorporateRole inserts a role assignment. The person must already be
// persisted so its id can be referenced.
func (h *CorporateRolesDBHandler) InsertCorporateRole(role *model.CorporateRole) error {
	if role.Person == nil || role.Person.ID == 0 {
		return helper.NewError("role validation", fmt.Errorf("role person is not persisted"))
	}

	var id, companyID, personID int64
	var roleKind string
	var active *bool
	var startDate, endDate *string
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_corporate_role($1, $2, $3, $4, $5, $6)`,
		role.CompanyID,
		role.Person.ID,
		string(role.Role),
		role.Active,
		nullIfEmpty(role.StartDate),
		nullIfEmpty(role.EndDate),
	)

	err := row.Scan(&id, &companyID, &personID, &roleKind, &active, &startDate, &endDate)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectRolesByCompany retrieves all role assignments of a company. The
// person field carries only the referenced id.
func (h *CorporateRolesDBHandler) SelectRolesByCompany(companyID int64) ([]*model.CorporateRole, error) {
	return h.selectRoles(`SELECT * FROM select_roles_by_company($1)`, companyID)
}

// SelectRolesByPerson retrieves all role assignments referencing a person.
func (h *CorporateRolesDBHandler) SelectRolesByPerson(personID int64) ([]*model.CorporateRole, error) {
	return h.selectRoles(`SELECT * FROM select_roles_by_person($1)`, personID)
}

func (h *CorporateRolesDBHandler) selectRoles(query string, arg int64) ([]*model.CorporateRole, error) {
	rows, err := h.db.Instance.Query(query, arg)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var roles []*model.CorporateRole
	for rows.Next() {
		var id, companyID, personID int64
		var roleKind string
		var active *bool
		var startDate, endDate *string
		err := rows.Scan(&id, &companyID, &personID, &roleKind, &active, &startDate, &endDate)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		roles = append(roles, &model.CorporateRole{
			CompanyID: companyID,
			Person:    &model.Person{ID: personID},
			Role:      model.RoleKind(roleKind),
			Active:    active,
			StartDate: stringOrEmpty(startDate),
			EndDate:   stringOrEmpty(endDate),
		})
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return roles, nil
}
