package repository

import (
	"context"
	"database/sql"

	"github.com/studiostorm/server/internal/models"
)

// OrganizationRepository handles partner organization persistence
type OrganizationRepository struct {
	db *sql.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// GetAll retrieves every organization
func (r *OrganizationRepository) GetAll(ctx context.Context) ([]*models.Organization, error) {
	query := `SELECT id, name, website, description FROM organizations ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := []*models.Organization{}
	for rows.Next() {
		var org models.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Website, &org.Description); err != nil {
			return nil, err
		}
		orgs = append(orgs, &org)
	}
	return orgs, rows.Err()
}
