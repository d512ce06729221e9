package repository

import (
	"context"
	"database/sql"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// CompanyRepo provides CRUD over bus operators.
type CompanyRepo struct{ db *sql.DB }

func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{db: db} }

const companyColumns = `id, name, address, phone, email, description, image, active, created_date, updated_date`

func scanCompany(row interface{ Scan(...any) error }) (model.Company, error) {
	var c model.Company
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email,
		&c.Description, &c.Image, &c.Active, &c.CreatedDate, &c.UpdatedDate)
	return c, err
}

// Create inserts a company and returns its ID.
func (r *CompanyRepo) Create(ctx context.Context, c *model.Company) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO companies (name, address, phone, email, description, image) VALUES (?,?,?,?,?,?)`,
		c.Name, c.Address, c.Phone, c.Email, c.Description, c.Image)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = uint64(id)
	return c.ID, nil
}

// GetByID fetches an active company.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint64) (model.Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = ? AND active = 1`, id))
	return c, translate(err)
}

// ListActive returns all active companies, newest first.
func (r *CompanyRepo) ListActive(ctx context.Context) ([]model.Company, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE active = 1 ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a company.
func (r *CompanyRepo) Update(ctx context.Context, c *model.Company) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE companies SET name = ?, address = ?, phone = ?, email = ?, description = ?, image = ?
		 WHERE id = ? AND active = 1`,
		c.Name, c.Address, c.Phone, c.Email, c.Description, c.Image, c.ID)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a company. Physical deletion (which cascades
// to buses and drivers) is a separate, deliberate act.
func (r *CompanyRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE companies SET active = 0 WHERE id = ? AND active = 1`, id)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row. Buses and drivers go with it (CASCADE); the
// database blocks the delete if any of those buses still have schedules
// (RESTRICT), surfaced as ErrRestricted.
func (r *CompanyRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
