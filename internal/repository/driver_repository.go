package repository

import (
	"context"
	"database/sql"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// DriverRepo provides CRUD over drivers and their schedule assignments.
type DriverRepo struct{ db *sql.DB }

func NewDriverRepo(db *sql.DB) *DriverRepo { return &DriverRepo{db: db} }

const driverColumns = `id, company_id, full_name, phone, license_number, active, created_date, updated_date`
const assignmentColumns = `id, driver_id, schedule_id, role, active, created_date, updated_date`

func scanDriver(row interface{ Scan(...any) error }) (model.Driver, error) {
	var d model.Driver
	err := row.Scan(&d.ID, &d.CompanyID, &d.FullName, &d.Phone, &d.LicenseNumber,
		&d.Active, &d.CreatedDate, &d.UpdatedDate)
	return d, err
}

func scanAssignment(row interface{ Scan(...any) error }) (model.DriverAssignment, error) {
	var a model.DriverAssignment
	err := row.Scan(&a.ID, &a.DriverID, &a.ScheduleID, &a.Role,
		&a.Active, &a.CreatedDate, &a.UpdatedDate)
	return a, err
}

// Create inserts a driver under a company.
func (r *DriverRepo) Create(ctx context.Context, d *model.Driver) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO drivers (company_id, full_name, phone, license_number) VALUES (?,?,?,?)`,
		d.CompanyID, d.FullName, d.Phone, d.LicenseNumber)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	d.ID = uint64(id)
	return d.ID, nil
}

// GetByID fetches an active driver.
func (r *DriverRepo) GetByID(ctx context.Context, id uint64) (model.Driver, error) {
	d, err := scanDriver(r.db.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE id = ? AND active = 1`, id))
	return d, translate(err)
}

// ListByCompany returns a company's active drivers.
func (r *DriverRepo) ListByCompany(ctx context.Context, companyID uint64) ([]model.Driver, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE company_id = ? AND active = 1 ORDER BY full_name`,
		companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update rewrites a driver's fields.
func (r *DriverRepo) Update(ctx context.Context, d *model.Driver) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE drivers SET full_name = ?, phone = ?, license_number = ? WHERE id = ? AND active = 1`,
		d.FullName, d.Phone, d.LicenseNumber, d.ID)
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

// Deactivate soft-deletes a driver.
func (r *DriverRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE drivers SET active = 0 WHERE id = ? AND active = 1`, id)
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

// Assign puts a driver on a schedule. A second assignment of the same
// driver to the same schedule returns ErrConflict.
func (r *DriverRepo) Assign(ctx context.Context, a *model.DriverAssignment) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO driver_assignments (driver_id, schedule_id, role) VALUES (?,?,?)`,
		a.DriverID, a.ScheduleID, a.Role)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	a.ID = uint64(id)
	return a.ID, nil
}

// ListAssignmentsBySchedule returns who is working one departure.
func (r *DriverRepo) ListAssignmentsBySchedule(ctx context.Context, scheduleID uint64) ([]model.DriverAssignment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+assignmentColumns+` FROM driver_assignments WHERE schedule_id = ? AND active = 1 ORDER BY id`,
		scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.DriverAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Unassign removes an assignment.
func (r *DriverRepo) Unassign(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM driver_assignments WHERE id = ?`, id)
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
