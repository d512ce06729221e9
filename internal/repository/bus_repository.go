package repository

import (
	"context"
	"database/sql"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// BusRepo provides CRUD over buses. The license plate is unique across
// the whole fleet; inserts and updates that collide return ErrConflict.
type BusRepo struct{ db *sql.DB }

func NewBusRepo(db *sql.DB) *BusRepo { return &BusRepo{db: db} }

const busColumns = `id, company_id, license_plate, capacity, status, image, active, created_date, updated_date`

func scanBus(row interface{ Scan(...any) error }) (model.Bus, error) {
	var b model.Bus
	err := row.Scan(&b.ID, &b.CompanyID, &b.LicensePlate, &b.Capacity,
		&b.Status, &b.Image, &b.Active, &b.CreatedDate, &b.UpdatedDate)
	return b, err
}

// Create inserts a bus and returns its ID.
func (r *BusRepo) Create(ctx context.Context, b *model.Bus) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO buses (company_id, license_plate, capacity, status, image) VALUES (?,?,?,?,?)`,
		b.CompanyID, b.LicensePlate, b.Capacity, b.Status, b.Image)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	b.ID = uint64(id)
	return b.ID, nil
}

// GetByID fetches an active bus.
func (r *BusRepo) GetByID(ctx context.Context, id uint64) (model.Bus, error) {
	b, err := scanBus(r.db.QueryRowContext(ctx,
		`SELECT `+busColumns+` FROM buses WHERE id = ? AND active = 1`, id))
	return b, translate(err)
}

// ListByCompany returns the active buses of one company.
func (r *BusRepo) ListByCompany(ctx context.Context, companyID uint64) ([]model.Bus, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+busColumns+` FROM buses WHERE company_id = ? AND active = 1 ORDER BY id DESC`,
		companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Bus
	for rows.Next() {
		b, err := scanBus(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update rewrites plate, capacity, status and image.
func (r *BusRepo) Update(ctx context.Context, b *model.Bus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE buses SET license_plate = ?, capacity = ?, status = ?, image = ? WHERE id = ? AND active = 1`,
		b.LicensePlate, b.Capacity, b.Status, b.Image, b.ID)
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

// Delete removes the bus. Blocked with ErrRestricted while schedules
// still reference it.
func (r *BusRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM buses WHERE id = ?`, id)
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
