package repository

import (
	"context"
	"database/sql"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// ScheduleRepo provides CRUD over schedules.
type ScheduleRepo struct{ db *sql.DB }

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the underlying handle so the reservation handler can run
// the whole booking flow in one transaction.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

const scheduleColumns = `id, bus_id, route_id, departure_time, arrival_time, price, status, active, created_date, updated_date`

func scanSchedule(row interface{ Scan(...any) error }) (model.Schedule, error) {
	var s model.Schedule
	err := row.Scan(&s.ID, &s.BusID, &s.RouteID, &s.DepartureTime, &s.ArrivalTime,
		&s.Price, &s.Status, &s.Active, &s.CreatedDate, &s.UpdatedDate)
	return s, err
}

// Create inserts a schedule and returns its ID. A vanished bus or route
// surfaces as ErrNotFound via the FK check.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.Schedule) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO schedules (bus_id, route_id, departure_time, arrival_time, price, status) VALUES (?,?,?,?,?,?)`,
		s.BusID, s.RouteID, s.DepartureTime, s.ArrivalTime, s.Price, s.Status)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = uint64(id)
	return s.ID, nil
}

// CreateTx is Create inside an existing transaction, so the schedule
// row commits or rolls back together with its generated seats.
func (r *ScheduleRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Schedule) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO schedules (bus_id, route_id, departure_time, arrival_time, price, status) VALUES (?,?,?,?,?,?)`,
		s.BusID, s.RouteID, s.DepartureTime, s.ArrivalTime, s.Price, s.Status)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = uint64(id)
	return s.ID, nil
}

// GetByID fetches an active schedule.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (model.Schedule, error) {
	s, err := scanSchedule(r.db.QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE id = ? AND active = 1`, id))
	return s, translate(err)
}

// GetByIDTx is GetByID inside an existing transaction. The booking flow
// uses it so the schedule it prices against cannot change under it.
func (r *ScheduleRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Schedule, error) {
	s, err := scanSchedule(tx.QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE id = ? AND active = 1`, id))
	return s, translate(err)
}

// ListUpcoming returns active schedules departing from now on, earliest
// first. Optional route and bus filters narrow the listing.
func (r *ScheduleRepo) ListUpcoming(ctx context.Context, routeID, busID uint64) ([]model.Schedule, error) {
	q := `SELECT ` + scheduleColumns + ` FROM schedules WHERE active = 1 AND departure_time >= NOW()`
	args := []any{}
	if routeID != 0 {
		q += ` AND route_id = ?`
		args = append(args, routeID)
	}
	if busID != 0 {
		q += ` AND bus_id = ?`
		args = append(args, busID)
	}
	q += ` ORDER BY departure_time`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStatus moves a schedule through its lifecycle
// (scheduled/delayed/cancelled/completed).
func (r *ScheduleRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedules SET status = ? WHERE id = ? AND active = 1`, status, id)
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

// Update rewrites times, price and status.
func (r *ScheduleRepo) Update(ctx context.Context, s *model.Schedule) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedules SET departure_time = ?, arrival_time = ?, price = ?, status = ?
		 WHERE id = ? AND active = 1`,
		s.DepartureTime, s.ArrivalTime, s.Price, s.Status, s.ID)
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

// Delete removes the schedule and, by cascade, its seats. Blocked with
// ErrRestricted while reservations reference it.
func (r *ScheduleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
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
