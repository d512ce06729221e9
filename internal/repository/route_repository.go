package repository

import (
	"context"
	"database/sql"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// RouteRepo provides CRUD over routes and their ordered stops.
type RouteRepo struct{ db *sql.DB }

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

const routeColumns = `id, start_location, end_location, distance_km, estimated_time_minutes, active, created_date, updated_date`
const stopColumns = `id, route_id, name, address, order_in_route, active, created_date, updated_date`

func scanRoute(row interface{ Scan(...any) error }) (model.Route, error) {
	var rt model.Route
	err := row.Scan(&rt.ID, &rt.StartLocation, &rt.EndLocation, &rt.DistanceKM,
		&rt.EstimatedTimeMinutes, &rt.Active, &rt.CreatedDate, &rt.UpdatedDate)
	return rt, err
}

func scanStop(row interface{ Scan(...any) error }) (model.Stop, error) {
	var s model.Stop
	err := row.Scan(&s.ID, &s.RouteID, &s.Name, &s.Address, &s.OrderInRoute,
		&s.Active, &s.CreatedDate, &s.UpdatedDate)
	return s, err
}

// Create inserts a route and returns its ID.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO routes (start_location, end_location, distance_km, estimated_time_minutes) VALUES (?,?,?,?)`,
		rt.StartLocation, rt.EndLocation, rt.DistanceKM, rt.EstimatedTimeMinutes)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	rt.ID = uint64(id)
	return rt.ID, nil
}

// GetByID fetches an active route.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (model.Route, error) {
	rt, err := scanRoute(r.db.QueryRowContext(ctx,
		`SELECT `+routeColumns+` FROM routes WHERE id = ? AND active = 1`, id))
	return rt, translate(err)
}

// ListActive returns all active routes.
func (r *RouteRepo) ListActive(ctx context.Context) ([]model.Route, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+routeColumns+` FROM routes WHERE active = 1 ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// Update rewrites a route's fields.
func (r *RouteRepo) Update(ctx context.Context, rt *model.Route) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE routes SET start_location = ?, end_location = ?, distance_km = ?, estimated_time_minutes = ?
		 WHERE id = ? AND active = 1`,
		rt.StartLocation, rt.EndLocation, rt.DistanceKM, rt.EstimatedTimeMinutes, rt.ID)
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

// Delete removes the route. Blocked with ErrRestricted while schedules
// reference it; stops survive with route_id nulled.
func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
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

// CreateStop inserts a stop on a route.
func (r *RouteRepo) CreateStop(ctx context.Context, s *model.Stop) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO stops (route_id, name, address, order_in_route) VALUES (?,?,?,?)`,
		s.RouteID, s.Name, s.Address, s.OrderInRoute)
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

// ListStops returns a route's active stops in travel order.
func (r *RouteRepo) ListStops(ctx context.Context, routeID uint64) ([]model.Stop, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+stopColumns+` FROM stops WHERE route_id = ? AND active = 1 ORDER BY order_in_route, id`,
		routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Stop
	for rows.Next() {
		s, err := scanStop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStop rewrites a stop's fields, including its position.
func (r *RouteRepo) UpdateStop(ctx context.Context, s *model.Stop) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stops SET name = ?, address = ?, order_in_route = ? WHERE id = ? AND active = 1`,
		s.Name, s.Address, s.OrderInRoute, s.ID)
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

// DeleteStop removes a stop.
func (r *RouteRepo) DeleteStop(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stops WHERE id = ?`, id)
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
