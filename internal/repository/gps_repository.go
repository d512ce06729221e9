package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// GPSRepo stores the append-only position history of buses.
type GPSRepo struct{ db *sql.DB }

func NewGPSRepo(db *sql.DB) *GPSRepo { return &GPSRepo{db: db} }

const gpsColumns = `id, bus_id, latitude, longitude, recorded_at, active, created_date, updated_date`

func scanGPSPoint(row interface{ Scan(...any) error }) (model.GPSPoint, error) {
	var p model.GPSPoint
	err := row.Scan(&p.ID, &p.BusID, &p.Latitude, &p.Longitude, &p.RecordedAt,
		&p.Active, &p.CreatedDate, &p.UpdatedDate)
	return p, err
}

// Append records one position sample for a bus.
func (r *GPSRepo) Append(ctx context.Context, p *model.GPSPoint) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO gps_points (bus_id, latitude, longitude) VALUES (?,?,?)`,
		p.BusID, p.Latitude, p.Longitude)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	p.ID = uint64(id)
	return p.ID, nil
}

// ListByBus returns a bus's points newest first, optionally only those
// after `since`, capped at `limit` rows.
func (r *GPSRepo) ListByBus(ctx context.Context, busID uint64, since time.Time, limit int) ([]model.GPSPoint, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	q := `SELECT ` + gpsColumns + ` FROM gps_points WHERE bus_id = ? AND active = 1`
	args := []any{busID}
	if !since.IsZero() {
		q += ` AND recorded_at >= ?`
		args = append(args, since)
	}
	q += ` ORDER BY recorded_at DESC LIMIT ?`
	args = append(args, limit)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.GPSPoint
	for rows.Next() {
		p, err := scanGPSPoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Latest returns the most recent point of a bus, ErrNotFound when the
// bus has never reported.
func (r *GPSRepo) Latest(ctx context.Context, busID uint64) (model.GPSPoint, error) {
	p, err := scanGPSPoint(r.db.QueryRowContext(ctx,
		`SELECT `+gpsColumns+` FROM gps_points WHERE bus_id = ? AND active = 1 ORDER BY recorded_at DESC, id DESC LIMIT 1`,
		busID))
	return p, translate(err)
}
