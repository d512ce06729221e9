package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// SeatRepo provides seat generation and status management. Seat rows
// are created in bulk per schedule; the (schedule_id, seat_number)
// uniqueness lives in the table definition.
type SeatRepo struct{ db *sql.DB }

func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

const seatColumns = `id, schedule_id, seat_number, status, active, created_date, updated_date`

func scanSeat(row interface{ Scan(...any) error }) (model.Seat, error) {
	var s model.Seat
	err := row.Scan(&s.ID, &s.ScheduleID, &s.SeatNumber, &s.Status,
		&s.Active, &s.CreatedDate, &s.UpdatedDate)
	return s, err
}

// GenerateForSchedule bulk-inserts seats numbered 1..count for a
// schedule. Re-running it for a schedule that already has any of the
// numbers returns ErrConflict and inserts nothing.
func (r *SeatRepo) GenerateForSchedule(ctx context.Context, scheduleID uint64, count uint16) error {
	if count == 0 {
		return nil
	}
	q, args := seatInsert(scheduleID, count)
	_, err := r.db.ExecContext(ctx, q, args...)
	return translate(err)
}

// GenerateForScheduleTx is GenerateForSchedule inside an existing
// transaction. Schedule creation uses it so a failed seat insert takes
// the schedule row down with it.
func (r *SeatRepo) GenerateForScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, count uint16) error {
	if count == 0 {
		return nil
	}
	q, args := seatInsert(scheduleID, count)
	_, err := tx.ExecContext(ctx, q, args...)
	return translate(err)
}

func seatInsert(scheduleID uint64, count uint16) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO seats (schedule_id, seat_number) VALUES `)
	args := make([]any, 0, int(count)*2)
	for n := uint16(1); n <= count; n++ {
		if n > 1 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?)")
		args = append(args, scheduleID, n)
	}
	return sb.String(), args
}

// ListBySchedule returns the seats of a schedule in seat-number order.
func (r *SeatRepo) ListBySchedule(ctx context.Context, scheduleID uint64) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+seatColumns+` FROM seats WHERE schedule_id = ? AND active = 1 ORDER BY seat_number`,
		scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID fetches an active seat.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (model.Seat, error) {
	s, err := scanSeat(r.db.QueryRowContext(ctx,
		`SELECT `+seatColumns+` FROM seats WHERE id = ? AND active = 1`, id))
	return s, translate(err)
}

// LockByIDsTx loads the requested seats of one schedule FOR UPDATE
// inside the booking transaction. Seats missing from the result are
// either nonexistent, inactive or belong to another schedule; the
// caller compares counts and rejects the request.
func (r *SeatRepo) LockByIDsTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, seatIDs []uint64) ([]model.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	q := `SELECT ` + seatColumns + ` FROM seats WHERE schedule_id = ? AND active = 1 AND id IN (` +
		placeholders(len(seatIDs)) + `) FOR UPDATE`
	args := make([]any, 0, len(seatIDs)+1)
	args = append(args, scheduleID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStatusTx flips the status of a set of seats inside a
// transaction. The booking flow moves seats available->reserved,
// confirmation reserved->sold, cancellation back to available.
func (r *SeatRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64, status string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	q := `UPDATE seats SET status = ? WHERE id IN (` + placeholders(len(seatIDs)) + `)`
	args := make([]any, 0, len(seatIDs)+1)
	args = append(args, status)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return translate(err)
}

// placeholders returns "?,?,...,?" with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
