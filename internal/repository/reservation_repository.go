package repository

import (
	"context"
	"database/sql"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// ReservationRepo persists reservations and their per-seat details.
// The check-then-claim sequence of the booking flow runs through the
// *Tx methods inside a single transaction; the UNIQUE(seat_id)
// constraint on reservation_details is the backstop that turns a race
// both sides "won" in application code into exactly one committed
// winner.
type ReservationRepo struct{ db *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the handle for the booking transaction.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, user_id, schedule_id, booking_code, booking_date, total_amount, status, note, active, created_date, updated_date`
const detailColumns = `id, reservation_id, seat_id, passenger_name, passenger_phone, active, created_date, updated_date`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var v model.Reservation
	err := row.Scan(&v.ID, &v.UserID, &v.ScheduleID, &v.BookingCode, &v.BookingDate,
		&v.TotalAmount, &v.Status, &v.Note, &v.Active, &v.CreatedDate, &v.UpdatedDate)
	return v, err
}

func scanDetail(row interface{ Scan(...any) error }) (model.ReservationDetail, error) {
	var d model.ReservationDetail
	err := row.Scan(&d.ID, &d.ReservationID, &d.SeatID, &d.PassengerName,
		&d.PassengerPhone, &d.Active, &d.CreatedDate, &d.UpdatedDate)
	return d, err
}

// ClaimedSeatsTx returns which of the given seats already appear in any
// reservation_details row, regardless of the owning reservation's
// status. Seat claims are permanent by design.
func (r *ReservationRepo) ClaimedSeatsTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	q := `SELECT seat_id FROM reservation_details WHERE seat_id IN (` + placeholders(len(seatIDs)) + `)`
	args := make([]any, 0, len(seatIDs))
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CreateTx inserts the reservation row inside the booking transaction
// and populates the generated ID. A booking-code collision surfaces as
// ErrConflict so the caller can regenerate and retry.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, v *model.Reservation) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (user_id, schedule_id, booking_code, total_amount, status, note)
		 VALUES (?,?,?,?,?,?)`,
		v.UserID, v.ScheduleID, v.BookingCode, v.TotalAmount, v.Status, v.Note)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// CreateDetailsTx bulk-inserts one detail row per claimed seat. A
// duplicate-seat violation here is the storage layer rejecting a
// concurrent claim that slipped past ClaimedSeatsTx; it comes back as
// ErrConflict and the caller rolls the whole booking back.
func (r *ReservationRepo) CreateDetailsTx(ctx context.Context, tx *sql.Tx, details []model.ReservationDetail) error {
	if len(details) == 0 {
		return nil
	}
	q := `INSERT INTO reservation_details (reservation_id, seat_id, passenger_name, passenger_phone) VALUES `
	args := make([]any, 0, len(details)*4)
	for i, d := range details {
		if i > 0 {
			q += ","
		}
		q += "(?,?,?,?)"
		args = append(args, d.ReservationID, d.SeatID, d.PassengerName, d.PassengerPhone)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return translate(err)
}

// GetByID fetches an active reservation.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	v, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ? AND active = 1`, id))
	return v, translate(err)
}

// GetByIDTx is GetByID inside an existing transaction, locking the row
// so cancel/confirm cannot interleave.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	v, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ? AND active = 1 FOR UPDATE`, id))
	return v, translate(err)
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE user_id = ? AND active = 1 ORDER BY id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		v, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListDetails returns the detail rows of one reservation, including
// those of cancelled reservations (seat history is permanent).
func (r *ReservationRepo) ListDetails(ctx context.Context, reservationID uint64) ([]model.ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+detailColumns+` FROM reservation_details WHERE reservation_id = ? ORDER BY id`,
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ReservationDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SeatIDsTx returns the seats claimed by one reservation, inside a
// transaction. Cancel and confirm use it to flip derived seat status.
func (r *ReservationRepo) SeatIDsTx(ctx context.Context, tx *sql.Tx, reservationID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT seat_id FROM reservation_details WHERE reservation_id = ?`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// UpdateStatusTx moves a reservation through its lifecycle inside a
// transaction.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ? AND active = 1`, status, id)
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
