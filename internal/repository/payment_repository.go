package repository

import (
	"context"
	"database/sql"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// PaymentRepo records money movement against reservations.
type PaymentRepo struct{ db *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, reservation_id, amount, payment_method, payment_time, status, active, created_date, updated_date`

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.ReservationID, &p.Amount, &p.PaymentMethod,
		&p.PaymentTime, &p.Status, &p.Active, &p.CreatedDate, &p.UpdatedDate)
	return p, err
}

// Create inserts a payment row and returns its ID.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (reservation_id, amount, payment_method, status) VALUES (?,?,?,?)`,
		p.ReservationID, p.Amount, p.PaymentMethod, p.Status)
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

// GetByID fetches an active payment.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ? AND active = 1`, id))
	return p, translate(err)
}

// ListByReservation returns a reservation's payments in insert order.
func (r *PaymentRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE reservation_id = ? AND active = 1 ORDER BY id`,
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateStatus moves a payment to paid/failed/refunded.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = ? WHERE id = ? AND active = 1`, status, id)
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
