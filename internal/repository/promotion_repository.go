package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// PromotionRepo provides CRUD over promotions and their usage records.
type PromotionRepo struct{ db *sql.DB }

func NewPromotionRepo(db *sql.DB) *PromotionRepo { return &PromotionRepo{db: db} }

const promotionColumns = `id, code, description, discount_type, discount_value, start_date, end_date, min_amount, usage_limit, active, created_date, updated_date`

func scanPromotion(row interface{ Scan(...any) error }) (model.Promotion, error) {
	var p model.Promotion
	err := row.Scan(&p.ID, &p.Code, &p.Description, &p.DiscountType, &p.DiscountValue,
		&p.StartDate, &p.EndDate, &p.MinAmount, &p.UsageLimit,
		&p.Active, &p.CreatedDate, &p.UpdatedDate)
	return p, err
}

// Create inserts a promotion; a duplicate code returns ErrConflict.
func (r *PromotionRepo) Create(ctx context.Context, p *model.Promotion) (uint64, error) {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO promotions (code, description, discount_type, discount_value, start_date, end_date, min_amount, usage_limit)
		 VALUES (?,?,?,?,?,?,?,?)`,
		p.Code, p.Description, p.DiscountType, p.DiscountValue,
		p.StartDate, p.EndDate, p.MinAmount, p.UsageLimit)
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

// GetByCode fetches an active promotion by its normalized code.
func (r *PromotionRepo) GetByCode(ctx context.Context, code string) (model.Promotion, error) {
	p, err := scanPromotion(r.db.QueryRowContext(ctx,
		`SELECT `+promotionColumns+` FROM promotions WHERE code = ? AND active = 1`,
		strings.ToUpper(strings.TrimSpace(code))))
	return p, translate(err)
}

// GetByID fetches an active promotion.
func (r *PromotionRepo) GetByID(ctx context.Context, id uint64) (model.Promotion, error) {
	p, err := scanPromotion(r.db.QueryRowContext(ctx,
		`SELECT `+promotionColumns+` FROM promotions WHERE id = ? AND active = 1`, id))
	return p, translate(err)
}

// ListActive returns promotions whose validity window covers now.
func (r *PromotionRepo) ListActive(ctx context.Context) ([]model.Promotion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+promotionColumns+` FROM promotions
		 WHERE active = 1 AND start_date <= NOW() AND end_date >= NOW() ORDER BY end_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountUsages returns how many times a promotion has been redeemed.
func (r *PromotionRepo) CountUsages(ctx context.Context, promotionID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM promotion_usages WHERE promotion_id = ? AND active = 1`,
		promotionID).Scan(&n)
	return n, err
}

// CountUsagesTx is CountUsages inside the booking transaction.
func (r *PromotionRepo) CountUsagesTx(ctx context.Context, tx *sql.Tx, promotionID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM promotion_usages WHERE promotion_id = ? AND active = 1`,
		promotionID).Scan(&n)
	return n, err
}

// RecordUsageTx writes a redemption row inside the booking transaction
// so a rolled-back booking never burns a use.
func (r *PromotionRepo) RecordUsageTx(ctx context.Context, tx *sql.Tx, u *model.PromotionUsage) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO promotion_usages (promotion_id, user_id, reservation_id) VALUES (?,?,?)`,
		u.PromotionID, u.UserID, u.ReservationID)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// Update rewrites a promotion's fields.
func (r *PromotionRepo) Update(ctx context.Context, p *model.Promotion) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE promotions SET description = ?, discount_type = ?, discount_value = ?,
		 start_date = ?, end_date = ?, min_amount = ?, usage_limit = ? WHERE id = ? AND active = 1`,
		p.Description, p.DiscountType, p.DiscountValue, p.StartDate, p.EndDate,
		p.MinAmount, p.UsageLimit, p.ID)
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

// Deactivate soft-deletes a promotion; usage history stays.
func (r *PromotionRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE promotions SET active = 0 WHERE id = ? AND active = 1`, id)
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
