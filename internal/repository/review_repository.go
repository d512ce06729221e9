package repository

import (
	"context"
	"database/sql"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// ReviewRepo stores user ratings for companies and schedules.
type ReviewRepo struct{ db *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewColumns = `id, user_id, company_id, schedule_id, rating, comment, active, created_date, updated_date`

func scanReview(row interface{ Scan(...any) error }) (model.Review, error) {
	var v model.Review
	err := row.Scan(&v.ID, &v.UserID, &v.CompanyID, &v.ScheduleID, &v.Rating,
		&v.Comment, &v.Active, &v.CreatedDate, &v.UpdatedDate)
	return v, err
}

// Create inserts a review and returns its ID.
func (r *ReviewRepo) Create(ctx context.Context, v *model.Review) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (user_id, company_id, schedule_id, rating, comment) VALUES (?,?,?,?,?)`,
		v.UserID, v.CompanyID, v.ScheduleID, v.Rating, v.Comment)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	v.ID = uint64(id)
	return v.ID, nil
}

// ListByCompany returns a company's active reviews, newest first.
func (r *ReviewRepo) ListByCompany(ctx context.Context, companyID uint64) ([]model.Review, error) {
	return r.list(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE company_id = ? AND active = 1 ORDER BY id DESC`,
		companyID)
}

// ListBySchedule returns a schedule's active reviews, newest first.
func (r *ReviewRepo) ListBySchedule(ctx context.Context, scheduleID uint64) ([]model.Review, error) {
	return r.list(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE schedule_id = ? AND active = 1 ORDER BY id DESC`,
		scheduleID)
}

func (r *ReviewRepo) list(ctx context.Context, q string, args ...any) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Review
	for rows.Next() {
		v, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Deactivate hides a review without deleting it.
func (r *ReviewRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET active = 0 WHERE id = ? AND active = 1`, id)
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
