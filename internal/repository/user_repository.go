package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/utils"
)

// UserRepo provides CRUD over the users table. Passwords are hashed
// here, on every write path that touches them, so no caller can slip a
// plaintext value into password_hash.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// DB exposes the underlying handle for handlers that open transactions.
func (r *UserRepo) DB() *sql.DB { return r.db }

const userColumns = `id, username, email, phone, password_hash, first_name, last_name,
       avatar, gender, role, active, created_date, updated_date`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.Avatar, &u.Gender, &u.Role,
		&u.Active, &u.CreatedDate, &u.UpdatedDate)
	return u, err
}

// Create inserts a new user with a bcrypt hash of the given password
// and returns the generated ID. Username and email are normalized
// before insert. Duplicate username/email/phone comes back as
// ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) (uint64, error) {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, phone, password_hash, first_name, last_name, avatar, gender, role)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		u.Username, u.Email, u.Phone, hash, u.FirstName, u.LastName, u.Avatar, u.Gender, u.Role)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	u.PasswordHash = hash
	return u.ID, nil
}

// GetByID fetches an active user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? AND active = 1`, id))
	return u, translate(err)
}

// GetByUsername fetches an active user by exact username. Used by
// login; callers must not leak whether the user or the password was
// wrong.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? AND active = 1`,
		strings.TrimSpace(username)))
	return u, translate(err)
}

// ListActive returns one page of active users ordered by newest first,
// plus the total count for pagination metadata.
func (r *UserRepo) ListActive(ctx context.Context, page, pageSize int) ([]model.User, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE active = 1`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE active = 1 ORDER BY id DESC LIMIT ? OFFSET ?`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// UpdateProfile applies a partial update to the caller's own profile
// fields. Nil pointers leave the column untouched.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, firstName, lastName, phone, gender, avatar *string) error {
	set := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if firstName != nil {
		set = append(set, "first_name = ?")
		args = append(args, *firstName)
	}
	if lastName != nil {
		set = append(set, "last_name = ?")
		args = append(args, *lastName)
	}
	if phone != nil {
		set = append(set, "phone = ?")
		args = append(args, *phone)
	}
	if gender != nil {
		set = append(set, "gender = ?")
		args = append(args, *gender)
	}
	if avatar != nil {
		set = append(set, "avatar = ?")
		args = append(args, *avatar)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(set, ", ")+` WHERE id = ? AND active = 1`, args...)
	if err != nil {
		return translate(err)
	}
	// clientFoundRows in the DSN makes this count matched rows, so a
	// resubmission of unchanged values does not read as a missing user.
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored hash with a bcrypt hash of the new
// password.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, newPassword string, cost int) error {
	hash, err := utils.HashPassword(newPassword, cost)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND active = 1`, hash, id)
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

// Deactivate soft-deletes the account. The row stays for referential
// history; current queries stop returning it.
func (r *UserRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET active = 0 WHERE id = ? AND active = 1`, id)
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
