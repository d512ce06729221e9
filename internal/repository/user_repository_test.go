package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"

	"github.com/minhvt/bus-ticketing/internal/model"
)

// bcryptHashOf matches an argument that is a valid bcrypt hash of the
// given plaintext and is not the plaintext itself.
type bcryptHashOf struct{ plain string }

func (m bcryptHashOf) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok || s == m.plain {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s), []byte(m.plain)) == nil
}

func TestUserCreateStoresBcryptHashNotPlaintext(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", "alice@example.com", nil, bcryptHashOf{plain: "s3cret"},
			"Alice", "Nguyen", nil, nil, model.RolePassenger).
		WillReturnResult(sqlmock.NewResult(7, 1))

	repo := NewUserRepo(db)
	u := model.User{
		Username: " alice ", Email: "Alice@Example.com",
		FirstName: "Alice", LastName: "Nguyen", Role: model.RolePassenger,
	}
	id, err := repo.Create(context.Background(), &u, "s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if id != 7 || u.ID != 7 {
		t.Fatalf("generated id not propagated, got %d", id)
	}
	if u.Username != "alice" || u.Email != "alice@example.com" {
		t.Fatalf("username/email not normalized: %q %q", u.Username, u.Email)
	}
	if u.PasswordHash == "s3cret" || u.PasswordHash == "" {
		t.Fatal("plaintext leaked into PasswordHash")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserCreateDuplicateBecomesConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	repo := NewUserRepo(db)
	u := model.User{Username: "bob", Email: "bob@example.com"}
	if _, err := repo.Create(context.Background(), &u, "pw", bcrypt.MinCost); !errors.Is(err, ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestUserGetByUsernameNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewUserRepo(db)
	if _, err := repo.GetByUsername(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUserListActivePaginates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE active = 1 ORDER BY id DESC LIMIT").
		WithArgs(10, 10).
		WillReturnRows(userRows().AddRow(
			12, "carol", "carol@example.com", nil, "$2a$10$hash", "Carol", "Le",
			nil, nil, int8(model.RolePassenger), true, sampleTime(), sampleTime()))

	repo := NewUserRepo(db)
	users, total, err := repo.ListActive(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if total != 42 {
		t.Fatalf("total = %d, want 42", total)
	}
	if len(users) != 1 || users[0].Username != "carol" {
		t.Fatalf("unexpected page contents: %+v", users)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
