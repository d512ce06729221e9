package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

func buildAgentHandler(t *testing.T) (*AgentHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAgentHandler(
		repository.NewAgentRepo(db),
		repository.NewUserRepo(db),
		repository.NewCompanyRepo(db),
		repository.NewReservationRepo(db),
	), mock
}

func agentUserRow(id uint64, role model.Role) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "phone", "password_hash", "first_name", "last_name",
		"avatar", "gender", "role", "active", "created_date", "updated_date",
	}).AddRow(id, "agent42", "agent42@example.com", nil, "x", "An", "Tran",
		nil, nil, role, true, sampleTime(), sampleTime())
}

// One user, one agent profile. The second create must surface the
// unique key on agents.user_id as a 409.
func TestAgentCreateDuplicateProfileConflicts(t *testing.T) {
	h, mock := buildAgentHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\? AND active = 1").
		WithArgs(42).
		WillReturnRows(agentUserRow(42, model.RoleAgent))
	mock.ExpectExec("INSERT INTO agents").
		WithArgs(42, nil, "An Tran").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '42' for key 'uq_agents_user'"})

	c, rec := newTestCtx(t, http.MethodPost, "/v1/agents",
		`{"user_id":42,"name":"An Tran"}`, 1, model.RoleAdmin)
	if err := h.Create(c); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already has an agent profile") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAgentCreateRejectsNonAgentUser(t *testing.T) {
	h, mock := buildAgentHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\? AND active = 1").
		WithArgs(42).
		WillReturnRows(agentUserRow(42, model.RolePassenger))

	c, rec := newTestCtx(t, http.MethodPost, "/v1/agents",
		`{"user_id":42,"name":"An Tran"}`, 1, model.RoleAdmin)
	if err := h.Create(c); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db writes: %v", err)
	}
}
