package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

func buildScheduleHandler(t *testing.T) (*ScheduleHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewScheduleHandler(
		repository.NewScheduleRepo(db),
		repository.NewBusRepo(db),
		repository.NewRouteRepo(db),
		repository.NewSeatRepo(db),
	), mock
}

func activeBusRow(id uint64, capacity uint16) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "company_id", "license_plate", "capacity", "status", "image",
		"active", "created_date", "updated_date",
	}).AddRow(id, 1, "29A-12345", capacity, model.BusActive, nil, true, sampleTime(), sampleTime())
}

func routeRow(id uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "start_location", "end_location", "distance_km", "estimated_time_minutes",
		"active", "created_date", "updated_date",
	}).AddRow(id, "Hanoi", "Da Nang", 760.0, 900, true, sampleTime(), sampleTime())
}

func scheduleBody(busID, routeID uint64) string {
	dep := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	arr := dep.Add(15 * time.Hour)
	return fmt.Sprintf(`{"bus_id":%d,"route_id":%d,"departure_time":%q,"arrival_time":%q,"price":350}`,
		busID, routeID, dep.Format(time.RFC3339), arr.Format(time.RFC3339))
}

func TestScheduleCreateGeneratesSeatsInOneTransaction(t *testing.T) {
	h, mock := buildScheduleHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM buses WHERE id = \\? AND active = 1").
		WithArgs(2).
		WillReturnRows(activeBusRow(2, 3))
	mock.ExpectQuery("SELECT (.+) FROM routes WHERE id = \\? AND active = 1").
		WithArgs(3).
		WillReturnRows(routeRow(3))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(2, 3, sqlmock.AnyArg(), sqlmock.AnyArg(), 350.0, model.ScheduleScheduled).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO seats").
		WithArgs(5, 1, 5, 2, 5, 3).
		WillReturnResult(sqlmock.NewResult(1, 3))
	mock.ExpectCommit()

	c, rec := newTestCtx(t, http.MethodPost, "/v1/schedules", scheduleBody(2, 3), 1, model.RoleAdmin)
	if err := h.Create(c); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":5`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestScheduleCreateRollsBackWhenSeatGenerationFails(t *testing.T) {
	h, mock := buildScheduleHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM buses WHERE id = \\? AND active = 1").
		WithArgs(2).
		WillReturnRows(activeBusRow(2, 3))
	mock.ExpectQuery("SELECT (.+) FROM routes WHERE id = \\? AND active = 1").
		WithArgs(3).
		WillReturnRows(routeRow(3))

	// Seat insert blows up after the schedule row went in; the whole
	// transaction rolls back and no orphan schedule survives.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(2, 3, sqlmock.AnyArg(), sqlmock.AnyArg(), 350.0, model.ScheduleScheduled).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO seats").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	c, rec := newTestCtx(t, http.MethodPost, "/v1/schedules", scheduleBody(2, 3), 1, model.RoleAdmin)
	if err := h.Create(c); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("transaction not rolled back: %v", err)
	}
}
