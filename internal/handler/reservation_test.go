package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/queue"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

func buildReservationHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewReservationHandler(
		repository.NewReservationRepo(db),
		repository.NewScheduleRepo(db),
		repository.NewSeatRepo(db),
		repository.NewPromotionRepo(db),
		repository.NewUserRepo(db),
		repository.NewBusRepo(db),
		repository.NewRouteRepo(db),
	)
	h.Publish = nil // no broker in tests unless a test installs a stub
	return h, mock
}

func openSchedule(id uint64) *sqlmock.Rows {
	dep := time.Now().Add(48 * time.Hour)
	return scheduleRows().AddRow(id, 2, 3, dep, dep.Add(4*time.Hour),
		150.0, model.ScheduleScheduled, true, sampleTime(), sampleTime())
}

func TestCreateReservationSeatAlreadyClaimed(t *testing.T) {
	h, mock := buildReservationHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM schedules WHERE id").
		WithArgs(5).
		WillReturnRows(openSchedule(5))
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE schedule_id").
		WillReturnRows(seatRows().
			AddRow(11, 5, 1, model.SeatAvailable, true, sampleTime(), sampleTime()).
			AddRow(12, 5, 2, model.SeatAvailable, true, sampleTime(), sampleTime()))
	mock.ExpectQuery("SELECT seat_id FROM reservation_details WHERE seat_id IN").
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(12))
	mock.ExpectRollback()

	body := `{"schedule_id":5,"seat_ids":[11,12]}`
	c, rec := newTestCtx(t, http.MethodPost, "/v1/reservations", body, 7, model.RolePassenger)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "seat already taken") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("conflicting booking must roll back: %v", err)
	}
}

func TestCreateReservationRejectsDepartedSchedule(t *testing.T) {
	h, mock := buildReservationHandler(t)

	dep := time.Now().Add(-2 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM schedules WHERE id").
		WithArgs(5).
		WillReturnRows(scheduleRows().AddRow(5, 2, 3, dep, dep.Add(4*time.Hour),
			150.0, model.ScheduleScheduled, true, sampleTime(), sampleTime()))
	mock.ExpectRollback()

	body := `{"schedule_id":5,"seat_ids":[11]}`
	c, rec := newTestCtx(t, http.MethodPost, "/v1/reservations", body, 7, model.RolePassenger)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestCreateReservationRejectsForeignSeat(t *testing.T) {
	h, mock := buildReservationHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM schedules WHERE id").
		WithArgs(5).
		WillReturnRows(openSchedule(5))
	// only one of the two requested seats belongs to schedule 5
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE schedule_id").
		WillReturnRows(seatRows().
			AddRow(11, 5, 1, model.SeatAvailable, true, sampleTime(), sampleTime()))
	mock.ExpectRollback()

	body := `{"schedule_id":5,"seat_ids":[11,99]}`
	c, rec := newTestCtx(t, http.MethodPost, "/v1/reservations", body, 7, model.RolePassenger)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestCancelKeepsDetailsAndFreesSeats(t *testing.T) {
	h, mock := buildReservationHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\? AND active = 1 FOR UPDATE").
		WithArgs(9).
		WillReturnRows(reservationRows().AddRow(9, 7, 5, "BK-ABCDEF123456", sampleTime(),
			300.0, model.ReservationPending, nil, true, sampleTime(), sampleTime()))
	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationCancelled, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT seat_id FROM reservation_details WHERE reservation_id").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(11).AddRow(12))
	mock.ExpectExec("UPDATE seats SET status").
		WithArgs(model.SeatAvailable, 11, 12).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	c, rec := newTestCtx(t, http.MethodPost, "/v1/reservations/9/cancel", "", 7, model.RolePassenger)
	c.SetParamNames("id")
	c.SetParamValues("9")

	if err := h.Cancel(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	// no DELETE FROM reservation_details was expected: the seat claim
	// history survives cancellation
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelStrangerForbidden(t *testing.T) {
	h, mock := buildReservationHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\? AND active = 1 FOR UPDATE").
		WithArgs(9).
		WillReturnRows(reservationRows().AddRow(9, 42, 5, "BK-ABCDEF123456", sampleTime(),
			300.0, model.ReservationPending, nil, true, sampleTime(), sampleTime()))
	mock.ExpectRollback()

	c, rec := newTestCtx(t, http.MethodPost, "/v1/reservations/9/cancel", "", 7, model.RolePassenger)
	c.SetParamNames("id")
	c.SetParamValues("9")

	if err := h.Cancel(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestConfirmPublishesEventAndSellsSeats(t *testing.T) {
	h, mock := buildReservationHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\? AND active = 1 FOR UPDATE").
		WithArgs(9).
		WillReturnRows(reservationRows().AddRow(9, 7, 5, "BK-ABCDEF123456", sampleTime(),
			300.0, model.ReservationPending, nil, true, sampleTime(), sampleTime()))
	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationConfirmed, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT seat_id FROM reservation_details WHERE reservation_id").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(11))
	mock.ExpectExec("UPDATE seats SET status").
		WithArgs(model.SeatSold, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	// event enrichment after commit
	mock.ExpectQuery("SELECT (.+) FROM schedules WHERE id").
		WithArgs(5).
		WillReturnRows(openSchedule(5))
	mock.ExpectQuery("SELECT (.+) FROM routes WHERE id").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "start_location", "end_location", "distance_km", "estimated_time_minutes",
			"active", "created_date", "updated_date",
		}).AddRow(3, "Hanoi", "Da Nang", 760.0, 780, true, sampleTime(), sampleTime()))
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE id").
		WithArgs(11).
		WillReturnRows(seatRows().AddRow(11, 5, 1, model.SeatSold, true, sampleTime(), sampleTime()))

	published := make(chan queue.BookingConfirmedEvent, 1)
	h.Publish = func(ctx context.Context, ev queue.BookingConfirmedEvent) error {
		published <- ev
		return nil
	}

	c, rec := newTestCtx(t, http.MethodPost, "/v1/reservations/9/confirm", "", 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("9")

	if err := h.Confirm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	select {
	case ev := <-published:
		if ev.ReservationID != 9 || ev.UserID != 7 || ev.BookingCode != "BK-ABCDEF123456" {
			t.Fatalf("event payload wrong: %+v", ev)
		}
		if ev.Origin != "Hanoi" || ev.Destination != "Da Nang" {
			t.Fatalf("event missing route context: %+v", ev)
		}
		if len(ev.SeatNumbers) != 1 || ev.SeatNumbers[0] != 1 {
			t.Fatalf("event missing seats: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("confirmed event was never published")
	}
}

func TestConfirmOnlyPending(t *testing.T) {
	h, mock := buildReservationHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\? AND active = 1 FOR UPDATE").
		WithArgs(9).
		WillReturnRows(reservationRows().AddRow(9, 7, 5, "BK-ABCDEF123456", sampleTime(),
			300.0, model.ReservationCancelled, nil, true, sampleTime(), sampleTime()))
	mock.ExpectRollback()

	c, rec := newTestCtx(t, http.MethodPost, "/v1/reservations/9/confirm", "", 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("9")

	if err := h.Confirm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}
