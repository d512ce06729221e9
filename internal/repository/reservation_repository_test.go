package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/minhvt/bus-ticketing/internal/model"
)

func TestClaimedSeatsTxReturnsOnlyTakenSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_id FROM reservation_details WHERE seat_id IN").
		WithArgs(10, 11, 12).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(11))
	mock.ExpectRollback()

	repo := NewReservationRepo(db)
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	claimed, err := repo.ClaimedSeatsTx(context.Background(), tx, []uint64{10, 11, 12})
	if err != nil {
		t.Fatalf("claimed seats error: %v", err)
	}
	if len(claimed) != 1 || claimed[0] != 11 {
		t.Fatalf("claimed = %v, want [11]", claimed)
	}
}

func TestClaimedSeatsTxEmptyInputSkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := NewReservationRepo(db)
	tx, _ := db.Begin()
	defer tx.Rollback()

	claimed, err := repo.ClaimedSeatsTx(context.Background(), tx, nil)
	if err != nil || claimed != nil {
		t.Fatalf("empty input should be a no-op, got %v, %v", claimed, err)
	}
}

func TestCreateDetailsTxSeatRaceBecomesConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reservation_details").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '11' for key 'uq_detail_seat'"})
	mock.ExpectRollback()

	repo := NewReservationRepo(db)
	tx, _ := db.Begin()
	defer tx.Rollback()

	details := []model.ReservationDetail{{ReservationID: 3, SeatID: 11}}
	if err := repo.CreateDetailsTx(context.Background(), tx, details); !errors.Is(err, ErrConflict) {
		t.Fatalf("want ErrConflict on seat race, got %v", err)
	}
}

func TestCreateTxPropagatesBookingCodeCollision(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'BK-ABC' for key 'uq_booking_code'"})
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	repo := NewReservationRepo(db)
	tx, _ := db.Begin()

	v := model.Reservation{UserID: 1, ScheduleID: 2, BookingCode: "BK-ABC",
		TotalAmount: 100, Status: model.ReservationPending}
	err = repo.CreateTx(context.Background(), tx, &v)
	if !IsDuplicate(err) {
		t.Fatalf("collision should be retryable, got %v", err)
	}

	v.BookingCode = "BK-DEF"
	if err := repo.CreateTx(context.Background(), tx, &v); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if v.ID != 9 {
		t.Fatalf("generated id not propagated, got %d", v.ID)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusTxMissingRowIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationCancelled, 404).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewReservationRepo(db)
	tx, _ := db.Begin()
	defer tx.Rollback()

	if err := repo.UpdateStatusTx(context.Background(), tx, 404, model.ReservationCancelled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestReservationGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\? AND active = 1").
		WithArgs(9).
		WillReturnRows(reservationRows().AddRow(
			9, 7, 5, "BK-1A2B3C4D5E", sampleTime(), 300.0, model.ReservationPending,
			nil, true, sampleTime(), sampleTime()))

	repo := NewReservationRepo(db)
	got, err := repo.GetByID(context.Background(), 9)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.ID != 9 || got.UserID != 7 || got.BookingCode != "BK-1A2B3C4D5E" {
		t.Fatalf("unexpected reservation: %+v", got)
	}
	if got.Note != nil {
		t.Fatalf("note should scan as nil, got %q", *got.Note)
	}
	if got.TotalAmount != 300 || got.Status != model.ReservationPending {
		t.Fatalf("unexpected amount/status: %v %s", got.TotalAmount, got.Status)
	}
}

func TestReservationGetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\? AND active = 1").
		WithArgs(404).
		WillReturnRows(reservationRows())

	repo := NewReservationRepo(db)
	if _, err := repo.GetByID(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
