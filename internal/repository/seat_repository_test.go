package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/minhvt/bus-ticketing/internal/model"
)

func TestPlaceholders(t *testing.T) {
	cases := map[int]string{0: "", 1: "?", 3: "?,?,?"}
	for n, want := range cases {
		if got := placeholders(n); got != want {
			t.Fatalf("placeholders(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestGenerateForScheduleInsertsFullSeatMap(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO seats").
		WithArgs(5, 1, 5, 2, 5, 3).
		WillReturnResult(sqlmock.NewResult(1, 3))

	repo := NewSeatRepo(db)
	if err := repo.GenerateForSchedule(context.Background(), 5, 3); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLockByIDsTxFiltersForeignSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	// seat 21 belongs to another schedule, so only one row comes back
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE schedule_id = \\? AND active = 1 AND id IN (.+) FOR UPDATE").
		WithArgs(5, 20, 21).
		WillReturnRows(seatRows().AddRow(20, 5, 1, model.SeatAvailable, true, sampleTime(), sampleTime()))
	mock.ExpectRollback()

	repo := NewSeatRepo(db)
	tx, _ := db.Begin()
	defer tx.Rollback()

	seats, err := repo.LockByIDsTx(context.Background(), tx, 5, []uint64{20, 21})
	if err != nil {
		t.Fatalf("lock error: %v", err)
	}
	if len(seats) != 1 || seats[0].ID != 20 {
		t.Fatalf("unexpected seats: %+v", seats)
	}
}
