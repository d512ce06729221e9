package repository

import (
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func sampleTime() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "phone", "password_hash", "first_name", "last_name",
		"avatar", "gender", "role", "active", "created_date", "updated_date",
	})
}

func reservationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "schedule_id", "booking_code", "booking_date",
		"total_amount", "status", "note", "active", "created_date", "updated_date",
	})
}

func scheduleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "bus_id", "route_id", "departure_time", "arrival_time",
		"price", "status", "active", "created_date", "updated_date",
	})
}

func seatRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "schedule_id", "seat_number", "status", "active", "created_date", "updated_date",
	})
}
