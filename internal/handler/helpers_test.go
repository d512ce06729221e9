package handler

import (
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func sampleTime() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
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

func reservationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "schedule_id", "booking_code", "booking_date",
		"total_amount", "status", "note", "active", "created_date", "updated_date",
	})
}

func promotionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "code", "description", "discount_type", "discount_value",
		"start_date", "end_date", "min_amount", "usage_limit",
		"active", "created_date", "updated_date",
	})
}
