package model

import "time"

// Reservation status values.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

// Reservation aggregates the seats booked by one user on one schedule
// under a single booking code. The schedule reference is
// delete-restricted so a reservation can never point at a vanished
// schedule. TotalAmount is the sum over all details at booking time,
// after any promotion discount.
type Reservation struct {
	ID          uint64    // reservations.id
	UserID      uint64    // reservations.user_id
	ScheduleID  uint64    // reservations.schedule_id
	BookingCode string    // reservations.booking_code (unique)
	BookingDate time.Time // reservations.booking_date
	TotalAmount float64   // reservations.total_amount
	Status      string    // reservations.status
	Note        *string   // reservations.note (nullable)
	Active      bool      // reservations.active
	CreatedDate time.Time // reservations.created_date
	UpdatedDate time.Time // reservations.updated_date
}

// ReservationDetail links a reservation to exactly one seat and carries
// the passenger identity for that seat. The seat reference is hard
// unique: once any detail row claims a seat, no other detail may ever
// claim it again, even after the owning reservation is cancelled. That
// constraint is the allocation invariant the whole booking flow leans
// on under concurrency.
type ReservationDetail struct {
	ID             uint64    // reservation_details.id
	ReservationID  uint64    // reservation_details.reservation_id
	SeatID         uint64    // reservation_details.seat_id (unique)
	PassengerName  *string   // reservation_details.passenger_name (nullable)
	PassengerPhone *string   // reservation_details.passenger_phone (nullable)
	Active         bool      // reservation_details.active
	CreatedDate    time.Time // reservation_details.created_date
	UpdatedDate    time.Time // reservation_details.updated_date
}
