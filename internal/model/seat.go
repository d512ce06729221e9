package model

import "time"

// Seat status values. Status is derived state maintained by the
// reservation flow: reserved on booking, sold on confirmation, back to
// available on cancellation.
const (
	SeatAvailable = "available"
	SeatReserved  = "reserved"
	SeatSold      = "sold"
)

// Seat belongs to one schedule. The (schedule_id, seat_number) pair is
// unique; seats are numbered 1..N when generated for a schedule.
type Seat struct {
	ID          uint64    // seats.id
	ScheduleID  uint64    // seats.schedule_id
	SeatNumber  uint16    // seats.seat_number
	Status      string    // seats.status
	Active      bool      // seats.active
	CreatedDate time.Time // seats.created_date
	UpdatedDate time.Time // seats.updated_date
}
