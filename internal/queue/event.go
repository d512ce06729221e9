// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into user
// notifications.
package queue

// BookingConfirmedEvent is published when a reservation is confirmed.
// It carries enough context for downstream consumers to notify the
// passenger without querying the primary database.
type BookingConfirmedEvent struct {
	ReservationID uint64   `json:"reservation_id"`
	UserID        uint64   `json:"user_id"`
	BookingCode   string   `json:"booking_code"`
	ScheduleID    uint64   `json:"schedule_id"`
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	DepartureTime string   `json:"departure_time"`
	SeatNumbers   []uint16 `json:"seats"`
	TotalAmount   float64  `json:"total_amount"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
