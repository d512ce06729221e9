package model

import "time"

// Schedule status values.
const (
	ScheduleScheduled = "scheduled"
	ScheduleCancelled = "cancelled"
	ScheduleCompleted = "completed"
	ScheduleDelayed   = "delayed"
)

// Schedule is a departure of one bus along one route. Both foreign keys
// are delete-restricted: a bus or route cannot disappear while
// schedules reference it. Deleting a schedule cascades to its seats but
// is itself restricted while reservations exist.
type Schedule struct {
	ID            uint64    // schedules.id
	BusID         uint64    // schedules.bus_id
	RouteID       uint64    // schedules.route_id
	DepartureTime time.Time // schedules.departure_time
	ArrivalTime   time.Time // schedules.arrival_time
	Price         float64   // schedules.price
	Status        string    // schedules.status
	Active        bool      // schedules.active
	CreatedDate   time.Time // schedules.created_date
	UpdatedDate   time.Time // schedules.updated_date
}

// ValidScheduleStatus reports whether s is a defined schedule status.
func ValidScheduleStatus(s string) bool {
	switch s {
	case ScheduleScheduled, ScheduleCancelled, ScheduleCompleted, ScheduleDelayed:
		return true
	}
	return false
}
