package model

import "time"

// Driver assignment roles.
const (
	AssignmentDriver    = "driver"
	AssignmentAssistant = "assistant"
)

// Driver is employed by one company and removed with it.
type Driver struct {
	ID            uint64    // drivers.id
	CompanyID     uint64    // drivers.company_id
	FullName      string    // drivers.full_name
	Phone         *string   // drivers.phone (nullable)
	LicenseNumber *string   // drivers.license_number (nullable)
	Active        bool      // drivers.active
	CreatedDate   time.Time // drivers.created_date
	UpdatedDate   time.Time // drivers.updated_date
}

// DriverAssignment puts one driver on one schedule in a given role.
// The (driver_id, schedule_id) pair is unique.
type DriverAssignment struct {
	ID          uint64    // driver_assignments.id
	DriverID    uint64    // driver_assignments.driver_id
	ScheduleID  uint64    // driver_assignments.schedule_id
	Role        string    // driver_assignments.role
	Active      bool      // driver_assignments.active
	CreatedDate time.Time // driver_assignments.created_date
	UpdatedDate time.Time // driver_assignments.updated_date
}
