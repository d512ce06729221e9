package model

import "time"

// Bus status values.
const (
	BusActive      = "active"
	BusMaintenance = "maintenance"
	BusRetired     = "retired"
)

// Bus belongs to exactly one company. The license plate is unique
// across all companies. A bus cannot be deleted while schedules still
// reference it.
type Bus struct {
	ID           uint64    // buses.id
	CompanyID    uint64    // buses.company_id
	LicensePlate string    // buses.license_plate (unique)
	Capacity     uint16    // buses.capacity
	Status       string    // buses.status
	Image        *string   // buses.image (nullable)
	Active       bool      // buses.active
	CreatedDate  time.Time // buses.created_date
	UpdatedDate  time.Time // buses.updated_date
}

// ValidBusStatus reports whether s is a defined bus status.
func ValidBusStatus(s string) bool {
	return s == BusActive || s == BusMaintenance || s == BusRetired
}
