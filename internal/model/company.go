package model

import "time"

// Company is a bus operator. It owns buses and drivers; deleting a
// company cascades to both.
type Company struct {
	ID          uint64    // companies.id
	Name        string    // companies.name
	Address     *string   // companies.address (nullable)
	Phone       *string   // companies.phone (nullable)
	Email       *string   // companies.email (nullable)
	Description *string   // companies.description (nullable)
	Image       *string   // companies.image (stored file reference, nullable)
	Active      bool      // companies.active
	CreatedDate time.Time // companies.created_date
	UpdatedDate time.Time // companies.updated_date
}
