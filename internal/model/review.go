package model

import "time"

// Review is a 1..5 rating left by a user on a company and/or a
// schedule. Both targets are optional and survive the target's
// deletion with the link nulled.
type Review struct {
	ID          uint64    // reviews.id
	UserID      uint64    // reviews.user_id
	CompanyID   *uint64   // reviews.company_id (nullable)
	ScheduleID  *uint64   // reviews.schedule_id (nullable)
	Rating      uint8     // reviews.rating (1..5)
	Comment     *string   // reviews.comment (nullable)
	Active      bool      // reviews.active
	CreatedDate time.Time // reviews.created_date
	UpdatedDate time.Time // reviews.updated_date
}
