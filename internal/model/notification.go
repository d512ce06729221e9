package model

import "time"

// Notification is a user-addressed message with a read flag. Rows are
// written by admin broadcast and by the booking-confirmed queue
// consumer.
type Notification struct {
	ID          uint64    // notifications.id
	UserID      uint64    // notifications.user_id
	Title       string    // notifications.title
	Body        *string   // notifications.body (nullable)
	IsRead      bool      // notifications.is_read
	Active      bool      // notifications.active
	CreatedDate time.Time // notifications.created_date
	UpdatedDate time.Time // notifications.updated_date
}
