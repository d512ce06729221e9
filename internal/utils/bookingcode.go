package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewBookingCode returns a human-presentable reservation code of the
// form BK-XXXXXXXXXXXX. Codes are random, so a generated value can
// collide with an existing one; callers insert under the booking_code
// unique constraint and regenerate on conflict rather than treating a
// collision as fatal.
func NewBookingCode() string {
	id := uuid.New()
	hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return "BK-" + hex[:12]
}
