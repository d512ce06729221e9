package model

import "time"

// Promotion discount types.
const (
	DiscountPercent = "percent"
	DiscountAmount  = "amount"
)

// Promotion is a discount code valid inside a time window. UsageLimit
// is nil for unlimited codes; otherwise redemptions are counted against
// promotion_usages rows.
type Promotion struct {
	ID            uint64    // promotions.id
	Code          string    // promotions.code (unique)
	Description   *string   // promotions.description (nullable)
	DiscountType  string    // promotions.discount_type
	DiscountValue float64   // promotions.discount_value
	StartDate     time.Time // promotions.start_date
	EndDate       time.Time // promotions.end_date
	MinAmount     float64   // promotions.min_amount
	UsageLimit    *int32    // promotions.usage_limit (nullable)
	Active        bool      // promotions.active
	CreatedDate   time.Time // promotions.created_date
	UpdatedDate   time.Time // promotions.updated_date
}

// Discount returns the discount the promotion grants on the given
// amount. It does not check validity window or usage limits.
func (p *Promotion) Discount(amount float64) float64 {
	var d float64
	if p.DiscountType == DiscountPercent {
		d = amount * p.DiscountValue / 100
	} else {
		d = p.DiscountValue
	}
	if d > amount {
		d = amount
	}
	return d
}

// PromotionUsage records one redemption of a promotion by a user,
// optionally tied to the reservation it was applied to. The
// reservation link is nulled if that reservation is ever purged so the
// redemption count survives.
type PromotionUsage struct {
	ID            uint64    // promotion_usages.id
	PromotionID   uint64    // promotion_usages.promotion_id
	UserID        uint64    // promotion_usages.user_id
	ReservationID *uint64   // promotion_usages.reservation_id (nullable)
	Active        bool      // promotion_usages.active
	CreatedDate   time.Time // promotion_usages.created_date
	UpdatedDate   time.Time // promotion_usages.updated_date
}
