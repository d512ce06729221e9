package model

import "time"

// Payment method and status values.
const (
	PaymentCash         = "cash"
	PaymentBankTransfer = "bank_transfer"
	PaymentMomo         = "momo"
	PaymentCreditCard   = "credit_card"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Payment records money movement against a reservation. A reservation
// may accumulate several payment rows (e.g. a failed attempt followed
// by a successful one, or a refund).
type Payment struct {
	ID            uint64    // payments.id
	ReservationID uint64    // payments.reservation_id
	Amount        float64   // payments.amount
	PaymentMethod string    // payments.payment_method
	PaymentTime   time.Time // payments.payment_time
	Status        string    // payments.status
	Active        bool      // payments.active
	CreatedDate   time.Time // payments.created_date
	UpdatedDate   time.Time // payments.updated_date
}

// ValidPaymentMethod reports whether m is a defined payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentMomo, PaymentCreditCard:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a defined payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}
