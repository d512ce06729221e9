package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// PaymentHandler records money movement against reservations. There is
// no gateway integration; payments are declared by the caller and
// settled by an admin flipping the status.
type PaymentHandler struct {
	Payments     *repository.PaymentRepo
	Reservations *repository.ReservationRepo
}

func NewPaymentHandler(p *repository.PaymentRepo, r *repository.ReservationRepo) *PaymentHandler {
	return &PaymentHandler{Payments: p, Reservations: r}
}

type paymentReq struct {
	ReservationID uint64  `json:"reservation_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}

type paymentView struct {
	ID            uint64    `json:"id"`
	ReservationID uint64    `json:"reservation_id"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	PaymentTime   time.Time `json:"payment_time"`
	Status        string    `json:"status"`
}

func toPaymentView(m model.Payment) paymentView {
	return paymentView{
		ID: m.ID, ReservationID: m.ReservationID, Amount: m.Amount,
		PaymentMethod: m.PaymentMethod, PaymentTime: m.PaymentTime, Status: m.Status,
	}
}

// Create opens a pending payment on a reservation. Owner or admin.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.ReservationID == 0 {
		return badRequest(c, "reservation_id required")
	}
	if req.Amount <= 0 {
		return badRequest(c, "amount must be positive")
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return badRequest(c, "invalid payment_method")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, req.ReservationID)
	if err != nil {
		return writeErr(c, err)
	}
	if !isOwnerOrAdmin(c, res.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if res.Status == model.ReservationCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is cancelled"})
	}

	m := model.Payment{
		ReservationID: req.ReservationID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Status:        model.PaymentPending,
	}
	if _, err := h.Payments.Create(ctx, &m); err != nil {
		return writeErr(c, err)
	}
	got, err := h.Payments.GetByID(ctx, m.ID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toPaymentView(got))
}

// ListByReservation returns the payment history of one reservation.
// Owner or admin.
func (h *PaymentHandler) ListByReservation(c echo.Context) error {
	reservationID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return writeErr(c, err)
	}
	if !isOwnerOrAdmin(c, res.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	items, err := h.Payments.ListByReservation(ctx, reservationID)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]paymentView, 0, len(items))
	for _, m := range items {
		views = append(views, toPaymentView(m))
	}
	return c.JSON(http.StatusOK, views)
}

type paymentStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus settles, fails or refunds a payment. Admin only.
func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req paymentStatusReq
	if err := c.Bind(&req); err != nil || !model.ValidPaymentStatus(req.Status) {
		return badRequest(c, "invalid status")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Payments.UpdateStatus(ctx, id, req.Status); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}
