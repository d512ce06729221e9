package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/queue"
	"github.com/minhvt/bus-ticketing/internal/repository"
	queue_publisher "github.com/minhvt/bus-ticketing/internal/service"
	"github.com/minhvt/bus-ticketing/internal/utils"
)

// maxBookingCodeRetries bounds regeneration when a random booking code
// collides with an existing one.
const maxBookingCodeRetries = 5

// ReservationHandler drives the booking flow. Creation runs
// check-then-claim inside a single transaction; the UNIQUE(seat_id)
// constraint on reservation_details resolves any race the in-tx check
// missed, so concurrent claims of the same seat produce exactly one
// winner.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Schedules    *repository.ScheduleRepo
	Seats        *repository.SeatRepo
	Promotions   *repository.PromotionRepo
	Users        *repository.UserRepo
	Buses        *repository.BusRepo
	Routes       *repository.RouteRepo

	// Publish is swapped out in tests. nil disables event publishing.
	Publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

func NewReservationHandler(
	rv *repository.ReservationRepo, sc *repository.ScheduleRepo, st *repository.SeatRepo,
	pr *repository.PromotionRepo, us *repository.UserRepo, bs *repository.BusRepo, rt *repository.RouteRepo,
) *ReservationHandler {
	return &ReservationHandler{
		Reservations: rv, Schedules: sc, Seats: st, Promotions: pr,
		Users: us, Buses: bs, Routes: rt,
		Publish: queue_publisher.PublishBookingConfirmed,
	}
}

type passengerReq struct {
	SeatID uint64  `json:"seat_id"`
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
}

type createReservationReq struct {
	ScheduleID    uint64         `json:"schedule_id"`
	SeatIDs       []uint64       `json:"seat_ids"`
	Passengers    []passengerReq `json:"passengers"`
	PromotionCode string         `json:"promotion_code"`
	Note          *string        `json:"note"`
}

type detailView struct {
	ID             uint64  `json:"id"`
	SeatID         uint64  `json:"seat_id"`
	SeatNumber     uint16  `json:"seat_number,omitempty"`
	PassengerName  *string `json:"passenger_name"`
	PassengerPhone *string `json:"passenger_phone"`
}

type reservationView struct {
	ID          uint64        `json:"id"`
	UserID      uint64        `json:"user_id"`
	ScheduleID  uint64        `json:"schedule_id"`
	BookingCode string        `json:"booking_code"`
	BookingDate time.Time     `json:"booking_date"`
	TotalAmount float64       `json:"total_amount"`
	Status      string        `json:"status"`
	Note        *string       `json:"note"`
	Schedule    *scheduleView `json:"schedule,omitempty"`
	Bus         *busView      `json:"bus,omitempty"`
	Route       *routeView    `json:"route,omitempty"`
	Details     []detailView  `json:"details,omitempty"`
}

func toReservationView(v model.Reservation) reservationView {
	return reservationView{
		ID: v.ID, UserID: v.UserID, ScheduleID: v.ScheduleID,
		BookingCode: v.BookingCode, BookingDate: v.BookingDate,
		TotalAmount: v.TotalAmount, Status: v.Status, Note: v.Note,
	}
}

// Create books a set of seats on one schedule for the caller.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.ScheduleID == 0 || len(req.SeatIDs) == 0 {
		return badRequest(c, "schedule_id and seat_ids required")
	}
	seen := make(map[uint64]bool, len(req.SeatIDs))
	for _, id := range req.SeatIDs {
		if id == 0 || seen[id] {
			return badRequest(c, "seat_ids must be unique and positive")
		}
		seen[id] = true
	}
	passengers := make(map[uint64]passengerReq, len(req.Passengers))
	for _, p := range req.Passengers {
		if !seen[p.SeatID] {
			return badRequest(c, "passenger references a seat not being booked")
		}
		passengers[p.SeatID] = p
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return writeErr(c, err)
	}
	defer func() { _ = tx.Rollback() }()

	sch, err := h.Schedules.GetByIDTx(ctx, tx, req.ScheduleID)
	if err != nil {
		return writeErr(c, err)
	}
	if sch.Status != model.ScheduleScheduled && sch.Status != model.ScheduleDelayed {
		return badRequest(c, "schedule is not open for booking")
	}
	if !sch.DepartureTime.After(time.Now()) {
		return badRequest(c, "schedule has already departed")
	}

	seats, err := h.Seats.LockByIDsTx(ctx, tx, req.ScheduleID, req.SeatIDs)
	if err != nil {
		return writeErr(c, err)
	}
	if len(seats) != len(req.SeatIDs) {
		return badRequest(c, "one or more seats do not belong to this schedule")
	}

	claimed, err := h.Reservations.ClaimedSeatsTx(ctx, tx, req.SeatIDs)
	if err != nil {
		return writeErr(c, err)
	}
	if len(claimed) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken", "seat_ids": claimed})
	}

	total := sch.Price * float64(len(req.SeatIDs))

	var promo *model.Promotion
	if req.PromotionCode != "" {
		p, err := h.Promotions.GetByCode(ctx, req.PromotionCode)
		if err != nil {
			if err == repository.ErrNotFound {
				return badRequest(c, "unknown promotion code")
			}
			return writeErr(c, err)
		}
		now := time.Now()
		if now.Before(p.StartDate) || now.After(p.EndDate) {
			return badRequest(c, "promotion is not currently valid")
		}
		if total < p.MinAmount {
			return badRequest(c, "order does not meet the promotion minimum")
		}
		if p.UsageLimit != nil {
			used, err := h.Promotions.CountUsagesTx(ctx, tx, p.ID)
			if err != nil {
				return writeErr(c, err)
			}
			if used >= int(*p.UsageLimit) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "promotion usage limit reached"})
			}
		}
		total -= p.Discount(total)
		promo = &p
	}

	res := model.Reservation{
		UserID:      uid,
		ScheduleID:  req.ScheduleID,
		TotalAmount: total,
		Status:      model.ReservationPending,
		Note:        req.Note,
	}
	for attempt := 0; ; attempt++ {
		res.BookingCode = utils.NewBookingCode()
		err = h.Reservations.CreateTx(ctx, tx, &res)
		if err == nil {
			break
		}
		if !repository.IsDuplicate(err) || attempt+1 >= maxBookingCodeRetries {
			return writeErr(c, err)
		}
	}

	details := make([]model.ReservationDetail, 0, len(req.SeatIDs))
	for _, seatID := range req.SeatIDs {
		d := model.ReservationDetail{ReservationID: res.ID, SeatID: seatID}
		if p, ok := passengers[seatID]; ok {
			d.PassengerName = p.Name
			d.PassengerPhone = p.Phone
		}
		details = append(details, d)
	}
	if err := h.Reservations.CreateDetailsTx(ctx, tx, details); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken"})
		}
		return writeErr(c, err)
	}

	if promo != nil {
		u := model.PromotionUsage{PromotionID: promo.ID, UserID: uid, ReservationID: &res.ID}
		if err := h.Promotions.RecordUsageTx(ctx, tx, &u); err != nil {
			return writeErr(c, err)
		}
	}

	if err := h.Seats.UpdateStatusTx(ctx, tx, req.SeatIDs, model.SeatReserved); err != nil {
		return writeErr(c, err)
	}
	if err := tx.Commit(); err != nil {
		return writeErr(c, err)
	}

	out, err := h.Reservations.GetByID(ctx, res.ID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, h.expand(ctx, out))
}

// expand builds the nested one-level view: schedule, its bus and
// route, and per-seat details. Lookup failures degrade to a flat view
// rather than failing the request.
func (h *ReservationHandler) expand(ctx context.Context, v model.Reservation) reservationView {
	view := toReservationView(v)

	if sch, err := h.Schedules.GetByID(ctx, v.ScheduleID); err == nil {
		sv := toScheduleView(sch)
		view.Schedule = &sv
		if bus, err := h.Buses.GetByID(ctx, sch.BusID); err == nil {
			bv := toBusView(bus)
			view.Bus = &bv
		}
		if rt, err := h.Routes.GetByID(ctx, sch.RouteID); err == nil {
			rv := toRouteView(rt)
			view.Route = &rv
		}
	}

	details, err := h.Reservations.ListDetails(ctx, v.ID)
	if err != nil {
		return view
	}
	for _, d := range details {
		dv := detailView{
			ID: d.ID, SeatID: d.SeatID,
			PassengerName: d.PassengerName, PassengerPhone: d.PassengerPhone,
		}
		if seat, err := h.Seats.GetByID(ctx, d.SeatID); err == nil {
			dv.SeatNumber = seat.SeatNumber
		}
		view.Details = append(view.Details, dv)
	}
	return view
}

// Get returns one reservation with nested schedule and seat details.
// Owner or admin.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	if !isOwnerOrAdmin(c, v.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, h.expand(ctx, v))
}

// Mine lists the caller's reservations, newest first.
func (h *ReservationHandler) Mine(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Reservations.ListByUser(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]reservationView, 0, len(items))
	for _, v := range items {
		views = append(views, toReservationView(v))
	}
	return c.JSON(http.StatusOK, views)
}

// Cancel voids a pending or confirmed reservation. Seats flip back to
// available but the detail rows stay: a cancelled claim still blocks
// the seat from ever being booked again on this schedule.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return writeErr(c, err)
	}
	defer func() { _ = tx.Rollback() }()

	v, err := h.Reservations.GetByIDTx(ctx, tx, id)
	if err != nil {
		return writeErr(c, err)
	}
	if !isOwnerOrAdmin(c, v.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if v.Status != model.ReservationPending && v.Status != model.ReservationConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation cannot be cancelled"})
	}

	if err := h.Reservations.UpdateStatusTx(ctx, tx, id, model.ReservationCancelled); err != nil {
		return writeErr(c, err)
	}
	seatIDs, err := h.Reservations.SeatIDsTx(ctx, tx, id)
	if err != nil {
		return writeErr(c, err)
	}
	if err := h.Seats.UpdateStatusTx(ctx, tx, seatIDs, model.SeatAvailable); err != nil {
		return writeErr(c, err)
	}
	if err := tx.Commit(); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.ReservationCancelled})
}

// Confirm moves a pending reservation to confirmed, marks its seats
// sold and publishes a booking-confirmed event. Publishing is
// best-effort after commit; a broker outage does not undo the booking.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return writeErr(c, err)
	}
	defer func() { _ = tx.Rollback() }()

	v, err := h.Reservations.GetByIDTx(ctx, tx, id)
	if err != nil {
		return writeErr(c, err)
	}
	if v.Status != model.ReservationPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "only pending reservations can be confirmed"})
	}

	if err := h.Reservations.UpdateStatusTx(ctx, tx, id, model.ReservationConfirmed); err != nil {
		return writeErr(c, err)
	}
	seatIDs, err := h.Reservations.SeatIDsTx(ctx, tx, id)
	if err != nil {
		return writeErr(c, err)
	}
	if err := h.Seats.UpdateStatusTx(ctx, tx, seatIDs, model.SeatSold); err != nil {
		return writeErr(c, err)
	}
	if err := tx.Commit(); err != nil {
		return writeErr(c, err)
	}

	if h.Publish != nil {
		ev := h.buildConfirmedEvent(ctx, v, seatIDs)
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.Publish(pubCtx, ev); err != nil {
				log.Printf("reservation: publish confirmed event failed: %v", err)
			}
		}()
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.ReservationConfirmed})
}

func (h *ReservationHandler) buildConfirmedEvent(ctx context.Context, v model.Reservation, seatIDs []uint64) queue.BookingConfirmedEvent {
	ev := queue.BookingConfirmedEvent{
		ReservationID: v.ID,
		UserID:        v.UserID,
		BookingCode:   v.BookingCode,
		ScheduleID:    v.ScheduleID,
		TotalAmount:   v.TotalAmount,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if sch, err := h.Schedules.GetByID(ctx, v.ScheduleID); err == nil {
		ev.DepartureTime = sch.DepartureTime.Format(time.RFC3339)
		if rt, err := h.Routes.GetByID(ctx, sch.RouteID); err == nil {
			ev.Origin = rt.StartLocation
			ev.Destination = rt.EndLocation
		}
	}
	for _, seatID := range seatIDs {
		if seat, err := h.Seats.GetByID(ctx, seatID); err == nil {
			ev.SeatNumbers = append(ev.SeatNumbers, seat.SeatNumber)
		}
	}
	return ev
}
