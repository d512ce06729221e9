package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// ScheduleHandler serves departures and their seat maps. Creating a
// schedule also generates its seats, numbered 1..capacity of the
// assigned bus.
type ScheduleHandler struct {
	Schedules *repository.ScheduleRepo
	Buses     *repository.BusRepo
	Routes    *repository.RouteRepo
	Seats     *repository.SeatRepo
}

func NewScheduleHandler(s *repository.ScheduleRepo, b *repository.BusRepo, r *repository.RouteRepo, st *repository.SeatRepo) *ScheduleHandler {
	return &ScheduleHandler{Schedules: s, Buses: b, Routes: r, Seats: st}
}

type scheduleReq struct {
	BusID         uint64    `json:"bus_id"`
	RouteID       uint64    `json:"route_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         float64   `json:"price"`
	Status        string    `json:"status"`
}

type scheduleView struct {
	ID            uint64    `json:"id"`
	BusID         uint64    `json:"bus_id"`
	RouteID       uint64    `json:"route_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         float64   `json:"price"`
	Status        string    `json:"status"`
	Active        bool      `json:"active"`
}

type seatView struct {
	ID         uint64 `json:"id"`
	ScheduleID uint64 `json:"schedule_id"`
	SeatNumber uint16 `json:"seat_number"`
	Status     string `json:"status"`
}

func toScheduleView(m model.Schedule) scheduleView {
	return scheduleView{
		ID: m.ID, BusID: m.BusID, RouteID: m.RouteID,
		DepartureTime: m.DepartureTime, ArrivalTime: m.ArrivalTime,
		Price: m.Price, Status: m.Status, Active: m.Active,
	}
}

func toSeatView(m model.Seat) seatView {
	return seatView{ID: m.ID, ScheduleID: m.ScheduleID, SeatNumber: m.SeatNumber, Status: m.Status}
}

func (h *ScheduleHandler) Create(c echo.Context) error {
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.BusID == 0 || req.RouteID == 0 {
		return badRequest(c, "bus_id and route_id required")
	}
	if !req.ArrivalTime.After(req.DepartureTime) {
		return badRequest(c, "arrival must be after departure")
	}
	if req.Price < 0 {
		return badRequest(c, "price must not be negative")
	}
	if req.Status == "" {
		req.Status = model.ScheduleScheduled
	}
	if !model.ValidScheduleStatus(req.Status) {
		return badRequest(c, "invalid status")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	bus, err := h.Buses.GetByID(ctx, req.BusID)
	if err != nil {
		return writeErr(c, err)
	}
	if bus.Status != model.BusActive {
		return badRequest(c, "bus is not in service")
	}
	if _, err := h.Routes.GetByID(ctx, req.RouteID); err != nil {
		return writeErr(c, err)
	}

	m := model.Schedule{
		BusID: req.BusID, RouteID: req.RouteID,
		DepartureTime: req.DepartureTime, ArrivalTime: req.ArrivalTime,
		Price: req.Price, Status: req.Status,
	}

	// Schedule row and its seats commit together; a failed seat insert
	// must not leave a bookable schedule with no seats behind.
	tx, err := h.Schedules.DB().BeginTx(ctx, nil)
	if err != nil {
		return writeErr(c, err)
	}
	defer tx.Rollback()

	id, err := h.Schedules.CreateTx(ctx, tx, &m)
	if err != nil {
		return writeErr(c, err)
	}
	if err := h.Seats.GenerateForScheduleTx(ctx, tx, id, bus.Capacity); err != nil {
		return writeErr(c, err)
	}
	if err := tx.Commit(); err != nil {
		return writeErr(c, err)
	}
	m.ID = id
	m.Active = true
	return c.JSON(http.StatusCreated, toScheduleView(m))
}

func (h *ScheduleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Schedules.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toScheduleView(m))
}

// List returns upcoming schedules, optionally filtered by ?route_id
// and ?bus_id.
func (h *ScheduleHandler) List(c echo.Context) error {
	routeID, _ := strconv.ParseUint(c.QueryParam("route_id"), 10, 64)
	busID, _ := strconv.ParseUint(c.QueryParam("bus_id"), 10, 64)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Schedules.ListUpcoming(ctx, routeID, busID)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]scheduleView, 0, len(items))
	for _, m := range items {
		views = append(views, toScheduleView(m))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *ScheduleHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if !req.ArrivalTime.After(req.DepartureTime) {
		return badRequest(c, "arrival must be after departure")
	}
	if req.Price < 0 {
		return badRequest(c, "price must not be negative")
	}
	if !model.ValidScheduleStatus(req.Status) {
		return badRequest(c, "invalid status")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.Schedule{
		ID: id, DepartureTime: req.DepartureTime, ArrivalTime: req.ArrivalTime,
		Price: req.Price, Status: req.Status,
	}
	if err := h.Schedules.Update(ctx, &m); err != nil {
		return writeErr(c, err)
	}
	got, err := h.Schedules.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toScheduleView(got))
}

type scheduleStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus moves the schedule through its lifecycle without
// touching times or price.
func (h *ScheduleHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req scheduleStatusReq
	if err := c.Bind(&req); err != nil || !model.ValidScheduleStatus(req.Status) {
		return badRequest(c, "invalid status")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Schedules.UpdateStatus(ctx, id, req.Status); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}

// Delete removes the schedule and its seats. Blocked with 409 while
// reservations reference it.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Schedules.Delete(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// ListSeats returns the seat map of one schedule.
func (h *ScheduleHandler) ListSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Schedules.GetByID(ctx, id); err != nil {
		return writeErr(c, err)
	}
	seats, err := h.Seats.ListBySchedule(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]seatView, 0, len(seats))
	for _, s := range seats {
		views = append(views, toSeatView(s))
	}
	return c.JSON(http.StatusOK, views)
}
