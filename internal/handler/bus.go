package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// BusHandler serves fleet management endpoints.
type BusHandler struct {
	Buses     *repository.BusRepo
	Companies *repository.CompanyRepo
}

func NewBusHandler(b *repository.BusRepo, co *repository.CompanyRepo) *BusHandler {
	return &BusHandler{Buses: b, Companies: co}
}

type busReq struct {
	CompanyID    uint64  `json:"company_id"`
	LicensePlate string  `json:"license_plate"`
	Capacity     uint16  `json:"capacity"`
	Status       string  `json:"status"`
	Image        *string `json:"image"`
}

type busView struct {
	ID           uint64  `json:"id"`
	CompanyID    uint64  `json:"company_id"`
	LicensePlate string  `json:"license_plate"`
	Capacity     uint16  `json:"capacity"`
	Status       string  `json:"status"`
	Image        *string `json:"image"`
	Active       bool    `json:"active"`
}

func toBusView(m model.Bus) busView {
	return busView{
		ID: m.ID, CompanyID: m.CompanyID, LicensePlate: m.LicensePlate,
		Capacity: m.Capacity, Status: m.Status, Image: m.Image, Active: m.Active,
	}
}

func (h *BusHandler) Create(c echo.Context) error {
	var req busReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.LicensePlate = strings.ToUpper(strings.TrimSpace(req.LicensePlate))
	if req.CompanyID == 0 || req.LicensePlate == "" {
		return badRequest(c, "company_id and license_plate required")
	}
	if req.Capacity < 1 {
		return badRequest(c, "capacity must be positive")
	}
	if req.Status == "" {
		req.Status = model.BusActive
	}
	if !model.ValidBusStatus(req.Status) {
		return badRequest(c, "invalid status")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// the company must exist and be active before a bus can reference it
	if _, err := h.Companies.GetByID(ctx, req.CompanyID); err != nil {
		return writeErr(c, err)
	}

	m := model.Bus{
		CompanyID: req.CompanyID, LicensePlate: req.LicensePlate,
		Capacity: req.Capacity, Status: req.Status, Image: req.Image,
	}
	id, err := h.Buses.Create(ctx, &m)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "license plate already registered"})
		}
		return writeErr(c, err)
	}
	m.ID = id
	m.Active = true
	return c.JSON(http.StatusCreated, toBusView(m))
}

func (h *BusHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Buses.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toBusView(m))
}

// ListByCompany returns the active fleet of one company.
func (h *BusHandler) ListByCompany(c echo.Context) error {
	companyID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Buses.ListByCompany(ctx, companyID)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]busView, 0, len(items))
	for _, m := range items {
		views = append(views, toBusView(m))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *BusHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req busReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.LicensePlate = strings.ToUpper(strings.TrimSpace(req.LicensePlate))
	if req.LicensePlate == "" || req.Capacity < 1 {
		return badRequest(c, "license_plate and positive capacity required")
	}
	if !model.ValidBusStatus(req.Status) {
		return badRequest(c, "invalid status")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.Bus{
		ID: id, LicensePlate: req.LicensePlate, Capacity: req.Capacity,
		Status: req.Status, Image: req.Image,
	}
	if err := h.Buses.Update(ctx, &m); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "license plate already registered"})
		}
		return writeErr(c, err)
	}
	got, err := h.Buses.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toBusView(got))
}

// Delete removes the bus. Blocked with 409 while schedules still
// reference it.
func (h *BusHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Buses.Delete(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
