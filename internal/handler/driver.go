package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// DriverHandler manages company staff and their schedule assignments.
type DriverHandler struct {
	Drivers   *repository.DriverRepo
	Companies *repository.CompanyRepo
	Schedules *repository.ScheduleRepo
}

func NewDriverHandler(d *repository.DriverRepo, co *repository.CompanyRepo, sc *repository.ScheduleRepo) *DriverHandler {
	return &DriverHandler{Drivers: d, Companies: co, Schedules: sc}
}

type driverReq struct {
	CompanyID     uint64  `json:"company_id"`
	FullName      string  `json:"full_name"`
	Phone         *string `json:"phone"`
	LicenseNumber *string `json:"license_number"`
}

type driverView struct {
	ID            uint64  `json:"id"`
	CompanyID     uint64  `json:"company_id"`
	FullName      string  `json:"full_name"`
	Phone         *string `json:"phone"`
	LicenseNumber *string `json:"license_number"`
	Active        bool    `json:"active"`
}

type assignmentView struct {
	ID         uint64 `json:"id"`
	DriverID   uint64 `json:"driver_id"`
	ScheduleID uint64 `json:"schedule_id"`
	Role       string `json:"role"`
}

func toDriverView(m model.Driver) driverView {
	return driverView{
		ID: m.ID, CompanyID: m.CompanyID, FullName: m.FullName,
		Phone: m.Phone, LicenseNumber: m.LicenseNumber, Active: m.Active,
	}
}

func (h *DriverHandler) Create(c echo.Context) error {
	var req driverReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.CompanyID == 0 || req.FullName == "" {
		return badRequest(c, "company_id and full_name required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Companies.GetByID(ctx, req.CompanyID); err != nil {
		return writeErr(c, err)
	}
	m := model.Driver{
		CompanyID: req.CompanyID, FullName: req.FullName,
		Phone: req.Phone, LicenseNumber: req.LicenseNumber,
	}
	if _, err := h.Drivers.Create(ctx, &m); err != nil {
		return writeErr(c, err)
	}
	m.Active = true
	return c.JSON(http.StatusCreated, toDriverView(m))
}

func (h *DriverHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Drivers.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toDriverView(m))
}

// ListByCompany returns a company's active drivers.
func (h *DriverHandler) ListByCompany(c echo.Context) error {
	companyID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Drivers.ListByCompany(ctx, companyID)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]driverView, 0, len(items))
	for _, m := range items {
		views = append(views, toDriverView(m))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *DriverHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req driverReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return badRequest(c, "full_name required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.Driver{ID: id, FullName: req.FullName, Phone: req.Phone, LicenseNumber: req.LicenseNumber}
	if err := h.Drivers.Update(ctx, &m); err != nil {
		return writeErr(c, err)
	}
	got, err := h.Drivers.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toDriverView(got))
}

func (h *DriverHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Drivers.Deactivate(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deactivated"})
}

type assignReq struct {
	DriverID   uint64 `json:"driver_id"`
	ScheduleID uint64 `json:"schedule_id"`
	Role       string `json:"role"`
}

// Assign puts a driver on a schedule. A driver can hold at most one
// assignment per schedule; a second attempt answers 409.
func (h *DriverHandler) Assign(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.DriverID == 0 || req.ScheduleID == 0 {
		return badRequest(c, "driver_id and schedule_id required")
	}
	if req.Role == "" {
		req.Role = model.AssignmentDriver
	}
	if req.Role != model.AssignmentDriver && req.Role != model.AssignmentAssistant {
		return badRequest(c, "role must be driver or assistant")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Drivers.GetByID(ctx, req.DriverID); err != nil {
		return writeErr(c, err)
	}
	if _, err := h.Schedules.GetByID(ctx, req.ScheduleID); err != nil {
		return writeErr(c, err)
	}

	a := model.DriverAssignment{DriverID: req.DriverID, ScheduleID: req.ScheduleID, Role: req.Role}
	if _, err := h.Drivers.Assign(ctx, &a); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "driver already assigned to this schedule"})
		}
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, assignmentView{ID: a.ID, DriverID: a.DriverID, ScheduleID: a.ScheduleID, Role: a.Role})
}

// ListAssignments returns the crew of one schedule.
func (h *DriverHandler) ListAssignments(c echo.Context) error {
	scheduleID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Drivers.ListAssignmentsBySchedule(ctx, scheduleID)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]assignmentView, 0, len(items))
	for _, a := range items {
		views = append(views, assignmentView{ID: a.ID, DriverID: a.DriverID, ScheduleID: a.ScheduleID, Role: a.Role})
	}
	return c.JSON(http.StatusOK, views)
}

func (h *DriverHandler) Unassign(c echo.Context) error {
	id, err := pathID(c, "assignment_id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Drivers.Unassign(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "unassigned"})
}
