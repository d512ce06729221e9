package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// CompanyHandler serves the bus-operator catalog.
type CompanyHandler struct {
	Companies *repository.CompanyRepo
}

func NewCompanyHandler(r *repository.CompanyRepo) *CompanyHandler {
	return &CompanyHandler{Companies: r}
}

type companyReq struct {
	Name        string  `json:"name"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type companyView struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Active      bool    `json:"active"`
}

func toCompanyView(m model.Company) companyView {
	return companyView{
		ID: m.ID, Name: m.Name, Address: m.Address, Phone: m.Phone,
		Email: m.Email, Description: m.Description, Image: m.Image, Active: m.Active,
	}
}

func (h *CompanyHandler) Create(c echo.Context) error {
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest(c, "name required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.Company{
		Name: req.Name, Address: req.Address, Phone: req.Phone,
		Email: req.Email, Description: req.Description, Image: req.Image,
	}
	id, err := h.Companies.Create(ctx, &m)
	if err != nil {
		return writeErr(c, err)
	}
	m.ID = id
	m.Active = true
	return c.JSON(http.StatusCreated, toCompanyView(m))
}

func (h *CompanyHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Companies.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toCompanyView(m))
}

func (h *CompanyHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Companies.ListActive(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]companyView, 0, len(items))
	for _, m := range items {
		views = append(views, toCompanyView(m))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *CompanyHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest(c, "name required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.Company{
		ID: id, Name: req.Name, Address: req.Address, Phone: req.Phone,
		Email: req.Email, Description: req.Description, Image: req.Image,
	}
	if err := h.Companies.Update(ctx, &m); err != nil {
		return writeErr(c, err)
	}
	got, err := h.Companies.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toCompanyView(got))
}

// Delete soft-deactivates the company. A hard delete would cascade to
// buses and drivers, so the API only flips the active flag.
func (h *CompanyHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Companies.Deactivate(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deactivated"})
}
