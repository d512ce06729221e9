package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// AgentHandler manages ticket agents and their commission ledger.
type AgentHandler struct {
	Agents       *repository.AgentRepo
	Users        *repository.UserRepo
	Companies    *repository.CompanyRepo
	Reservations *repository.ReservationRepo
}

func NewAgentHandler(a *repository.AgentRepo, u *repository.UserRepo, co *repository.CompanyRepo, rv *repository.ReservationRepo) *AgentHandler {
	return &AgentHandler{Agents: a, Users: u, Companies: co, Reservations: rv}
}

type agentReq struct {
	UserID    uint64  `json:"user_id"`
	CompanyID *uint64 `json:"company_id"`
	Name      string  `json:"name"`
}

type agentView struct {
	ID        uint64  `json:"id"`
	UserID    uint64  `json:"user_id"`
	CompanyID *uint64 `json:"company_id"`
	Name      string  `json:"name"`
	Active    bool    `json:"active"`
}

type saleView struct {
	ID            uint64  `json:"id"`
	AgentID       uint64  `json:"agent_id"`
	ReservationID uint64  `json:"reservation_id"`
	Commission    float64 `json:"commission"`
}

func toAgentView(m model.Agent) agentView {
	return agentView{ID: m.ID, UserID: m.UserID, CompanyID: m.CompanyID, Name: m.Name, Active: m.Active}
}

// Create registers an agent profile for an existing user account.
// Admin only.
func (h *AgentHandler) Create(c echo.Context) error {
	var req agentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.UserID == 0 || req.Name == "" {
		return badRequest(c, "user_id and name required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		return writeErr(c, err)
	}
	if u.Role != model.RoleAgent {
		return badRequest(c, "user does not have the agent role")
	}
	if req.CompanyID != nil {
		if _, err := h.Companies.GetByID(ctx, *req.CompanyID); err != nil {
			return writeErr(c, err)
		}
	}

	m := model.Agent{UserID: req.UserID, CompanyID: req.CompanyID, Name: req.Name}
	if _, err := h.Agents.Create(ctx, &m); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already has an agent profile"})
		}
		return writeErr(c, err)
	}
	m.Active = true
	return c.JSON(http.StatusCreated, toAgentView(m))
}

func (h *AgentHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Agents.ListActive(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]agentView, 0, len(items))
	for _, m := range items {
		views = append(views, toAgentView(m))
	}
	return c.JSON(http.StatusOK, views)
}

type saleReq struct {
	AgentID       uint64  `json:"agent_id"`
	ReservationID uint64  `json:"reservation_id"`
	Commission    float64 `json:"commission"`
}

// RecordSale credits an agent with the commission on one reservation.
func (h *AgentHandler) RecordSale(c echo.Context) error {
	var req saleReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.AgentID == 0 || req.ReservationID == 0 {
		return badRequest(c, "agent_id and reservation_id required")
	}
	if req.Commission < 0 {
		return badRequest(c, "commission must not be negative")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Agents.GetByID(ctx, req.AgentID); err != nil {
		return writeErr(c, err)
	}
	if _, err := h.Reservations.GetByID(ctx, req.ReservationID); err != nil {
		return writeErr(c, err)
	}

	s := model.AgentSale{AgentID: req.AgentID, ReservationID: req.ReservationID, Commission: req.Commission}
	if _, err := h.Agents.RecordSale(ctx, &s); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, saleView{ID: s.ID, AgentID: s.AgentID, ReservationID: s.ReservationID, Commission: s.Commission})
}

// Sales lists an agent's sales and the commission total.
func (h *AgentHandler) Sales(c echo.Context) error {
	agentID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Agents.ListSales(ctx, agentID)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]saleView, 0, len(items))
	for _, s := range items {
		views = append(views, saleView{ID: s.ID, AgentID: s.AgentID, ReservationID: s.ReservationID, Commission: s.Commission})
	}
	return c.JSON(http.StatusOK, echo.Map{"sales": views, "total_commission": total})
}
