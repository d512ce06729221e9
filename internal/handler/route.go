package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// RouteHandler serves routes and their ordered stops.
type RouteHandler struct {
	Routes *repository.RouteRepo
}

func NewRouteHandler(r *repository.RouteRepo) *RouteHandler {
	return &RouteHandler{Routes: r}
}

type routeReq struct {
	StartLocation        string   `json:"start_location"`
	EndLocation          string   `json:"end_location"`
	DistanceKM           *float64 `json:"distance_km"`
	EstimatedTimeMinutes *int32   `json:"estimated_time_minutes"`
}

type routeView struct {
	ID                   uint64   `json:"id"`
	StartLocation        string   `json:"start_location"`
	EndLocation          string   `json:"end_location"`
	DistanceKM           *float64 `json:"distance_km"`
	EstimatedTimeMinutes *int32   `json:"estimated_time_minutes"`
	Active               bool     `json:"active"`
}

type stopView struct {
	ID           uint64  `json:"id"`
	RouteID      *uint64 `json:"route_id"`
	Name         string  `json:"name"`
	Address      *string `json:"address"`
	OrderInRoute *uint16 `json:"order_in_route"`
}

func toRouteView(m model.Route) routeView {
	return routeView{
		ID: m.ID, StartLocation: m.StartLocation, EndLocation: m.EndLocation,
		DistanceKM: m.DistanceKM, EstimatedTimeMinutes: m.EstimatedTimeMinutes, Active: m.Active,
	}
}

func toStopView(m model.Stop) stopView {
	return stopView{
		ID: m.ID, RouteID: m.RouteID, Name: m.Name,
		Address: m.Address, OrderInRoute: m.OrderInRoute,
	}
}

func (h *RouteHandler) validate(req *routeReq) string {
	req.StartLocation = strings.TrimSpace(req.StartLocation)
	req.EndLocation = strings.TrimSpace(req.EndLocation)
	switch {
	case req.StartLocation == "" || req.EndLocation == "":
		return "start_location and end_location required"
	case strings.EqualFold(req.StartLocation, req.EndLocation):
		return "start and end must differ"
	case req.DistanceKM != nil && *req.DistanceKM <= 0:
		return "distance_km must be positive"
	case req.EstimatedTimeMinutes != nil && *req.EstimatedTimeMinutes <= 0:
		return "estimated_time_minutes must be positive"
	}
	return ""
}

func (h *RouteHandler) Create(c echo.Context) error {
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := h.validate(&req); msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.Route{
		StartLocation: req.StartLocation, EndLocation: req.EndLocation,
		DistanceKM: req.DistanceKM, EstimatedTimeMinutes: req.EstimatedTimeMinutes,
	}
	id, err := h.Routes.Create(ctx, &m)
	if err != nil {
		return writeErr(c, err)
	}
	m.ID = id
	m.Active = true
	return c.JSON(http.StatusCreated, toRouteView(m))
}

func (h *RouteHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Routes.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toRouteView(m))
}

func (h *RouteHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Routes.ListActive(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]routeView, 0, len(items))
	for _, m := range items {
		views = append(views, toRouteView(m))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *RouteHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := h.validate(&req); msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.Route{
		ID: id, StartLocation: req.StartLocation, EndLocation: req.EndLocation,
		DistanceKM: req.DistanceKM, EstimatedTimeMinutes: req.EstimatedTimeMinutes,
	}
	if err := h.Routes.Update(ctx, &m); err != nil {
		return writeErr(c, err)
	}
	got, err := h.Routes.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toRouteView(got))
}

// Delete removes the route. Blocked with 409 while schedules reference
// it; stops survive with route_id nulled.
func (h *RouteHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Routes.Delete(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

type stopReq struct {
	Name         string  `json:"name"`
	Address      *string `json:"address"`
	OrderInRoute *uint16 `json:"order_in_route"`
}

// CreateStop adds a waypoint to a route.
func (h *RouteHandler) CreateStop(c echo.Context) error {
	routeID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req stopReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest(c, "name required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Routes.GetByID(ctx, routeID); err != nil {
		return writeErr(c, err)
	}
	s := model.Stop{RouteID: &routeID, Name: req.Name, Address: req.Address, OrderInRoute: req.OrderInRoute}
	if _, err := h.Routes.CreateStop(ctx, &s); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toStopView(s))
}

// ListStops returns the route's stops in travel order.
func (h *RouteHandler) ListStops(c echo.Context) error {
	routeID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	stops, err := h.Routes.ListStops(ctx, routeID)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]stopView, 0, len(stops))
	for _, s := range stops {
		views = append(views, toStopView(s))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *RouteHandler) UpdateStop(c echo.Context) error {
	stopID, err := pathID(c, "stop_id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req stopReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest(c, "name required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := model.Stop{ID: stopID, Name: req.Name, Address: req.Address, OrderInRoute: req.OrderInRoute}
	if err := h.Routes.UpdateStop(ctx, &s); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toStopView(s))
}

func (h *RouteHandler) DeleteStop(c echo.Context) error {
	stopID, err := pathID(c, "stop_id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Routes.DeleteStop(ctx, stopID); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
