package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// GPSHandler ingests position samples and serves the track and latest
// position of a bus.
type GPSHandler struct {
	GPS   *repository.GPSRepo
	Buses *repository.BusRepo
}

func NewGPSHandler(g *repository.GPSRepo, b *repository.BusRepo) *GPSHandler {
	return &GPSHandler{GPS: g, Buses: b}
}

type gpsReq struct {
	BusID      uint64     `json:"bus_id"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	RecordedAt *time.Time `json:"recorded_at"`
}

type gpsView struct {
	ID         uint64    `json:"id"`
	BusID      uint64    `json:"bus_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

func toGPSView(m model.GPSPoint) gpsView {
	return gpsView{ID: m.ID, BusID: m.BusID, Latitude: m.Latitude, Longitude: m.Longitude, RecordedAt: m.RecordedAt}
}

// Ingest appends one position sample. recorded_at defaults to now when
// the device does not timestamp its fix.
func (h *GPSHandler) Ingest(c echo.Context) error {
	var req gpsReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.BusID == 0 {
		return badRequest(c, "bus_id required")
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return badRequest(c, "coordinates out of range")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Buses.GetByID(ctx, req.BusID); err != nil {
		return writeErr(c, err)
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != nil {
		recordedAt = req.RecordedAt.UTC()
	}
	p := model.GPSPoint{BusID: req.BusID, Latitude: req.Latitude, Longitude: req.Longitude, RecordedAt: recordedAt}
	if _, err := h.GPS.Append(ctx, &p); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toGPSView(p))
}

// Track returns recent positions of one bus, newest first. ?since
// (RFC3339) and ?limit narrow the window.
func (h *GPSHandler) Track(c echo.Context) error {
	busID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	since := time.Now().Add(-24 * time.Hour)
	if raw := c.QueryParam("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "since must be RFC3339")
		}
		since = t
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 1000 {
		limit = 200
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	points, err := h.GPS.ListByBus(ctx, busID, since, limit)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]gpsView, 0, len(points))
	for _, p := range points {
		views = append(views, toGPSView(p))
	}
	return c.JSON(http.StatusOK, views)
}

// Latest returns the most recent position of one bus.
func (h *GPSHandler) Latest(c echo.Context) error {
	busID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.GPS.Latest(ctx, busID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toGPSView(p))
}
