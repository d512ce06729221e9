package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// ReviewHandler serves passenger ratings on companies and trips.
type ReviewHandler struct {
	Reviews   *repository.ReviewRepo
	Companies *repository.CompanyRepo
	Schedules *repository.ScheduleRepo
}

func NewReviewHandler(r *repository.ReviewRepo, co *repository.CompanyRepo, sc *repository.ScheduleRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Companies: co, Schedules: sc}
}

type reviewReq struct {
	CompanyID  *uint64 `json:"company_id"`
	ScheduleID *uint64 `json:"schedule_id"`
	Rating     uint8   `json:"rating"`
	Comment    *string `json:"comment"`
}

type reviewView struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	CompanyID  *uint64   `json:"company_id"`
	ScheduleID *uint64   `json:"schedule_id"`
	Rating     uint8     `json:"rating"`
	Comment    *string   `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func toReviewView(m model.Review) reviewView {
	return reviewView{
		ID: m.ID, UserID: m.UserID, CompanyID: m.CompanyID, ScheduleID: m.ScheduleID,
		Rating: m.Rating, Comment: m.Comment, CreatedAt: m.CreatedDate,
	}
}

// Create posts a review. At least one target (company or schedule) is
// required and the rating must be 1..5.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return badRequest(c, "rating must be between 1 and 5")
	}
	if req.CompanyID == nil && req.ScheduleID == nil {
		return badRequest(c, "company_id or schedule_id required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if req.CompanyID != nil {
		if _, err := h.Companies.GetByID(ctx, *req.CompanyID); err != nil {
			return writeErr(c, err)
		}
	}
	if req.ScheduleID != nil {
		if _, err := h.Schedules.GetByID(ctx, *req.ScheduleID); err != nil {
			return writeErr(c, err)
		}
	}

	m := model.Review{
		UserID: uid, CompanyID: req.CompanyID, ScheduleID: req.ScheduleID,
		Rating: req.Rating, Comment: req.Comment,
	}
	if _, err := h.Reviews.Create(ctx, &m); err != nil {
		return writeErr(c, err)
	}
	m.CreatedDate = time.Now()
	return c.JSON(http.StatusCreated, toReviewView(m))
}

// ListByCompany returns a company's reviews, newest first.
func (h *ReviewHandler) ListByCompany(c echo.Context) error {
	companyID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Reviews.ListByCompany(ctx, companyID)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]reviewView, 0, len(items))
	for _, m := range items {
		views = append(views, toReviewView(m))
	}
	return c.JSON(http.StatusOK, views)
}

// ListBySchedule returns the reviews of one trip.
func (h *ReviewHandler) ListBySchedule(c echo.Context) error {
	scheduleID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Reviews.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]reviewView, 0, len(items))
	for _, m := range items {
		views = append(views, toReviewView(m))
	}
	return c.JSON(http.StatusOK, views)
}

// Delete hides a review. Admin only; moderation rather than author
// retraction.
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reviews.Deactivate(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed"})
}
