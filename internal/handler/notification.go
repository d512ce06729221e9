package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// NotificationHandler serves the per-user inbox. Rows arrive from
// admin sends and from the booking-confirmed queue consumer.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(n *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{Notifications: n}
}

type notificationView struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Body      *string   `json:"body"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationView(m model.Notification) notificationView {
	return notificationView{ID: m.ID, Title: m.Title, Body: m.Body, IsRead: m.IsRead, CreatedAt: m.CreatedDate}
}

type sendNotificationReq struct {
	UserID uint64  `json:"user_id"`
	Title  string  `json:"title"`
	Body   *string `json:"body"`
}

// Send creates a notification for one user. Admin only.
func (h *NotificationHandler) Send(c echo.Context) error {
	var req sendNotificationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.UserID == 0 || req.Title == "" {
		return badRequest(c, "user_id and title required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.Notification{UserID: req.UserID, Title: req.Title, Body: req.Body}
	if _, err := h.Notifications.Create(ctx, &m); err != nil {
		return writeErr(c, err)
	}
	m.CreatedDate = time.Now()
	return c.JSON(http.StatusCreated, toNotificationView(m))
}

// Mine lists the caller's notifications, newest first.
func (h *NotificationHandler) Mine(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Notifications.ListByUser(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]notificationView, 0, len(items))
	for _, m := range items {
		views = append(views, toNotificationView(m))
	}
	return c.JSON(http.StatusOK, views)
}

// MarkRead flags one of the caller's notifications as read. The update
// is scoped to the owner, so someone else's notification answers 404.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, id, uid); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_read": true})
}
