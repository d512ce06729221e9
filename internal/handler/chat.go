package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// ChatHandler serves direct messages between users over plain HTTP
// polling.
type ChatHandler struct {
	Chats *repository.ChatRepo
	Users *repository.UserRepo
}

func NewChatHandler(ch *repository.ChatRepo, u *repository.UserRepo) *ChatHandler {
	return &ChatHandler{Chats: ch, Users: u}
}

type sendMessageReq struct {
	ReceiverID uint64 `json:"receiver_id"`
	Message    string `json:"message"`
}

type messageView struct {
	ID         uint64    `json:"id"`
	SenderID   uint64    `json:"sender_id"`
	ReceiverID uint64    `json:"receiver_id"`
	Message    string    `json:"message"`
	SentAt     time.Time `json:"sent_at"`
}

func toMessageView(m model.ChatMessage) messageView {
	return messageView{ID: m.ID, SenderID: m.SenderID, ReceiverID: m.ReceiverID, Message: m.Message, SentAt: m.SentAt}
}

// Send delivers a message from the caller to another user.
func (h *ChatHandler) Send(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.ReceiverID == 0 || req.Message == "" {
		return badRequest(c, "receiver_id and message required")
	}
	if req.ReceiverID == uid {
		return badRequest(c, "cannot message yourself")
	}
	if len(req.Message) > 2000 {
		return badRequest(c, "message too long")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.ReceiverID); err != nil {
		return writeErr(c, err)
	}

	m := model.ChatMessage{SenderID: uid, ReceiverID: req.ReceiverID, Message: req.Message, SentAt: time.Now().UTC()}
	if _, err := h.Chats.Send(ctx, &m); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toMessageView(m))
}

// Conversation returns the two-way message history between the caller
// and another user, oldest first within the requested page.
func (h *ChatHandler) Conversation(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	otherID, err := pathID(c, "user_id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	page, pageSize := pageParams(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Chats.Conversation(ctx, uid, otherID, page, pageSize)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]messageView, 0, len(items))
	for _, m := range items {
		views = append(views, toMessageView(m))
	}
	return c.JSON(http.StatusOK, views)
}
