package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/config"
	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
	"github.com/minhvt/bus-ticketing/internal/utils"
)

// UserHandler serves account signup and profile endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

// userView is the sanitized account projection. Password material never
// appears in any response.
type userView struct {
	ID        uint64  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
	Gender    *string `json:"gender"`
	Role      string  `json:"role"`
	Active    bool    `json:"active"`
}

func toUserView(u model.User) userView {
	v := userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    u.Gender,
		Role:      u.Role.String(),
		Active:    u.Active,
	}
	if u.Avatar != nil && *u.Avatar != "" {
		url := "/media/" + strings.TrimPrefix(*u.Avatar, "/")
		v.AvatarURL = &url
	}
	return v
}

type signupReq struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Gender          *string `json:"gender"`
	Role            *int8   `json:"role"`
}

// Signup creates a passenger account. The role field is honored only
// for passenger and company; admin and agent accounts are provisioned
// by an admin, never self-registered.
func (h *UserHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return badRequest(c, "username, email and password required")
	}
	if len(req.Password) < 6 {
		return badRequest(c, "password too short")
	}
	if req.Password != req.ConfirmPassword {
		return badRequest(c, "passwords do not match")
	}

	role := model.RolePassenger
	if req.Role != nil {
		r := model.Role(*req.Role)
		if r != model.RolePassenger && r != model.RoleCompany {
			return badRequest(c, "invalid role")
		}
		role = r
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u := model.User{
		Username:  req.Username,
		Email:     req.Email,
		Phone:     req.Phone,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Role:      role,
	}
	id, err := h.Users.Create(ctx, &u, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username, email or phone already taken"})
		}
		return writeErr(c, err)
	}
	u.ID = id
	u.Active = true
	return c.JSON(http.StatusCreated, toUserView(u))
}

// Current returns the caller's own profile.
func (h *UserHandler) Current(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toUserView(u))
}

type updateInfoReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Gender    *string `json:"gender"`
	Avatar    *string `json:"avatar"`
}

// UpdateInfo patches the caller's profile. Only the fields present in
// the body change; username, email and role are immutable here.
func (h *UserHandler) UpdateInfo(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	var req updateInfoReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Gender != nil {
		g := strings.ToLower(*req.Gender)
		if g != "male" && g != "female" && g != "other" {
			return badRequest(c, "invalid gender")
		}
		req.Gender = &g
	}
	if req.FirstName == nil && req.LastName == nil && req.Phone == nil && req.Gender == nil && req.Avatar == nil {
		return badRequest(c, "no fields to update")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, req.FirstName, req.LastName, req.Phone, req.Gender, req.Avatar); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone already taken"})
		}
		return writeErr(c, err)
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toUserView(u))
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePassword rotates the caller's password after re-verifying the
// current one. Nothing is written unless every check passes.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	uid, _, ok := caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.NewPassword == "" || len(req.NewPassword) < 6 {
		return badRequest(c, "new password too short")
	}
	if req.NewPassword != req.ConfirmPassword {
		return badRequest(c, "passwords do not match")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password is wrong"})
	}
	if err := h.Users.UpdatePassword(ctx, uid, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// AllUsers lists active accounts, paginated. Admin only.
func (h *UserHandler) AllUsers(c echo.Context) error {
	page, pageSize := pageParams(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, total, err := h.Users.ListActive(ctx, page, pageSize)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return c.JSON(http.StatusOK, pagedResp{Items: views, Total: total, Page: page, PageSize: pageSize})
}

// GetUser returns one account by ID. Owner or admin.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if !isOwnerOrAdmin(c, id) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toUserView(u))
}

// DeactivateUser soft-deletes an account. Owner or admin. The row is
// kept; the account just stops resolving for auth and listings.
func (h *UserHandler) DeactivateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if !isOwnerOrAdmin(c, id) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Deactivate(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deactivated"})
}
