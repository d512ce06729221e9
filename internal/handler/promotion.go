package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// PromotionHandler manages discount codes and answers redemption
// previews. The authoritative redemption happens inside the booking
// transaction; Redeem here only quotes the discount.
type PromotionHandler struct {
	Promotions *repository.PromotionRepo
}

func NewPromotionHandler(p *repository.PromotionRepo) *PromotionHandler {
	return &PromotionHandler{Promotions: p}
}

type promotionReq struct {
	Code          string    `json:"code"`
	Description   *string   `json:"description"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue float64   `json:"discount_value"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	MinAmount     float64   `json:"min_amount"`
	UsageLimit    *int32    `json:"usage_limit"`
}

type promotionView struct {
	ID            uint64    `json:"id"`
	Code          string    `json:"code"`
	Description   *string   `json:"description"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue float64   `json:"discount_value"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	MinAmount     float64   `json:"min_amount"`
	UsageLimit    *int32    `json:"usage_limit"`
	Active        bool      `json:"active"`
}

func toPromotionView(m model.Promotion) promotionView {
	return promotionView{
		ID: m.ID, Code: m.Code, Description: m.Description,
		DiscountType: m.DiscountType, DiscountValue: m.DiscountValue,
		StartDate: m.StartDate, EndDate: m.EndDate,
		MinAmount: m.MinAmount, UsageLimit: m.UsageLimit, Active: m.Active,
	}
}

func validatePromotion(req *promotionReq) string {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	switch {
	case req.Code == "":
		return "code required"
	case req.DiscountType != model.DiscountPercent && req.DiscountType != model.DiscountAmount:
		return "discount_type must be percent or amount"
	case req.DiscountValue <= 0:
		return "discount_value must be positive"
	case req.DiscountType == model.DiscountPercent && req.DiscountValue > 100:
		return "percent discount cannot exceed 100"
	case !req.EndDate.After(req.StartDate):
		return "end_date must be after start_date"
	case req.MinAmount < 0:
		return "min_amount must not be negative"
	case req.UsageLimit != nil && *req.UsageLimit < 1:
		return "usage_limit must be positive"
	}
	return ""
}

func (h *PromotionHandler) Create(c echo.Context) error {
	var req promotionReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := validatePromotion(&req); msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.Promotion{
		Code: req.Code, Description: req.Description,
		DiscountType: req.DiscountType, DiscountValue: req.DiscountValue,
		StartDate: req.StartDate, EndDate: req.EndDate,
		MinAmount: req.MinAmount, UsageLimit: req.UsageLimit,
	}
	if _, err := h.Promotions.Create(ctx, &m); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "code already exists"})
		}
		return writeErr(c, err)
	}
	m.Active = true
	return c.JSON(http.StatusCreated, toPromotionView(m))
}

// List returns promotions currently inside their validity window.
func (h *PromotionHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Promotions.ListActive(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	views := make([]promotionView, 0, len(items))
	for _, m := range items {
		views = append(views, toPromotionView(m))
	}
	return c.JSON(http.StatusOK, views)
}

func (h *PromotionHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req promotionReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := validatePromotion(&req); msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.Promotion{
		ID: id, Code: req.Code, Description: req.Description,
		DiscountType: req.DiscountType, DiscountValue: req.DiscountValue,
		StartDate: req.StartDate, EndDate: req.EndDate,
		MinAmount: req.MinAmount, UsageLimit: req.UsageLimit,
	}
	if err := h.Promotions.Update(ctx, &m); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "code already exists"})
		}
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toPromotionView(m))
}

func (h *PromotionHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Promotions.Deactivate(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deactivated"})
}

type redeemReq struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

// Redeem quotes the discount a code grants on a given amount without
// consuming a usage. Validity window, minimum and usage limit are all
// checked so the quote matches what the booking flow will apply.
func (h *PromotionHandler) Redeem(c echo.Context) error {
	var req redeemReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Code == "" || req.Amount <= 0 {
		return badRequest(c, "code and positive amount required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Promotions.GetByCode(ctx, req.Code)
	if err != nil {
		if err == repository.ErrNotFound {
			return badRequest(c, "unknown promotion code")
		}
		return writeErr(c, err)
	}
	now := time.Now()
	if now.Before(p.StartDate) || now.After(p.EndDate) {
		return badRequest(c, "promotion is not currently valid")
	}
	if req.Amount < p.MinAmount {
		return badRequest(c, "amount does not meet the promotion minimum")
	}
	if p.UsageLimit != nil {
		used, err := h.Promotions.CountUsages(ctx, p.ID)
		if err != nil {
			return writeErr(c, err)
		}
		if used >= int(*p.UsageLimit) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "promotion usage limit reached"})
		}
	}

	discount := p.Discount(req.Amount)
	return c.JSON(http.StatusOK, echo.Map{
		"code":     p.Code,
		"amount":   req.Amount,
		"discount": discount,
		"payable":  req.Amount - discount,
	})
}
