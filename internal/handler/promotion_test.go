package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/minhvt/bus-ticketing/internal/model"
	"github.com/minhvt/bus-ticketing/internal/repository"
)

// limit < 0 means unlimited (NULL usage_limit).
func activePromoRow(code string, discountType string, value float64, limit int64) *sqlmock.Rows {
	now := time.Now()
	var usageLimit any
	if limit >= 0 {
		usageLimit = limit
	}
	return promotionRows().AddRow(4, code, nil, discountType, value,
		now.Add(-time.Hour), now.Add(time.Hour), 100.0, usageLimit,
		true, sampleTime(), sampleTime())
}

func TestRedeemQuotesPercentDiscount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM promotions WHERE code").
		WithArgs("SUMMER10").
		WillReturnRows(activePromoRow("SUMMER10", model.DiscountPercent, 10, -1))

	h := NewPromotionHandler(repository.NewPromotionRepo(db))
	c, rec := newTestCtx(t, http.MethodPost, "/v1/promotions/redeem",
		`{"code":"summer10","amount":200}`, 7, model.RolePassenger)

	if err := h.Redeem(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Discount float64 `json:"discount"`
		Payable  float64 `json:"payable"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if out.Discount != 20 || out.Payable != 180 {
		t.Fatalf("quote wrong: discount %v payable %v", out.Discount, out.Payable)
	}
}

func TestRedeemBelowMinimum(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM promotions WHERE code").
		WithArgs("SUMMER10").
		WillReturnRows(activePromoRow("SUMMER10", model.DiscountPercent, 10, -1))

	h := NewPromotionHandler(repository.NewPromotionRepo(db))
	c, rec := newTestCtx(t, http.MethodPost, "/v1/promotions/redeem",
		`{"code":"SUMMER10","amount":50}`, 7, model.RolePassenger)

	if err := h.Redeem(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRedeemExhaustedLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM promotions WHERE code").
		WithArgs("SUMMER10").
		WillReturnRows(activePromoRow("SUMMER10", model.DiscountAmount, 25, 3))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM promotion_usages").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	h := NewPromotionHandler(repository.NewPromotionRepo(db))
	c, rec := newTestCtx(t, http.MethodPost, "/v1/promotions/redeem",
		`{"code":"SUMMER10","amount":200}`, 7, model.RolePassenger)

	if err := h.Redeem(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestCreatePromotionValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	h := NewPromotionHandler(repository.NewPromotionRepo(db))

	cases := []struct {
		name string
		body string
	}{
		{"missing code", `{"discount_type":"percent","discount_value":10,"start_date":"2026-01-01T00:00:00Z","end_date":"2026-02-01T00:00:00Z"}`},
		{"percent over 100", `{"code":"X","discount_type":"percent","discount_value":150,"start_date":"2026-01-01T00:00:00Z","end_date":"2026-02-01T00:00:00Z"}`},
		{"window inverted", `{"code":"X","discount_type":"amount","discount_value":10,"start_date":"2026-02-01T00:00:00Z","end_date":"2026-01-01T00:00:00Z"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestCtx(t, http.MethodPost, "/v1/promotions", tc.body, 1, model.RoleAdmin)
			if err := h.Create(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}
