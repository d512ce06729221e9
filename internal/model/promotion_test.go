package model

import "testing"

func TestPromotionDiscount(t *testing.T) {
	cases := []struct {
		name   string
		promo  Promotion
		amount float64
		want   float64
	}{
		{"percent", Promotion{DiscountType: DiscountPercent, DiscountValue: 10}, 200, 20},
		{"fixed amount", Promotion{DiscountType: DiscountAmount, DiscountValue: 50}, 200, 50},
		{"fixed clamped to amount", Promotion{DiscountType: DiscountAmount, DiscountValue: 500}, 200, 200},
		{"full percent", Promotion{DiscountType: DiscountPercent, DiscountValue: 100}, 80, 80},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.promo.Discount(tc.amount); got != tc.want {
				t.Fatalf("Discount(%v) = %v, want %v", tc.amount, got, tc.want)
			}
		})
	}
}

func TestRoleStringAndValid(t *testing.T) {
	if RoleAdmin.String() != "admin" || RoleAgent.String() != "agent" {
		t.Fatal("role labels drifted from their variants")
	}
	if Role(9).Valid() {
		t.Fatal("out-of-range role reported valid")
	}
	if Role(9).String() != "unknown" {
		t.Fatal("out-of-range role should render as unknown")
	}
}
