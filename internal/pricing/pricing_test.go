package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountDiscountedPrice(t *testing.T) {
	cases := []struct {
		name     string
		in       DiscountedPriceInput
		expected DiscountedPrice
	}{
		{"plain discount", DiscountedPriceInput{Price: 200, Discount: 15}, DiscountedPrice{DiscountedPrice: 170, FinalDiscount: 15}},
		{"rounds up", DiscountedPriceInput{Price: 199, Discount: 10}, DiscountedPrice{DiscountedPrice: 180, FinalDiscount: 10}},
		{"clamped above", DiscountedPriceInput{Price: 100, Discount: 150}, DiscountedPrice{DiscountedPrice: 0, FinalDiscount: 100}},
		{"clamped below", DiscountedPriceInput{Price: 100, Discount: -10}, DiscountedPrice{DiscountedPrice: 100, FinalDiscount: 0}},
		{"no discount", DiscountedPriceInput{Price: 12345, Discount: 0}, DiscountedPrice{DiscountedPrice: 12345, FinalDiscount: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, CountDiscountedPrice(tc.in))
		})
	}
}

func TestTotalDiscount(t *testing.T) {
	require.Equal(t, 25, TotalDiscount(10, 5, 10))
	require.Equal(t, 100, TotalDiscount(60, 50))
	require.Equal(t, 0, TotalDiscount(-20))
}

func TestDiscountedPercent(t *testing.T) {
	require.Equal(t, 15, DiscountedPercent(200, 170))
	require.Equal(t, 0, DiscountedPercent(170, 200))
	require.Equal(t, 0, DiscountedPercent(0, 100))
	require.Equal(t, 33, DiscountedPercent(300, 200))
}

func TestLineTotal(t *testing.T) {
	require.Equal(t, int64(1500), LineTotal(3, 500))
}
