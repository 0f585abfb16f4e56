package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/apperror"
	"orderflow/internal/core/types"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		qty      string
		price    string
		discount string
		tax      string
		want     string
	}{
		{"discount and tax compound", "2", "100", "10", "5", "189"},
		{"no discount no tax", "3", "50", "0", "0", "150"},
		{"tax only", "1", "200", "0", "7", "214"},
		{"discount only", "4", "25", "25", "0", "75"},
		{"fractional qty rounds", "1.5", "33.33", "0", "0", "50"},
		{"full discount", "10", "99.99", "100", "18", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LineTotal(d(tt.qty), d(tt.price), d(tt.discount), d(tt.tax))
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestLineTotal_RejectsOutOfRangePercents(t *testing.T) {
	_, err := LineTotal(d("1"), d("100"), d("101"), d("0"))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = LineTotal(d("1"), d("100"), d("0"), d("-1"))
	require.Error(t, err)

	_, err = LineSubtotal(d("1"), d("100"), d("150"))
	require.Error(t, err)
}

func TestLineSubtotal_IgnoresTax(t *testing.T) {
	got, err := LineSubtotal(d("2"), d("100"), d("10"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("180")), "got %s", got)
}

func TestQuoteTotal(t *testing.T) {
	// Two lines of qty 2 x 100 at 10% discount, 5% tax each: 189.00 each.
	line, err := LineTotal(d("2"), d("100"), d("10"), d("5"))
	require.NoError(t, err)
	assert.True(t, line.Equal(d("189")))

	subtotalLines := []types.Money{line, line}

	// Global discount 10%, shipping 20:
	// 378.00 - 37.80 + 20 = 360.20. No tax term on the grand total.
	got, err := QuoteTotal(subtotalLines, d("10"), d("20"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("360.20")), "got %s", got)
}

func TestQuoteTotal_NoAdjustments(t *testing.T) {
	got, err := QuoteTotal([]types.Money{d("100"), d("50.55")}, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("150.55")))
}

func TestSummarize(t *testing.T) {
	lines := []Line{
		{Total: d("100"), TaxPct: d("10")}, // tax 10.00
		{Total: d("200"), TaxPct: d("5")},  // tax 10.00
	}
	sum, err := Summarize(lines, SummaryInput{
		GlobalDiscountPct: d("10"),
		Shipping:          d("15"),
		Rounding:          d("0.05"),
		CreditApplied:     d("20"),
		AmountPaid:        d("100"),
	})
	require.NoError(t, err)

	assert.True(t, sum.Subtotal.Equal(d("300")))
	assert.True(t, sum.DiscountAmount.Equal(d("30")))
	assert.True(t, sum.TaxAmount.Equal(d("20")))
	// 300 - 30 + 20 + 15 + 0.05 - 20 = 285.05
	assert.True(t, sum.GrandTotal.Equal(d("285.05")), "got %s", sum.GrandTotal)
	assert.True(t, sum.BalanceDue.Equal(d("185.05")), "got %s", sum.BalanceDue)
}

func TestSummarize_EmptyLines(t *testing.T) {
	sum, err := Summarize(nil, SummaryInput{})
	require.NoError(t, err)
	assert.True(t, sum.GrandTotal.IsZero())
	assert.True(t, sum.BalanceDue.IsZero())
}

func TestSummarize_RejectsBadGlobalDiscount(t *testing.T) {
	_, err := Summarize(nil, SummaryInput{GlobalDiscountPct: d("200")})
	require.Error(t, err)
}

func TestSummarizeReturn(t *testing.T) {
	sum, err := SummarizeReturn([]types.Money{d("120"), d("80")}, d("10"), d("-0.50"))
	require.NoError(t, err)
	assert.True(t, sum.Subtotal.Equal(d("200")))
	assert.True(t, sum.DiscountAmount.Equal(d("20")))
	// 200 - 20 - 0.50 = 179.50
	assert.True(t, sum.AmountToRefund.Equal(d("179.50")), "got %s", sum.AmountToRefund)
}
