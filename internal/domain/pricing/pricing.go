// Package pricing computes line-item totals and document roll-ups.
// All amounts are rounded to 2 decimal places at computation boundaries.
package pricing

import (
	"orderflow/internal/core/apperror"
	"orderflow/internal/core/types"

	"github.com/shopspring/decimal"
)

// ValidatePercent rejects discount/tax values outside [0, 100].
func ValidatePercent(field string, v types.Percent) error {
	if !types.IsValidPercent(v) {
		return apperror.NewValidation("must be between 0 and 100").WithDetail("field", field)
	}
	return nil
}

// LineTotal computes a single line amount with discount and tax.
// Tax compounds on the discounted amount:
// qty * price * (1 - d/100) * (1 + t/100), rounded to 2 places.
func LineTotal(qty decimal.Decimal, unitPrice types.Money, discountPct, taxPct types.Percent) (types.Money, error) {
	if err := ValidatePercent("discount", discountPct); err != nil {
		return decimal.Zero, err
	}
	if err := ValidatePercent("tax", taxPct); err != nil {
		return decimal.Zero, err
	}

	discountFactor := decimal.NewFromInt(1).Sub(discountPct.Div(types.Hundred))
	taxFactor := decimal.NewFromInt(1).Add(taxPct.Div(types.Hundred))
	total := qty.Mul(unitPrice).Mul(discountFactor).Mul(taxFactor)
	return types.Round2(total), nil
}

// LineSubtotal computes a line amount with discount only.
// Sales order lines carry no tax.
func LineSubtotal(qty decimal.Decimal, unitPrice types.Money, discountPct types.Percent) (types.Money, error) {
	if err := ValidatePercent("discount", discountPct); err != nil {
		return decimal.Zero, err
	}
	discountFactor := decimal.NewFromInt(1).Sub(discountPct.Div(types.Hundred))
	return types.Round2(qty.Mul(unitPrice).Mul(discountFactor)), nil
}

// Line is the per-row input for document roll-ups.
type Line struct {
	Total  types.Money
	TaxPct types.Percent
}

// QuoteTotal computes the quotation grand total. The global discount
// applies to the item subtotal; shipping is added after. No tax term.
func QuoteTotal(itemTotals []types.Money, globalDiscountPct types.Percent, shipping types.Money) (types.Money, error) {
	if err := ValidatePercent("global_discount", globalDiscountPct); err != nil {
		return decimal.Zero, err
	}
	subtotal := decimal.Zero
	for _, t := range itemTotals {
		subtotal = subtotal.Add(t)
	}
	discount := subtotal.Mul(globalDiscountPct).Div(types.Hundred)
	return types.Round2(subtotal.Sub(discount).Add(shipping)), nil
}

// SummaryInput carries document-level adjustments for Summarize.
type SummaryInput struct {
	GlobalDiscountPct types.Percent
	Shipping          types.Money
	Rounding          types.Money
	CreditApplied     types.Money
	AmountPaid        types.Money
}

// Summary is the roll-up for invoices and credit notes.
type Summary struct {
	Subtotal       types.Money `json:"subtotal"`
	DiscountAmount types.Money `json:"discountAmount"`
	TaxAmount      types.Money `json:"taxAmount"`
	GrandTotal     types.Money `json:"grandTotal"`
	BalanceDue     types.Money `json:"balanceDue"`
}

// Summarize recomputes the document summary from the live line set.
// Per-line tax is applied on the stored line total, so tax compounds on
// already-discounted amounts.
func Summarize(lines []Line, in SummaryInput) (Summary, error) {
	if err := ValidatePercent("global_discount", in.GlobalDiscountPct); err != nil {
		return Summary{}, err
	}

	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, l := range lines {
		if err := ValidatePercent("tax", l.TaxPct); err != nil {
			return Summary{}, err
		}
		subtotal = subtotal.Add(l.Total)
		taxTotal = taxTotal.Add(l.TaxPct.Mul(l.Total).Div(types.Hundred))
	}

	discount := subtotal.Mul(in.GlobalDiscountPct).Div(types.Hundred)
	grand := subtotal.
		Sub(discount).
		Add(taxTotal).
		Add(in.Shipping).
		Add(in.Rounding).
		Sub(in.CreditApplied)

	s := Summary{
		Subtotal:       types.Round2(subtotal),
		DiscountAmount: types.Round2(discount),
		TaxAmount:      types.Round2(taxTotal),
		GrandTotal:     types.Round2(grand),
	}
	s.BalanceDue = s.GrandTotal.Sub(types.Round2(in.AmountPaid))
	return s, nil
}

// ReturnSummary is the roll-up for return documents.
type ReturnSummary struct {
	Subtotal       types.Money `json:"subtotal"`
	DiscountAmount types.Money `json:"discountAmount"`
	AmountToRefund types.Money `json:"amountToRefund"`
}

// SummarizeReturn recomputes the refund roll-up for return documents.
func SummarizeReturn(itemTotals []types.Money, globalDiscountPct types.Percent, rounding types.Money) (ReturnSummary, error) {
	if err := ValidatePercent("global_discount", globalDiscountPct); err != nil {
		return ReturnSummary{}, err
	}
	subtotal := decimal.Zero
	for _, t := range itemTotals {
		subtotal = subtotal.Add(t)
	}
	discount := subtotal.Mul(globalDiscountPct).Div(types.Hundred)
	return ReturnSummary{
		Subtotal:       types.Round2(subtotal),
		DiscountAmount: types.Round2(discount),
		AmountToRefund: types.Round2(subtotal.Sub(discount).Add(rounding)),
	}, nil
}
