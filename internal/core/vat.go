package core

// DefaultVatRatePercent is the VAT rate used for display computations.
var DefaultVatRatePercent = MoneyFromCents(1700) // 17%

var hundred = MoneyFromCents(10000)
var one = MoneyFromCents(100)

// VatAmount computes the display-only VAT portion of an entry's gross
// amount. Nothing is stored: the figure exists for dashboards and exports.
//
//	taxable:       gross * rate
//	tax-inclusive: gross * rate / (1 + rate)
//	zero-rated:    0
func VatAmount(e IncomeEntry, ratePercent Money) Money {
	rate := ratePercent.Div(hundred)
	switch e.VatType {
	case VatTaxable:
		return e.AmountGross.Mul(rate)
	case VatInclusive:
		return e.AmountGross.Mul(rate).Div(one.Add(rate))
	default:
		return Zero
	}
}

// TotalVat sums the display VAT over a list of entries, rounding at each
// step like all money arithmetic.
func TotalVat(entries []IncomeEntry, ratePercent Money) Money {
	total := Zero
	for _, e := range entries {
		total = total.Add(VatAmount(e, ratePercent))
	}
	return total
}
