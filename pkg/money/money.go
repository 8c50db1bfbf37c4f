package money

import "github.com/shopspring/decimal"

// Zero is the zero monetary amount.
var Zero = decimal.Zero

// Round2 rounds an amount to two decimal places using round-half-up.
// All monetary results are rounded at the point of computation so that
// persisted totals are exact, never at display time.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromFloat converts a float64 into a two-decimal monetary amount.
func FromFloat(f float64) decimal.Decimal {
	return Round2(decimal.NewFromFloat(f))
}

// Mul multiplies an amount by an integer quantity, rounded to two decimals.
func Mul(unit decimal.Decimal, qty int) decimal.Decimal {
	return Round2(unit.Mul(decimal.NewFromInt(int64(qty))))
}

// Percent returns pct percent of amount, rounded to two decimals.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(pct).Div(decimal.NewFromInt(100)))
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Sum adds amounts without additional rounding; inputs are expected to
// already be two-decimal values.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
