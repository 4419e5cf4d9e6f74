package domain

import "github.com/shopspring/decimal"

// weightScale is the decimal precision weights are stored with.
const weightScale = 4

// Share is one container's portion of a split allocation.
type Share struct {
	Quantity int64
	Weight   decimal.Decimal
}

// SplitEvenly divides quantity and weight across n containers in list
// order. Every share gets the floored even part; the last share absorbs the
// rounding remainder, so the shares always sum exactly to the inputs.
func SplitEvenly(quantity int64, weight decimal.Decimal, n int) []Share {
	if n <= 0 {
		return nil
	}

	per := quantity / int64(n)
	perWeight := weight.Div(decimal.NewFromInt(int64(n))).Truncate(weightScale)

	shares := make([]Share, n)
	for i := 0; i < n-1; i++ {
		shares[i] = Share{Quantity: per, Weight: perWeight}
	}
	shares[n-1] = Share{
		Quantity: quantity - per*int64(n-1),
		Weight:   weight.Sub(perWeight.Mul(decimal.NewFromInt(int64(n - 1)))),
	}
	return shares
}
