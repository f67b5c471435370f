package order

import "github.com/shopspring/decimal"

var minorUnitsPerMajor = decimal.NewFromInt(100)

// ToMinorUnits converts an amount to the smallest currency unit, rounding
// half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitsPerMajor).Round(0).IntPart()
}

type PricedLine struct {
	CheckoutLine
	UnitAmount int64
	LineAmount int64
}

// PriceLines prices every line and returns the order total. Each line is
// rounded on its own before summing.
func PriceLines(lines []CheckoutLine) ([]PricedLine, int64) {
	priced := make([]PricedLine, 0, len(lines))
	var total int64
	for _, l := range lines {
		qty := decimal.NewFromInt(int64(l.Quantity))
		p := PricedLine{
			CheckoutLine: l,
			UnitAmount:   ToMinorUnits(l.Price),
			LineAmount:   ToMinorUnits(l.Price.Mul(qty)),
		}
		total += p.LineAmount
		priced = append(priced, p)
	}
	return priced, total
}
