package pricing

import "github.com/shopspring/decimal"

// LineInput carries the product attributes a priced order line needs.
type LineInput struct {
	WeightGrams decimal.Decimal
	WastagePct  decimal.Decimal
	MakingPct   decimal.Decimal
	StoneValue  decimal.Decimal
}

// LineBreakdown is the priced decomposition of one piece:
//
//	metalValue   = weight * rate
//	wastageValue = metalValue * wastagePct / 100
//	makingValue  = (metalValue + wastageValue) * makingPct / 100
//	finalPrice   = metalValue + wastageValue + makingValue + stoneValue
//
// Every component is rounded to 2 decimals at line level so that order totals
// sum without drift.
type LineBreakdown struct {
	MetalValue   decimal.Decimal
	WastageValue decimal.Decimal
	MakingValue  decimal.Decimal
	StoneValue   decimal.Decimal
	FinalPrice   decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// PriceLine derives the price of a single piece from its weight and the
// current per-gram rate (domain service, pure computation).
func PriceLine(in LineInput, ratePerGram decimal.Decimal) LineBreakdown {
	metal := in.WeightGrams.Mul(ratePerGram).Round(2)
	wastage := metal.Mul(in.WastagePct).Div(hundred).Round(2)
	making := metal.Add(wastage).Mul(in.MakingPct).Div(hundred).Round(2)
	stone := in.StoneValue.Round(2)
	final := metal.Add(wastage).Add(making).Add(stone)

	return LineBreakdown{
		MetalValue:   metal,
		WastageValue: wastage,
		MakingValue:  making,
		StoneValue:   stone,
		FinalPrice:   final,
	}
}

// TaxRates holds the GST percentages. CGST and SGST apply together on
// intra-state orders; IGST alone on inter-state orders. The two regimes are
// mutually exclusive.
type TaxRates struct {
	CGSTPercent decimal.Decimal
	SGSTPercent decimal.Decimal
	IGSTPercent decimal.Decimal
}

// DefaultTaxRates is the statutory default: CGST 1.5%, SGST 1.5%, IGST 3%.
func DefaultTaxRates() TaxRates {
	return TaxRates{
		CGSTPercent: decimal.NewFromFloat(1.5),
		SGSTPercent: decimal.NewFromFloat(1.5),
		IGSTPercent: decimal.NewFromInt(3),
	}
}

// TaxBreakdown is the GST decomposition of an order subtotal.
type TaxBreakdown struct {
	CGST       decimal.Decimal
	SGST       decimal.Decimal
	IGST       decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTax applies GST to a subtotal. Intra-state orders get CGST+SGST,
// inter-state orders get IGST only; each component rounds to 2 decimals.
func (t TaxRates) ComputeTax(subtotal decimal.Decimal, interState bool) TaxBreakdown {
	if interState {
		igst := subtotal.Mul(t.IGSTPercent).Div(hundred).Round(2)
		return TaxBreakdown{
			IGST:       igst,
			GrandTotal: subtotal.Add(igst),
		}
	}
	cgst := subtotal.Mul(t.CGSTPercent).Div(hundred).Round(2)
	sgst := subtotal.Mul(t.SGSTPercent).Div(hundred).Round(2)
	return TaxBreakdown{
		CGST:       cgst,
		SGST:       sgst,
		GrandTotal: subtotal.Add(cgst).Add(sgst),
	}
}
