package payroll

import "github.com/shopspring/decimal"

// TaxPolicy computes the withholding for one gross amount. Policies are
// pure and safe for concurrent use; the run records which policy
// produced its figures.
type TaxPolicy interface {
	Name() string
	Tax(gross decimal.Decimal) decimal.Decimal
}

// ZeroTaxPolicy withholds nothing. The default until a company
// configures a real policy.
type ZeroTaxPolicy struct{}

func (ZeroTaxPolicy) Name() string { return "ZERO" }

func (ZeroTaxPolicy) Tax(decimal.Decimal) decimal.Decimal { return decimal.Zero }

// FlatRatePolicy withholds a fixed fraction of gross, rounded to 2dp at
// the point of computation.
type FlatRatePolicy struct {
	Rate decimal.Decimal
}

func (p FlatRatePolicy) Name() string { return "FLAT_RATE" }

func (p FlatRatePolicy) Tax(gross decimal.Decimal) decimal.Decimal {
	if gross.IsNegative() {
		return decimal.Zero
	}
	return gross.Mul(p.Rate).Round(2)
}
