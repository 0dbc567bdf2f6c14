package servicing

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)

	// Outstanding balances at or below this are considered paid off;
	// absorbs per-period rounding.
	payoffEpsilon = decimal.RequireFromString("0.01")
)

// Allocation is the interest/principal split of one repayment.
type Allocation struct {
	Interest       decimal.Decimal
	Principal      decimal.Decimal
	NewOutstanding decimal.Decimal
	PaidOff        bool
}

// Allocate splits amount against the outstanding balance at annualRate
// (percent). One month of interest on the outstanding balance is taken
// first; the remainder reduces principal, capped at driving the balance
// to zero. Overpayment beyond that is neither refunded nor credited.
func Allocate(outstanding, annualRate, amount decimal.Decimal) Allocation {
	monthlyRate := annualRate.Div(hundred).Div(twelve)
	interest := outstanding.Mul(monthlyRate).Round(2)

	principal := amount.Sub(interest)
	if principal.IsNegative() {
		principal = decimal.Zero
	}
	if principal.GreaterThan(outstanding) {
		principal = outstanding
	}
	principal = principal.Round(2)

	newOutstanding := outstanding.Sub(principal).Round(2)
	if newOutstanding.IsNegative() {
		newOutstanding = decimal.Zero
	}

	return Allocation{
		Interest:       interest,
		Principal:      principal,
		NewOutstanding: newOutstanding,
		PaidOff:        newOutstanding.LessThanOrEqual(payoffEpsilon),
	}
}
