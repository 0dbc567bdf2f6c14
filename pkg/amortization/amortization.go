// Package amortization computes flat monthly (annuity) repayment plans.
// All monetary math runs on decimal.Decimal and rounds to 2 places per
// period; rounding drift is absorbed by the final installment so the
// closing balance is exactly zero.
package amortization

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrincipal = errors.New("amortization: principal must be >= 0")
	ErrInvalidRate      = errors.New("amortization: annual rate must be >= 0")
	ErrInvalidTerm      = errors.New("amortization: term must be > 0 months")
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Line is one month of a repayment schedule.
type Line struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"`
}

// Plan is a complete amortization result for one loan.
type Plan struct {
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalRepayable decimal.Decimal `json:"total_repayable"`
	Schedule       []Line          `json:"schedule"`
}

// monthlyRate converts an annual percentage rate to a monthly fraction.
func monthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(hundred).Div(twelve)
}

// MonthlyPayment returns the fixed monthly installment for principal at
// annualRate (percent) over termMonths. A zero rate degenerates to
// straight-line principal/termMonths.
func MonthlyPayment(principal, annualRate decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if err := validate(principal, annualRate, termMonths); err != nil {
		return decimal.Zero, err
	}
	n := decimal.NewFromInt(int64(termMonths))
	i := monthlyRate(annualRate)
	if i.IsZero() {
		return principal.Div(n).Round(2), nil
	}
	// P * i * (1+i)^n / ((1+i)^n - 1)
	compound := decimal.NewFromInt(1).Add(i).Pow(n)
	payment := principal.Mul(i).Mul(compound).Div(compound.Sub(decimal.NewFromInt(1)))
	return payment.Round(2), nil
}

// New builds the full plan for principal at annualRate (percent) over
// termMonths. The final line forces principal = remaining balance, so
// Schedule[len-1].Balance is always exactly zero.
func New(principal, annualRate decimal.Decimal, termMonths int) (*Plan, error) {
	payment, err := MonthlyPayment(principal, annualRate, termMonths)
	if err != nil {
		return nil, err
	}

	i := monthlyRate(annualRate)
	balance := principal
	schedule := make([]Line, 0, termMonths)

	for month := 1; month <= termMonths; month++ {
		interest := balance.Mul(i).Round(2)
		var due decimal.Decimal
		if month == termMonths {
			// Last installment clears whatever is left.
			due = balance
		} else {
			due = payment.Sub(interest).Round(2)
			if due.GreaterThan(balance) {
				due = balance
			}
		}
		balance = balance.Sub(due)
		if balance.IsNegative() {
			balance = decimal.Zero
		}
		schedule = append(schedule, Line{
			Month:     month,
			Payment:   due.Add(interest).Round(2),
			Principal: due,
			Interest:  interest,
			Balance:   balance,
		})
	}

	return &Plan{
		MonthlyPayment: payment,
		TotalRepayable: payment.Mul(decimal.NewFromInt(int64(termMonths))).Round(2),
		Schedule:       schedule,
	}, nil
}

func validate(principal, annualRate decimal.Decimal, termMonths int) error {
	if principal.IsNegative() {
		return ErrInvalidPrincipal
	}
	if annualRate.IsNegative() {
		return ErrInvalidRate
	}
	if termMonths <= 0 {
		return ErrInvalidTerm
	}
	return nil
}
