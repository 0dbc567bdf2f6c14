package uow

import (
	"context"

	"chamasave-backend/internal/domain/guarantee"
	"chamasave-backend/internal/domain/loan"
	"chamasave-backend/internal/domain/member"
	"chamasave-backend/internal/domain/notification"
	"chamasave-backend/internal/domain/repayment"
	"chamasave-backend/internal/domain/transaction"
)

// Repos bundles every repository bound to one transaction.
type Repos struct {
	Members       member.Repository
	Loans         loan.Repository
	Guarantees    guarantee.Repository
	Repayments    repayment.Repository
	Transactions  transaction.Repository
	Notifications notification.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
