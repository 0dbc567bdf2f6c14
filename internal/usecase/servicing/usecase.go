// Package servicing drives a loan after approval: disbursement of the
// funds to the borrower's savings account and repayment collection
// until payoff.
package servicing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainLoan "chamasave-backend/internal/domain/loan"
	"chamasave-backend/internal/domain/notification"
	domainRepayment "chamasave-backend/internal/domain/repayment"
	"chamasave-backend/internal/domain/transaction"
	"chamasave-backend/internal/domain/uow"
	"chamasave-backend/internal/notifier"
	"chamasave-backend/internal/usecase/ledger"
	"chamasave-backend/pkg/id"
	"chamasave-backend/pkg/metrics"
)

type Usecase struct {
	uow        uow.UnitOfWork
	dispatcher *notifier.Dispatcher
	metrics    *metrics.Collector
}

func NewUsecase(u uow.UnitOfWork, d *notifier.Dispatcher, mc *metrics.Collector) *Usecase {
	return &Usecase{uow: u, dispatcher: d, metrics: mc}
}

// DisbursementResult pairs the updated loan with the ledger entry that
// credited the borrower.
type DisbursementResult struct {
	Loan        *domainLoan.Loan         `json:"loan"`
	Transaction *transaction.Transaction `json:"transaction"`
}

// RepaymentResult pairs the updated loan with the repayment row.
type RepaymentResult struct {
	Loan      *domainLoan.Loan           `json:"loan"`
	Repayment *domainRepayment.Repayment `json:"repayment"`
}

// Disburse pays an approved loan out: the borrower's balance is
// credited with the approved amount and the paired loan_disbursement
// transaction is written, all in one database transaction with the
// state flip. The compare-and-set on state makes double-disbursement
// impossible even under concurrent calls.
func (u *Usecase) Disburse(ctx context.Context, loanID, actorID string) (*DisbursementResult, error) {
	start := time.Now()
	defer func() { u.metrics.ObserveOperation("disburse_loan", time.Since(start)) }()

	var (
		res     *DisbursementResult
		effects []notification.Notification
	)

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.State != domainLoan.StateApproved || l.AmountApproved == nil {
			return domainLoan.ErrInvalidState
		}
		if err := r.Loans.TransitionState(ctx, l.ID, domainLoan.StateApproved, domainLoan.StateDisbursed); err != nil {
			return err
		}

		t, err := ledger.Post(ctx, r, ledger.Entry{
			MemberID:    l.BorrowerID,
			Type:        transaction.TypeLoanDisbursement,
			Amount:      *l.AmountApproved,
			Description: fmt.Sprintf("Loan disbursement %s", l.LoanNumber),
			RecordedBy:  actorID,
		})
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		l.State = domainLoan.StateDisbursed
		l.StateUpdatedAt = now
		l.DisbursedAt = &now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		n := notification.Notification{
			NotificationID: id.NewID32(),
			MemberID:       l.BorrowerID,
			Type:           notification.TypeLoanDisbursed,
			Title:          "Loan disbursed",
			Message:        fmt.Sprintf("%.2f from loan %s has been credited to your savings account.", *l.AmountApproved, l.LoanNumber),
			Metadata:       notification.Metadata{"loan_id": l.LoanID, "transaction_id": t.TransactionID},
		}
		if err := r.Notifications.Create(ctx, &n); err != nil {
			return err
		}
		effects = append(effects, n)

		res = &DisbursementResult{Loan: l, Transaction: t}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.LoanDisbursed()
	u.metrics.LedgerPosting(string(transaction.TypeLoanDisbursement))
	u.dispatcher.Dispatch(ctx, effects)
	return res, nil
}

// RecordRepayment collects one payment against a disbursed loan. The
// amount is split into interest and principal, debited from the
// member's savings with its paired ledger row, and appended to the
// repayment history. Driving the outstanding balance to (within a cent
// of) zero completes the loan.
func (u *Usecase) RecordRepayment(ctx context.Context, loanID string, amount float64, notes, actorID string) (*RepaymentResult, error) {
	start := time.Now()
	defer func() { u.metrics.ObserveOperation("record_repayment", time.Since(start)) }()

	if amount <= 0 {
		return nil, domainLoan.ErrInvalidAmount
	}

	var (
		res       *RepaymentResult
		completed bool
		effects   []notification.Notification
	)

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.State != domainLoan.StateDisbursed {
			return domainLoan.ErrInvalidState
		}

		paid := decimal.NewFromFloat(amount).Round(2)
		alloc := Allocate(
			decimal.NewFromFloat(l.OutstandingBalance),
			decimal.NewFromFloat(l.InterestRate),
			paid,
		)

		if _, err := ledger.Post(ctx, r, ledger.Entry{
			MemberID:    l.BorrowerID,
			Type:        transaction.TypeLoanRepayment,
			Amount:      paid.InexactFloat64(),
			Description: fmt.Sprintf("Loan repayment %s", l.LoanNumber),
			RecordedBy:  actorID,
		}); err != nil {
			return err
		}

		rp := &domainRepayment.Repayment{
			RepaymentID:      id.NewID32(),
			LoanID:           l.ID,
			Amount:           paid.InexactFloat64(),
			InterestPortion:  alloc.Interest.InexactFloat64(),
			PrincipalPortion: alloc.Principal.InexactFloat64(),
			Notes:            notes,
			RecordedBy:       actorID,
		}
		if err := r.Repayments.Create(ctx, rp); err != nil {
			return err
		}

		now := time.Now().UTC()
		l.AmountRepaid = decimal.NewFromFloat(l.AmountRepaid).Add(paid).Round(2).InexactFloat64()
		l.OutstandingBalance = alloc.NewOutstanding.InexactFloat64()
		if l.RemainingMonths > 0 {
			l.RemainingMonths--
		}

		if alloc.PaidOff {
			if err := r.Loans.TransitionState(ctx, l.ID, domainLoan.StateDisbursed, domainLoan.StateCompleted); err != nil {
				return err
			}
			l.State = domainLoan.StateCompleted
			l.StateUpdatedAt = now
			l.OutstandingBalance = 0
			completed = true
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		if completed {
			n := notification.Notification{
				NotificationID: id.NewID32(),
				MemberID:       l.BorrowerID,
				Type:           notification.TypeLoanCompleted,
				Title:          "Loan fully repaid",
				Message:        fmt.Sprintf("Loan %s has been fully repaid. Congratulations!", l.LoanNumber),
				Metadata:       notification.Metadata{"loan_id": l.LoanID},
			}
			if err := r.Notifications.Create(ctx, &n); err != nil {
				return err
			}
			effects = append(effects, n)
		}

		res = &RepaymentResult{Loan: l, Repayment: rp}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.RepaymentRecorded()
	u.metrics.LedgerPosting(string(transaction.TypeLoanRepayment))
	if completed {
		u.metrics.LoanCompleted()
	}
	u.dispatcher.Dispatch(ctx, effects)
	return res, nil
}
