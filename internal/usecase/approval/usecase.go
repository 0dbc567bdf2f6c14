package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainLoan "chamasave-backend/internal/domain/loan"
	"chamasave-backend/internal/domain/notification"
	"chamasave-backend/internal/domain/uow"
	"chamasave-backend/internal/notifier"
	"chamasave-backend/pkg/amortization"
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

// Approve moves a loan from admin review to approved, computing the
// amortization plan and stamping the approving actor. Only
// pending_approval loans are eligible; the state write is a
// compare-and-set, so two concurrent approvals cannot both apply.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*domainLoan.Loan, error) {
	start := time.Now()
	defer func() { u.metrics.ObserveOperation("approve_loan", time.Since(start)) }()

	if in.ApprovedAmount <= 0 || in.TermMonths <= 0 || in.InterestRate < 0 {
		return nil, domainLoan.ErrInvalidAmount
	}

	var (
		approved *domainLoan.Loan
		effects  []notification.Notification
	)

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.State != domainLoan.StatePendingApproval {
			if l.State == domainLoan.StateApproved || l.State == domainLoan.StateDisbursed || l.State == domainLoan.StateCompleted {
				return domainLoan.ErrAlreadyApproved
			}
			return domainLoan.ErrInvalidState
		}

		amount := decimal.NewFromFloat(in.ApprovedAmount).Round(2)
		rate := decimal.NewFromFloat(in.InterestRate)
		plan, err := amortization.New(amount, rate, in.TermMonths)
		if err != nil {
			return fmt.Errorf("%v: %w", err, domainLoan.ErrInvalidAmount)
		}

		if err := r.Loans.TransitionState(ctx, l.ID, domainLoan.StatePendingApproval, domainLoan.StateApproved); err != nil {
			return err
		}

		now := time.Now().UTC()
		amt := amount.InexactFloat64()
		l.State = domainLoan.StateApproved
		l.StateUpdatedAt = now
		l.AmountApproved = &amt
		l.InterestRate = in.InterestRate
		l.TermMonths = in.TermMonths
		l.MonthlyPayment = plan.MonthlyPayment.InexactFloat64()
		l.TotalRepayable = plan.TotalRepayable.InexactFloat64()
		l.OutstandingBalance = plan.TotalRepayable.InexactFloat64()
		l.RemainingMonths = in.TermMonths
		l.AmortSchedule = toSchedule(plan)
		l.ApprovedAt = &now
		l.ApprovedBy = in.ActorID
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		n := notification.Notification{
			NotificationID: id.NewID32(),
			MemberID:       l.BorrowerID,
			Type:           notification.TypeLoanApproved,
			Title:          "Loan approved",
			Message: fmt.Sprintf("Loan %s was approved for %.2f over %d months at %.2f%% per year.",
				l.LoanNumber, amt, in.TermMonths, in.InterestRate),
			Metadata: notification.Metadata{"loan_id": l.LoanID},
		}
		if err := r.Notifications.Create(ctx, &n); err != nil {
			return err
		}
		effects = append(effects, n)

		approved = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.LoanApproved()
	u.dispatcher.Dispatch(ctx, effects)
	return approved, nil
}

// Reject is the admin's terminal refusal of a pending_approval loan.
func (u *Usecase) Reject(ctx context.Context, loanID, actorID string) (*domainLoan.Loan, error) {
	start := time.Now()
	defer func() { u.metrics.ObserveOperation("reject_loan", time.Since(start)) }()

	var (
		rejected *domainLoan.Loan
		effects  []notification.Notification
	)

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.State != domainLoan.StatePendingApproval {
			return domainLoan.ErrInvalidState
		}
		if err := r.Loans.TransitionState(ctx, l.ID, domainLoan.StatePendingApproval, domainLoan.StateRejected); err != nil {
			return err
		}

		now := time.Now().UTC()
		l.State = domainLoan.StateRejected
		l.StateUpdatedAt = now
		l.ApprovedBy = actorID
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		n := notification.Notification{
			NotificationID: id.NewID32(),
			MemberID:       l.BorrowerID,
			Type:           notification.TypeLoanRejected,
			Title:          "Loan request declined",
			Message:        fmt.Sprintf("Loan %s was declined during admin review.", l.LoanNumber),
			Metadata:       notification.Metadata{"loan_id": l.LoanID},
		}
		if err := r.Notifications.Create(ctx, &n); err != nil {
			return err
		}
		effects = append(effects, n)

		rejected = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.LoanRejected()
	u.dispatcher.Dispatch(ctx, effects)
	return rejected, nil
}

func toSchedule(plan *amortization.Plan) domainLoan.Schedule {
	out := make(domainLoan.Schedule, 0, len(plan.Schedule))
	for _, line := range plan.Schedule {
		out = append(out, domainLoan.ScheduleLine{
			Month:     line.Month,
			Payment:   line.Payment.InexactFloat64(),
			Principal: line.Principal.InexactFloat64(),
			Interest:  line.Interest.InexactFloat64(),
			Balance:   line.Balance.InexactFloat64(),
		})
	}
	return out
}
