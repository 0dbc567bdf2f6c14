package guarantee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "chamasave-backend/internal/domain/guarantee"
	domainLoan "chamasave-backend/internal/domain/loan"
	"chamasave-backend/internal/domain/notification"
	"chamasave-backend/internal/domain/uow"
	"chamasave-backend/internal/notifier"
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

// Result reports where the decision left the loan.
type Result struct {
	LoanID    string           `json:"loan_id"`
	LoanState domainLoan.State `json:"loan_state"`
	Outcome   Outcome          `json:"-"`
}

// SubmitDecision records one guarantor's answer and re-evaluates
// consensus over the loan's full guarantee set. Resubmission overwrites
// the guarantor's previous decision. The write and any resulting state
// transition commit as one transaction; notifications go out only after
// commit and are best-effort.
func (u *Usecase) SubmitDecision(ctx context.Context, loanID, guarantorID string, accept bool) (*Result, error) {
	start := time.Now()
	defer func() { u.metrics.ObserveOperation("submit_guarantee_decision", time.Since(start)) }()

	var (
		res     *Result
		effects []notification.Notification
	)

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.State != domainLoan.StateGuarantorReview {
			return domainLoan.ErrInvalidState
		}

		g, err := r.Guarantees.GetByLoanAndGuarantor(ctx, l.ID, guarantorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		now := time.Now().UTC()
		if accept {
			g.Decision = domain.DecisionAccepted
		} else {
			g.Decision = domain.DecisionDeclined
		}
		g.RespondedAt = &now
		if err := r.Guarantees.Save(ctx, g); err != nil {
			return err
		}

		gs, err := r.Guarantees.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}

		outcome := Resolve(gs)
		switch outcome {
		case OutcomeRejected:
			if err := r.Loans.TransitionState(ctx, l.ID, domainLoan.StateGuarantorReview, domainLoan.StateRejected); err != nil {
				return err
			}
			l.State = domainLoan.StateRejected
			l.StateUpdatedAt = now
			n := notification.Notification{
				NotificationID: id.NewID32(),
				MemberID:       l.BorrowerID,
				Type:           notification.TypeLoanRejected,
				Title:          "Loan request declined",
				Message:        fmt.Sprintf("A guarantor declined to secure your loan %s.", l.LoanNumber),
				Metadata:       notification.Metadata{"loan_id": l.LoanID},
			}
			if err := r.Notifications.Create(ctx, &n); err != nil {
				return err
			}
			effects = append(effects, n)

		case OutcomeConsensus:
			if err := r.Loans.TransitionState(ctx, l.ID, domainLoan.StateGuarantorReview, domainLoan.StatePendingApproval); err != nil {
				return err
			}
			l.State = domainLoan.StatePendingApproval
			l.StateUpdatedAt = now

			ns := []notification.Notification{{
				NotificationID: id.NewID32(),
				Role:           notification.RoleAdmin,
				Type:           notification.TypeConsensusReached,
				Title:          "Loan ready for review",
				Message:        fmt.Sprintf("All guarantors accepted loan %s; it is awaiting admin review.", l.LoanNumber),
				Metadata:       notification.Metadata{"loan_id": l.LoanID},
			}}
			for i := range gs {
				if !gs[i].Valid() {
					continue
				}
				ns = append(ns, notification.Notification{
					NotificationID: id.NewID32(),
					MemberID:       gs[i].GuarantorID,
					Type:           notification.TypeConsensusReached,
					Title:          "Guarantor consensus reached",
					Message:        fmt.Sprintf("All guarantors of loan %s have accepted.", l.LoanNumber),
					Metadata:       notification.Metadata{"loan_id": l.LoanID},
				})
			}
			for i := range ns {
				if err := r.Notifications.Create(ctx, &ns[i]); err != nil {
					return err
				}
			}
			effects = append(effects, ns...)
		}

		res = &Result{LoanID: l.LoanID, LoanState: l.State, Outcome: outcome}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Outcome == OutcomeRejected {
		u.metrics.LoanRejected()
	}
	u.dispatcher.Dispatch(ctx, effects)
	return res, nil
}
