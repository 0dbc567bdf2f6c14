package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domainGuarantee "chamasave-backend/internal/domain/guarantee"
	domain "chamasave-backend/internal/domain/loan"
	domainMember "chamasave-backend/internal/domain/member"
	"chamasave-backend/internal/domain/notification"
	"chamasave-backend/internal/domain/uow"
	"chamasave-backend/internal/notifier"
	"chamasave-backend/pkg/id"
	"chamasave-backend/pkg/metrics"
)

type Usecase struct {
	loans      domain.Repository
	guarantees domainGuarantee.Repository
	uow        uow.UnitOfWork
	dispatcher *notifier.Dispatcher
	metrics    *metrics.Collector
}

func NewUsecase(loans domain.Repository, guarantees domainGuarantee.Repository, u uow.UnitOfWork, d *notifier.Dispatcher, mc *metrics.Collector) *Usecase {
	return &Usecase{loans: loans, guarantees: guarantees, uow: u, dispatcher: d, metrics: mc}
}

type GuarantorInput struct {
	GuarantorID string  `json:"guarantor_id"`
	Amount      float64 `json:"amount"`
}

type CreateLoanInput struct {
	BorrowerID string           `json:"borrower_id"`
	Amount     float64          `json:"amount"`
	TermMonths int              `json:"term_months"`
	Purpose    string           `json:"purpose"`
	Guarantors []GuarantorInput `json:"guarantors"`
}

// newLoanNumber builds the human-readable unique identifier printed on
// statements, e.g. LN-20260831-4F09A1.
func newLoanNumber(now time.Time) string {
	return fmt.Sprintf("LN-%s-%s", now.Format("20060102"), strings.ToUpper(id.NewID32()[:6]))
}

// Create registers a borrowing request. With no guarantors the loan
// skips guarantor review and lands directly in admin review; otherwise
// one undecided guarantee row is created per guarantor and each
// guarantor is notified.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*domain.Loan, error) {
	start := time.Now()
	defer func() { u.metrics.ObserveOperation("create_loan", time.Since(start)) }()

	if in.Amount <= 0 || in.TermMonths <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if in.BorrowerID == "" || len(in.BorrowerID) != 32 {
		return nil, domainMember.ErrNotFound
	}
	seen := make(map[string]struct{}, len(in.Guarantors))
	for _, g := range in.Guarantors {
		if g.GuarantorID == in.BorrowerID {
			return nil, fmt.Errorf("borrower cannot guarantee their own loan: %w", domain.ErrInvalidAmount)
		}
		if g.Amount < 0 {
			return nil, domain.ErrInvalidAmount
		}
		if _, dup := seen[g.GuarantorID]; dup {
			return nil, fmt.Errorf("guarantor %s listed more than once: %w", g.GuarantorID, domain.ErrInvalidAmount)
		}
		seen[g.GuarantorID] = struct{}{}
	}

	var (
		created *domain.Loan
		effects []notification.Notification
	)

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		borrower, err := r.Members.GetByMemberID(ctx, in.BorrowerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainMember.ErrNotFound
			}
			return err
		}
		if !borrower.IsActive() {
			return domainMember.ErrInactive
		}

		// One open loan per borrower.
		open, err := r.Loans.GetOpenLoanByBorrowerID(ctx, in.BorrowerID)
		switch {
		case err == nil:
			return fmt.Errorf("borrower %s already has an open loan %s: %w", in.BorrowerID, open.LoanNumber, domain.ErrInvalidState)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		// Coverage: usable savings plus pledged guarantees must reach
		// the requested amount.
		covered := decimal.NewFromFloat(borrower.AccountBalance)
		for _, g := range in.Guarantors {
			gm, err := r.Members.GetByMemberID(ctx, g.GuarantorID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("guarantor %s: %w", g.GuarantorID, domainMember.ErrNotFound)
				}
				return err
			}
			if !gm.IsActive() {
				return fmt.Errorf("guarantor %s: %w", g.GuarantorID, domainMember.ErrInactive)
			}
			covered = covered.Add(decimal.NewFromFloat(g.Amount))
		}
		requested := decimal.NewFromFloat(in.Amount)
		if covered.LessThan(requested) {
			return &domain.InsufficientCoverageError{
				Requested: requested.Round(2).InexactFloat64(),
				Covered:   covered.Round(2).InexactFloat64(),
			}
		}

		now := time.Now().UTC()
		state := domain.StateGuarantorReview
		if len(in.Guarantors) == 0 {
			// No guarantor gate to pass.
			state = domain.StatePendingApproval
		}

		l := &domain.Loan{
			LoanID:          id.NewID32(),
			LoanNumber:      newLoanNumber(now),
			BorrowerID:      in.BorrowerID,
			AmountRequested: requested.Round(2).InexactFloat64(),
			TermMonths:      in.TermMonths,
			Purpose:         in.Purpose,
			State:           state,
			StateUpdatedAt:  now,
			RequestedAt:     now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		for _, g := range in.Guarantors {
			gr := &domainGuarantee.Guarantee{
				LoanID:           l.ID,
				GuarantorID:      g.GuarantorID,
				AmountGuaranteed: g.Amount,
				Decision:         domainGuarantee.DecisionUndecided,
			}
			if err := r.Guarantees.Create(ctx, gr); err != nil {
				return err
			}
			n := notification.Notification{
				NotificationID: id.NewID32(),
				MemberID:       g.GuarantorID,
				Type:           notification.TypeGuaranteeRequested,
				Title:          "Guarantee requested",
				Message:        fmt.Sprintf("%s asks you to guarantee %.2f of loan %s.", borrower.FullName, g.Amount, l.LoanNumber),
				Metadata:       notification.Metadata{"loan_id": l.LoanID},
			}
			if err := r.Notifications.Create(ctx, &n); err != nil {
				return err
			}
			effects = append(effects, n)
		}

		if state == domain.StatePendingApproval {
			n := notification.Notification{
				NotificationID: id.NewID32(),
				Role:           notification.RoleAdmin,
				Type:           notification.TypeLoanSubmitted,
				Title:          "Loan ready for review",
				Message:        fmt.Sprintf("Loan %s was requested without guarantors and is awaiting admin review.", l.LoanNumber),
				Metadata:       notification.Metadata{"loan_id": l.LoanID},
			}
			if err := r.Notifications.Create(ctx, &n); err != nil {
				return err
			}
			effects = append(effects, n)
		}

		created = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.LoanCreated()
	u.dispatcher.Dispatch(ctx, effects)
	return created, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*domain.Loan, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (u *Usecase) ListByBorrower(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	return u.loans.ListByBorrowerID(ctx, borrowerID)
}

// Guarantees returns the guarantee set of a loan, for display and for
// guarantors checking what they pledged.
func (u *Usecase) Guarantees(ctx context.Context, loanID string) ([]domainGuarantee.Guarantee, error) {
	l, err := u.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return u.guarantees.ListByLoanID(ctx, l.ID)
}
