// Package memstore is a map-backed implementation of every repository
// plus the unit of work, for usecase tests. Lookups that miss return
// gorm.ErrRecordNotFound, matching what the real repositories surface.
// WithinTx runs the callback directly; there is no rollback.
package memstore

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"chamasave-backend/internal/domain/guarantee"
	"chamasave-backend/internal/domain/loan"
	"chamasave-backend/internal/domain/member"
	"chamasave-backend/internal/domain/notification"
	"chamasave-backend/internal/domain/repayment"
	"chamasave-backend/internal/domain/transaction"
	"chamasave-backend/internal/domain/uow"
)

type Store struct {
	mu     sync.Mutex
	nextID uint64

	Members       []*member.Member
	Loans         []*loan.Loan
	Guarantees    []*guarantee.Guarantee
	Repayments    []*repayment.Repayment
	Transactions  []*transaction.Transaction
	Notifications []*notification.Notification
}

func New() *Store { return &Store{} }

func (s *Store) autoID() uint64 { s.nextID++; return s.nextID }

// Repos binds every repository view over the same store.
func (s *Store) Repos() uow.Repos {
	return uow.Repos{
		Members:       membersRepo{s},
		Loans:         loansRepo{s},
		Guarantees:    guaranteesRepo{s},
		Repayments:    repaymentsRepo{s},
		Transactions:  transactionsRepo{s},
		Notifications: notificationsRepo{s},
	}
}

var _ uow.UnitOfWork = (*Store)(nil)

func (s *Store) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return fn(s.Repos())
}

func (s *Store) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	l, err := loansRepo{s}.GetByLoanID(ctx, loanID)
	if err != nil {
		return loan.ErrNotFound
	}
	return fn(s.Repos(), l)
}

// --- members ---

type membersRepo struct{ s *Store }

func (r membersRepo) Create(ctx context.Context, m *member.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.autoID()
	r.s.Members = append(r.s.Members, m)
	return nil
}

func (r membersRepo) Save(ctx context.Context, m *member.Member) error { return nil }

func (r membersRepo) GetByMemberID(ctx context.Context, memberID string) (*member.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.Members {
		if m.MemberID == memberID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r membersRepo) GetByMemberIDForUpdate(ctx context.Context, memberID string) (*member.Member, error) {
	return r.GetByMemberID(ctx, memberID)
}

// --- loans ---

type loansRepo struct{ s *Store }

func (r loansRepo) Create(ctx context.Context, l *loan.Loan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.autoID()
	r.s.Loans = append(r.s.Loans, l)
	return nil
}

func (r loansRepo) Save(ctx context.Context, l *loan.Loan) error { return nil }

func (r loansRepo) GetByLoanID(ctx context.Context, loanID string) (*loan.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.Loans {
		if l.LoanID == loanID {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r loansRepo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loan.Loan, error) {
	return r.GetByLoanID(ctx, loanID)
}

func (r loansRepo) GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*loan.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.Loans {
		if l.BorrowerID == borrowerID && l.Open() {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r loansRepo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]loan.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []loan.Loan
	for _, l := range r.s.Loans {
		if l.BorrowerID == borrowerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r loansRepo) TransitionState(ctx context.Context, id uint64, from, to loan.State) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.Loans {
		if l.ID == id && l.State == from {
			l.State = to
			l.StateUpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return loan.ErrInvalidState
}

// --- guarantees ---

type guaranteesRepo struct{ s *Store }

func (r guaranteesRepo) Create(ctx context.Context, g *guarantee.Guarantee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g.ID = r.s.autoID()
	r.s.Guarantees = append(r.s.Guarantees, g)
	return nil
}

func (r guaranteesRepo) Save(ctx context.Context, g *guarantee.Guarantee) error { return nil }

func (r guaranteesRepo) GetByLoanAndGuarantor(ctx context.Context, loanID uint64, guarantorID string) (*guarantee.Guarantee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range r.s.Guarantees {
		if g.LoanID == loanID && g.GuarantorID == guarantorID {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r guaranteesRepo) ListByLoanID(ctx context.Context, loanID uint64) ([]guarantee.Guarantee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []guarantee.Guarantee
	for _, g := range r.s.Guarantees {
		if g.LoanID == loanID {
			out = append(out, *g)
		}
	}
	return out, nil
}

// --- repayments ---

type repaymentsRepo struct{ s *Store }

func (r repaymentsRepo) Create(ctx context.Context, rp *repayment.Repayment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rp.ID = r.s.autoID()
	r.s.Repayments = append(r.s.Repayments, rp)
	return nil
}

func (r repaymentsRepo) ListByLoanID(ctx context.Context, loanID uint64) ([]repayment.Repayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []repayment.Repayment
	for _, rp := range r.s.Repayments {
		if rp.LoanID == loanID {
			out = append(out, *rp)
		}
	}
	return out, nil
}

// --- transactions ---

type transactionsRepo struct{ s *Store }

func (r transactionsRepo) Create(ctx context.Context, t *transaction.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.autoID()
	r.s.Transactions = append(r.s.Transactions, t)
	return nil
}

func (r transactionsRepo) LatestByMemberID(ctx context.Context, memberID string) (*transaction.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.Transactions) - 1; i >= 0; i-- {
		if r.s.Transactions[i].MemberID == memberID {
			return r.s.Transactions[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r transactionsRepo) ListByMemberID(ctx context.Context, memberID string) ([]transaction.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []transaction.Transaction
	for i := len(r.s.Transactions) - 1; i >= 0; i-- {
		if r.s.Transactions[i].MemberID == memberID {
			out = append(out, *r.s.Transactions[i])
		}
	}
	return out, nil
}

// --- notifications ---

type notificationsRepo struct{ s *Store }

func (r notificationsRepo) Create(ctx context.Context, n *notification.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.autoID()
	r.s.Notifications = append(r.s.Notifications, n)
	return nil
}

func (r notificationsRepo) ListByMemberID(ctx context.Context, memberID string) ([]notification.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []notification.Notification
	for i := len(r.s.Notifications) - 1; i >= 0; i-- {
		if r.s.Notifications[i].MemberID == memberID {
			out = append(out, *r.s.Notifications[i])
		}
	}
	return out, nil
}

func (r notificationsRepo) MarkSent(ctx context.Context, notificationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.Notifications {
		if n.NotificationID == notificationID {
			now := time.Now().UTC()
			n.SentAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
