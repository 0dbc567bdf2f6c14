package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the duration of the
	// surrounding transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*Loan, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
	// TransitionState is a compare-and-set on the state column: the
	// update applies only while the row is still in from, otherwise
	// ErrInvalidState. Guards against two concurrent callers both
	// applying the same transition.
	TransitionState(ctx context.Context, id uint64, from, to State) error
}
