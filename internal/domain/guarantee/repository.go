package guarantee

import "context"

type Repository interface {
	Create(ctx context.Context, g *Guarantee) error
	// Save overwrites an existing row; combined with the unique
	// (loan, guarantor) index it gives last-write-wins upsert semantics.
	Save(ctx context.Context, g *Guarantee) error
	GetByLoanAndGuarantor(ctx context.Context, loanID uint64, guarantorID string) (*Guarantee, error)
	ListByLoanID(ctx context.Context, loanID uint64) ([]Guarantee, error)
}
