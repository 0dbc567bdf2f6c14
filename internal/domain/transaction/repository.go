package transaction

import "context"

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	LatestByMemberID(ctx context.Context, memberID string) (*Transaction, error)
	ListByMemberID(ctx context.Context, memberID string) ([]Transaction, error)
}
