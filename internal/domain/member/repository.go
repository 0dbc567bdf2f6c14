package member

import "context"

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByMemberID(ctx context.Context, memberID string) (*Member, error)
	// GetByMemberIDForUpdate locks the row for the duration of the
	// surrounding transaction; balance mutations must go through it.
	GetByMemberIDForUpdate(ctx context.Context, memberID string) (*Member, error)
	Save(ctx context.Context, m *Member) error
}
