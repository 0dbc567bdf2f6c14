package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByMemberID(ctx context.Context, memberID string) ([]Notification, error)
	MarkSent(ctx context.Context, notificationID string) error
}
