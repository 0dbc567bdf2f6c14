package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	notificationDomain "chamasave-backend/internal/domain/notification"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notificationDomain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListByMemberID(ctx context.Context, memberID string) ([]notificationDomain.Notification, error) {
	var out []notificationDomain.Notification
	res := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("id DESC").
		Find(&out)
	return out, res.Error
}

func (r *NotificationRepository) MarkSent(ctx context.Context, notificationID string) error {
	return r.db.WithContext(ctx).
		Model(&notificationDomain.Notification{}).
		Where("notification_id = ?", notificationID).
		Update("sent_at", time.Now().UTC()).Error
}
