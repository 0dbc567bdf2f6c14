package mysql

import (
	"context"
	"testing"

	domain "chamasave-backend/internal/domain/notification"
	"chamasave-backend/pkg/id"
)

func TestNotification_CreateListMarkSent(t *testing.T) {
	db := openTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	mid := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	n := &domain.Notification{
		NotificationID: id.NewID32(),
		MemberID:       mid,
		Type:           domain.TypeLoanApproved,
		Title:          "Loan approved",
		Message:        "Your loan LN-20260831-ABCDEF was approved.",
		Metadata:       domain.Metadata{"loan_number": "LN-20260831-ABCDEF"},
	}
	if err := repo.Create(ctx, n); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ListByMemberID(ctx, mid)
	if err != nil {
		t.Fatalf("ListByMemberID: %v", err)
	}
	if len(got) != 1 || got[0].SentAt != nil {
		t.Fatalf("unexpected list: %+v", got)
	}
	if got[0].Metadata["loan_number"] != "LN-20260831-ABCDEF" {
		t.Fatalf("metadata not round-tripped: %+v", got[0].Metadata)
	}

	if err := repo.MarkSent(ctx, n.NotificationID); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	got, err = repo.ListByMemberID(ctx, mid)
	if err != nil {
		t.Fatalf("ListByMemberID after MarkSent: %v", err)
	}
	if got[0].SentAt == nil {
		t.Fatalf("sent_at not set: %+v", got[0])
	}
}
