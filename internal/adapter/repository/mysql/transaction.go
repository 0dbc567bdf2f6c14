package mysql

import (
	"context"

	"gorm.io/gorm"

	transactionDomain "chamasave-backend/internal/domain/transaction"
)

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *transactionDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) LatestByMemberID(ctx context.Context, memberID string) (*transactionDomain.Transaction, error) {
	var out transactionDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("id DESC").
		First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) ListByMemberID(ctx context.Context, memberID string) ([]transactionDomain.Transaction, error) {
	var out []transactionDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("id DESC").
		Find(&out)
	return out, res.Error
}
