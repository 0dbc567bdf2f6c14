package mysql

import (
	"context"

	"gorm.io/gorm"

	guaranteeDomain "chamasave-backend/internal/domain/guarantee"
)

type GuaranteeRepository struct{ db *gorm.DB }

func NewGuaranteeRepository(db *gorm.DB) *GuaranteeRepository { return &GuaranteeRepository{db: db} }

func (r *GuaranteeRepository) Create(ctx context.Context, g *guaranteeDomain.Guarantee) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GuaranteeRepository) Save(ctx context.Context, g *guaranteeDomain.Guarantee) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *GuaranteeRepository) GetByLoanAndGuarantor(ctx context.Context, loanID uint64, guarantorID string) (*guaranteeDomain.Guarantee, error) {
	var out guaranteeDomain.Guarantee
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND guarantor_id = ?", loanID, guarantorID).
		First(&out)
	return &out, res.Error
}

func (r *GuaranteeRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]guaranteeDomain.Guarantee, error) {
	var out []guaranteeDomain.Guarantee
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
