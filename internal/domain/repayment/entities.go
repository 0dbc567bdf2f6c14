package repayment

import "time"

// Repayment is one payment against a disbursed loan, split into its
// interest and principal portions for audit. Rows are append-only.
type Repayment struct {
	ID               uint64    `gorm:"primaryKey;column:id" json:"-"`
	RepaymentID      string    `gorm:"size:32;uniqueIndex:ux_repayments_repayment_id" json:"repayment_id"`
	LoanID           uint64    `gorm:"column:loan_id;not null;index:idx_repayments_loan" json:"-"`
	Amount           float64   `gorm:"type:decimal(18,2)" json:"amount"`
	InterestPortion  float64   `gorm:"type:decimal(18,2)" json:"interest_portion"`
	PrincipalPortion float64   `gorm:"type:decimal(18,2)" json:"principal_portion"`
	Notes            string    `gorm:"type:text" json:"notes,omitempty"`
	RecordedBy       string    `gorm:"size:32" json:"recorded_by"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Repayment) TableName() string { return "loan_repayments" }
