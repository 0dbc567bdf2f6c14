package transaction

import (
	"errors"
	"time"
)

var ErrInvalidAmount = errors.New("transaction amount must be a positive value")

type Type string

const (
	TypeDeposit          Type = "deposit"
	TypeWithdrawal       Type = "withdrawal"
	TypeContribution     Type = "contribution"
	TypeLoanDisbursement Type = "loan_disbursement"
	TypeLoanRepayment    Type = "loan_repayment"
)

// Credit reports whether the type increases the member's balance.
func (t Type) Credit() bool {
	switch t {
	case TypeDeposit, TypeContribution, TypeLoanDisbursement:
		return true
	}
	return false
}

// Transaction is one append-only ledger entry. Every balance mutation
// on a member is paired with exactly one row; BalanceAfter of a
// member's latest row always equals that member's current balance.
type Transaction struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	TransactionID string    `gorm:"size:32;uniqueIndex:ux_transactions_transaction_id" json:"transaction_id"`
	MemberID      string    `gorm:"size:32;not null;index:idx_transactions_member" json:"member_id"`
	Type          Type      `gorm:"column:transaction_type;size:24" json:"transaction_type"`
	Amount        float64   `gorm:"type:decimal(18,2)" json:"amount"`
	BalanceBefore float64   `gorm:"type:decimal(18,2)" json:"balance_before"`
	BalanceAfter  float64   `gorm:"type:decimal(18,2)" json:"balance_after"`
	Reference     string    `gorm:"size:36" json:"reference,omitempty"`
	Description   string    `gorm:"size:190" json:"description,omitempty"`
	RecordedBy    string    `gorm:"size:32" json:"recorded_by"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }
