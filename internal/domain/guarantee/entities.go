package guarantee

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("guarantee not found")

// Decision is a guarantor's explicit response. Undecided means the
// guarantor has not answered yet; it is a distinct value, never
// conflated with an acceptance.
type Decision string

const (
	DecisionUndecided Decision = "undecided"
	DecisionAccepted  Decision = "accepted"
	DecisionDeclined  Decision = "declined"
)

// Guarantee is one (loan, guarantor) pledge. The pair is unique;
// resubmitting a decision overwrites the previous one.
type Guarantee struct {
	ID               uint64     `gorm:"primaryKey;column:id" json:"-"`
	LoanID           uint64     `gorm:"column:loan_id;not null;uniqueIndex:ux_guarantees_loan_guarantor" json:"-"`
	GuarantorID      string     `gorm:"size:32;not null;uniqueIndex:ux_guarantees_loan_guarantor" json:"guarantor_id"`
	AmountGuaranteed float64    `gorm:"type:decimal(18,2)" json:"amount_guaranteed"`
	Decision         Decision   `gorm:"size:16;default:'undecided'" json:"decision"`
	RespondedAt      *time.Time `json:"responded_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Guarantee) TableName() string { return "loan_guarantees" }

// Valid reports whether the pledge counts toward consensus.
func (g *Guarantee) Valid() bool { return g.AmountGuaranteed > 0 }
