package loan

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("loan not found")
	ErrInvalidState  = errors.New("loan is not in a valid state for this operation")
	ErrInvalidAmount = errors.New("amount must be a positive value")

	// ErrAlreadyApproved narrows ErrInvalidState for the double-approve
	// case; errors.Is(ErrAlreadyApproved, ErrInvalidState) holds.
	ErrAlreadyApproved = fmt.Errorf("loan already approved: %w", ErrInvalidState)
)

// InsufficientCoverageError is returned at loan creation when the
// borrower's usable savings plus pledged guarantees do not cover the
// requested amount.
type InsufficientCoverageError struct {
	Requested float64
	Covered   float64
}

func (e *InsufficientCoverageError) Error() string {
	return fmt.Sprintf("insufficient coverage: requested %.2f, covered %.2f (short %.2f)",
		e.Requested, e.Covered, e.Shortfall())
}

func (e *InsufficientCoverageError) Shortfall() float64 { return e.Requested - e.Covered }

type State string

const (
	StateGuarantorReview State = "guarantor_review"
	StatePendingApproval State = "pending_approval"
	StateApproved        State = "approved"
	StateDisbursed       State = "disbursed"
	StateCompleted       State = "completed"
	StateRejected        State = "rejected"
)

// Terminal reports whether no further transition can leave the state.
func (s State) Terminal() bool { return s == StateCompleted || s == StateRejected }

// ScheduleLine is one month of the stored amortization schedule.
type ScheduleLine struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// Schedule persists as a JSON column.
type Schedule []ScheduleLine

func (s Schedule) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *Schedule) Scan(src any) error {
	if src == nil {
		*s = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("schedule: unsupported scan type %T", src)
	}
}

type Loan struct {
	ID         uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID     string `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	LoanNumber string `gorm:"size:24;uniqueIndex:ux_loans_loan_number" json:"loan_number"`
	BorrowerID string `gorm:"size:32;index:idx_loans_borrower_active" json:"borrower_id"`

	AmountRequested float64  `gorm:"type:decimal(18,2)" json:"amount_requested"`
	AmountApproved  *float64 `gorm:"type:decimal(18,2)" json:"amount_approved,omitempty"`
	InterestRate    float64  `gorm:"type:decimal(6,3)" json:"interest_rate"`
	TermMonths      int      `json:"term_months"`
	Purpose         string   `gorm:"type:text" json:"purpose"`

	MonthlyPayment     float64  `gorm:"type:decimal(18,2)" json:"monthly_payment"`
	TotalRepayable     float64  `gorm:"type:decimal(18,2)" json:"total_repayable"`
	AmountRepaid       float64  `gorm:"type:decimal(18,2)" json:"amount_repaid"`
	OutstandingBalance float64  `gorm:"type:decimal(18,2)" json:"outstanding_balance"`
	RemainingMonths    int      `json:"remaining_months"`
	AmortSchedule      Schedule `gorm:"column:amortization_schedule;type:json" json:"amortization_schedule,omitempty"`

	State          State     `gorm:"size:20;default:'guarantor_review';index" json:"state"`
	StateUpdatedAt time.Time `gorm:"autoCreateTime" json:"state_updated_at"`

	RequestedAt time.Time  `json:"requested_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	DisbursedAt *time.Time `json:"disbursed_at,omitempty"`
	ApprovedBy  string     `gorm:"size:32" json:"approved_by,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Open reports whether the loan still occupies the borrower's single
// open-loan slot.
func (l *Loan) Open() bool { return !l.State.Terminal() }
