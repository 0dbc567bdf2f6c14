package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schemas only for tests (no ENUM, no MySQL decimal) ---

type loanSQLite struct {
	ID                 uint64         `gorm:"primaryKey;column:id"`
	LoanID             string         `gorm:"size:32;column:loan_id"`
	LoanNumber         string         `gorm:"size:24;column:loan_number"`
	BorrowerID         string         `gorm:"size:32;column:borrower_id"`
	AmountRequested    float64        `gorm:"column:amount_requested"`
	AmountApproved     *float64       `gorm:"column:amount_approved"`
	InterestRate       float64        `gorm:"column:interest_rate"`
	TermMonths         int            `gorm:"column:term_months"`
	Purpose            string         `gorm:"column:purpose"`
	MonthlyPayment     float64        `gorm:"column:monthly_payment"`
	TotalRepayable     float64        `gorm:"column:total_repayable"`
	AmountRepaid       float64        `gorm:"column:amount_repaid"`
	OutstandingBalance float64        `gorm:"column:outstanding_balance"`
	RemainingMonths    int            `gorm:"column:remaining_months"`
	AmortSchedule      []byte         `gorm:"column:amortization_schedule"`
	State              string         `gorm:"type:text;column:state"` // ← no enum
	StateUpdatedAt     time.Time      `gorm:"column:state_updated_at"`
	RequestedAt        time.Time      `gorm:"column:requested_at"`
	ApprovedAt         *time.Time     `gorm:"column:approved_at"`
	DisbursedAt        *time.Time     `gorm:"column:disbursed_at"`
	ApprovedBy         string         `gorm:"column:approved_by"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (loanSQLite) TableName() string { return "loans" }

type memberSQLite struct {
	ID                 uint64         `gorm:"primaryKey;column:id"`
	MemberID           string         `gorm:"size:32;column:member_id"`
	FullName           string         `gorm:"column:full_name"`
	Email              string         `gorm:"column:email"`
	Status             string         `gorm:"type:text;column:status"`
	AccountBalance     float64        `gorm:"column:account_balance"`
	TotalContributions float64        `gorm:"column:total_contributions"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (memberSQLite) TableName() string { return "members" }

type guaranteeSQLite struct {
	ID               uint64     `gorm:"primaryKey;column:id"`
	LoanID           uint64     `gorm:"column:loan_id;uniqueIndex:ux_guarantees_loan_guarantor"`
	GuarantorID      string     `gorm:"size:32;column:guarantor_id;uniqueIndex:ux_guarantees_loan_guarantor"`
	AmountGuaranteed float64    `gorm:"column:amount_guaranteed"`
	Decision         string     `gorm:"type:text;column:decision"`
	RespondedAt      *time.Time `gorm:"column:responded_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (guaranteeSQLite) TableName() string { return "loan_guarantees" }

type repaymentSQLite struct {
	ID               uint64    `gorm:"primaryKey;column:id"`
	RepaymentID      string    `gorm:"size:32;column:repayment_id"`
	LoanID           uint64    `gorm:"column:loan_id"`
	Amount           float64   `gorm:"column:amount"`
	InterestPortion  float64   `gorm:"column:interest_portion"`
	PrincipalPortion float64   `gorm:"column:principal_portion"`
	Notes            string    `gorm:"column:notes"`
	RecordedBy       string    `gorm:"column:recorded_by"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (repaymentSQLite) TableName() string { return "loan_repayments" }

type transactionSQLite struct {
	ID            uint64    `gorm:"primaryKey;column:id"`
	TransactionID string    `gorm:"size:32;column:transaction_id"`
	MemberID      string    `gorm:"size:32;column:member_id"`
	Type          string    `gorm:"type:text;column:transaction_type"`
	Amount        float64   `gorm:"column:amount"`
	BalanceBefore float64   `gorm:"column:balance_before"`
	BalanceAfter  float64   `gorm:"column:balance_after"`
	Reference     string    `gorm:"column:reference"`
	Description   string    `gorm:"column:description"`
	RecordedBy    string    `gorm:"column:recorded_by"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (transactionSQLite) TableName() string { return "transactions" }

type notificationSQLite struct {
	ID             uint64     `gorm:"primaryKey;column:id"`
	NotificationID string     `gorm:"size:32;column:notification_id"`
	MemberID       string     `gorm:"size:32;column:member_id"`
	Role           string     `gorm:"column:role"`
	Type           string     `gorm:"column:type"`
	Title          string     `gorm:"column:title"`
	Message        string     `gorm:"column:message"`
	Metadata       []byte     `gorm:"column:metadata"`
	SentAt         *time.Time `gorm:"column:sent_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
}

func (notificationSQLite) TableName() string { return "notifications" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe schemas.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// IMPORTANT: migrate the sqlite-safe models, NOT the domain models.
	if err := db.AutoMigrate(
		&loanSQLite{}, &memberSQLite{}, &guaranteeSQLite{},
		&repaymentSQLite{}, &transactionSQLite{}, &notificationSQLite{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
