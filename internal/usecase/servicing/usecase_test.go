package servicing

import (
	"context"
	"errors"
	"testing"

	domainLoan "chamasave-backend/internal/domain/loan"
	domainMember "chamasave-backend/internal/domain/member"
	"chamasave-backend/internal/domain/notification"
	"chamasave-backend/internal/domain/transaction"
	"chamasave-backend/internal/testutil/memstore"
	"chamasave-backend/pkg/id"
)

func seedApprovedLoan(t *testing.T, s *memstore.Store, amount, rate float64, months int) (*domainLoan.Loan, *domainMember.Member) {
	t.Helper()
	ctx := context.Background()

	m := &domainMember.Member{
		MemberID: id.NewID32(),
		FullName: "Borrower",
		Status:   domainMember.StatusActive,
	}
	if err := s.Repos().Members.Create(ctx, m); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	l := &domainLoan.Loan{
		LoanID:             id.NewID32(),
		LoanNumber:         "LN-20260831-SRVC01",
		BorrowerID:         m.MemberID,
		AmountRequested:    amount,
		AmountApproved:     &amount,
		InterestRate:       rate,
		TermMonths:         months,
		OutstandingBalance: amount,
		RemainingMonths:    months,
		State:              domainLoan.StateApproved,
	}
	if err := s.Repos().Loans.Create(ctx, l); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l, m
}

func TestDisburse(t *testing.T) {
	s := memstore.New()
	l, m := seedApprovedLoan(t, s, 10_000, 12, 12)
	uc := NewUsecase(s, nil, nil)
	actor := "a0000000000000000000000000000000"

	res, err := uc.Disburse(context.Background(), l.LoanID, actor)
	if err != nil {
		t.Fatalf("Disburse: %v", err)
	}
	if res.Loan.State != domainLoan.StateDisbursed || res.Loan.DisbursedAt == nil {
		t.Fatalf("loan not marked disbursed: %+v", res.Loan)
	}

	// Borrower's savings got the money, with its paired ledger row
	if m.AccountBalance != 10_000 {
		t.Fatalf("borrower balance = %v, want 10000", m.AccountBalance)
	}
	tx := res.Transaction
	if tx.Type != transaction.TypeLoanDisbursement || tx.Amount != 10_000 {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if tx.BalanceBefore != 0 || tx.BalanceAfter != 10_000 {
		t.Fatalf("balance chain broken: before=%v after=%v", tx.BalanceBefore, tx.BalanceAfter)
	}

	ns, _ := s.Repos().Notifications.ListByMemberID(context.Background(), m.MemberID)
	if len(ns) != 1 || ns[0].Type != notification.TypeLoanDisbursed {
		t.Fatalf("disbursement notification missing: %+v", ns)
	}

	// Double disbursement is blocked by state
	if _, err := uc.Disburse(context.Background(), l.LoanID, actor); !errors.Is(err, domainLoan.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second disburse, got %v", err)
	}
}

func TestDisburse_WrongState(t *testing.T) {
	s := memstore.New()
	l, _ := seedApprovedLoan(t, s, 10_000, 12, 12)
	l.State = domainLoan.StatePendingApproval
	uc := NewUsecase(s, nil, nil)

	if _, err := uc.Disburse(context.Background(), l.LoanID, "a0000000000000000000000000000000"); !errors.Is(err, domainLoan.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestRecordRepayment_Partial(t *testing.T) {
	s := memstore.New()
	l, m := seedApprovedLoan(t, s, 1_000, 12, 12)
	uc := NewUsecase(s, nil, nil)
	actor := "a0000000000000000000000000000000"
	ctx := context.Background()

	if _, err := uc.Disburse(ctx, l.LoanID, actor); err != nil {
		t.Fatalf("Disburse: %v", err)
	}

	res, err := uc.RecordRepayment(ctx, l.LoanID, 50, "first installment", actor)
	if err != nil {
		t.Fatalf("RecordRepayment: %v", err)
	}

	rp := res.Repayment
	if rp.InterestPortion != 10 || rp.PrincipalPortion != 40 {
		t.Fatalf("allocation = interest %v / principal %v, want 10/40", rp.InterestPortion, rp.PrincipalPortion)
	}
	if res.Loan.OutstandingBalance != 960 || res.Loan.AmountRepaid != 50 {
		t.Fatalf("loan totals wrong: outstanding=%v repaid=%v", res.Loan.OutstandingBalance, res.Loan.AmountRepaid)
	}
	if res.Loan.State != domainLoan.StateDisbursed {
		t.Fatalf("partial repayment must keep the loan disbursed, got %s", res.Loan.State)
	}
	if res.Loan.RemainingMonths != 11 {
		t.Fatalf("remaining months = %d, want 11", res.Loan.RemainingMonths)
	}

	// Savings debited: 1000 disbursed - 50 repaid
	if m.AccountBalance != 950 {
		t.Fatalf("borrower balance = %v, want 950", m.AccountBalance)
	}
	latest, err := s.Repos().Transactions.LatestByMemberID(ctx, m.MemberID)
	if err != nil {
		t.Fatalf("LatestByMemberID: %v", err)
	}
	if latest.Type != transaction.TypeLoanRepayment || latest.BalanceAfter != m.AccountBalance {
		t.Fatalf("ledger row out of step with balance: %+v", latest)
	}
}

func TestRecordRepayment_Payoff(t *testing.T) {
	s := memstore.New()
	l, m := seedApprovedLoan(t, s, 100, 0, 1)
	uc := NewUsecase(s, nil, nil)
	actor := "a0000000000000000000000000000000"
	ctx := context.Background()

	if _, err := uc.Disburse(ctx, l.LoanID, actor); err != nil {
		t.Fatalf("Disburse: %v", err)
	}

	res, err := uc.RecordRepayment(ctx, l.LoanID, 100, "", actor)
	if err != nil {
		t.Fatalf("RecordRepayment: %v", err)
	}
	if res.Loan.State != domainLoan.StateCompleted {
		t.Fatalf("full repayment must complete the loan, got %s", res.Loan.State)
	}
	if res.Loan.OutstandingBalance != 0 {
		t.Fatalf("outstanding = %v, want 0", res.Loan.OutstandingBalance)
	}

	// Completion notification on top of the disbursement one
	ns, _ := s.Repos().Notifications.ListByMemberID(ctx, m.MemberID)
	var completed bool
	for _, n := range ns {
		if n.Type == notification.TypeLoanCompleted {
			completed = true
		}
	}
	if !completed {
		t.Fatalf("completion notification missing: %+v", ns)
	}

	// Terminal: further repayments rejected
	if _, err := uc.RecordRepayment(ctx, l.LoanID, 10, "", actor); !errors.Is(err, domainLoan.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after completion, got %v", err)
	}
}

func TestRecordRepayment_InvalidAmount(t *testing.T) {
	s := memstore.New()
	l, _ := seedApprovedLoan(t, s, 1_000, 12, 12)
	uc := NewUsecase(s, nil, nil)

	for _, amt := range []float64{0, -10} {
		if _, err := uc.RecordRepayment(context.Background(), l.LoanID, amt, "", "a0000000000000000000000000000000"); !errors.Is(err, domainLoan.ErrInvalidAmount) {
			t.Fatalf("amount %v: expected ErrInvalidAmount, got %v", amt, err)
		}
	}
}

func TestRecordRepayment_RequiresDisbursedState(t *testing.T) {
	s := memstore.New()
	l, _ := seedApprovedLoan(t, s, 1_000, 12, 12)
	uc := NewUsecase(s, nil, nil)

	// still approved, not disbursed
	if _, err := uc.RecordRepayment(context.Background(), l.LoanID, 50, "", "a0000000000000000000000000000000"); !errors.Is(err, domainLoan.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestRecordRepayment_InsufficientSavings(t *testing.T) {
	s := memstore.New()
	l, m := seedApprovedLoan(t, s, 1_000, 12, 12)
	uc := NewUsecase(s, nil, nil)
	actor := "a0000000000000000000000000000000"
	ctx := context.Background()

	if _, err := uc.Disburse(ctx, l.LoanID, actor); err != nil {
		t.Fatalf("Disburse: %v", err)
	}
	// Drain the savings below the repayment amount
	m.AccountBalance = 10

	if _, err := uc.RecordRepayment(ctx, l.LoanID, 50, "", actor); !errors.Is(err, domainMember.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}
