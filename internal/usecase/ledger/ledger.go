// Package ledger is the single writer of member balances. Every
// mutation is paired with one append-only transaction row carrying the
// balance before and after, inside the same database transaction.
package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"chamasave-backend/internal/domain/member"
	"chamasave-backend/internal/domain/transaction"
	"chamasave-backend/internal/domain/uow"
	"chamasave-backend/pkg/id"
	"chamasave-backend/pkg/metrics"
)

// Entry is one balance-affecting event to post.
type Entry struct {
	MemberID    string
	Type        transaction.Type
	Amount      float64
	Description string
	Reference   string
	RecordedBy  string
}

// Post applies an entry to the member's balance and writes the paired
// transaction row. It must run inside a unit of work; the member row is
// locked for the rest of the surrounding transaction.
func Post(ctx context.Context, r uow.Repos, e Entry) (*transaction.Transaction, error) {
	amt := decimal.NewFromFloat(e.Amount).Round(2)
	if !amt.IsPositive() {
		return nil, transaction.ErrInvalidAmount
	}

	m, err := r.Members.GetByMemberIDForUpdate(ctx, e.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrNotFound
		}
		return nil, err
	}

	before := decimal.NewFromFloat(m.AccountBalance)
	var after decimal.Decimal
	if e.Type.Credit() {
		after = before.Add(amt)
	} else {
		after = before.Sub(amt)
		if after.IsNegative() {
			return nil, member.ErrInsufficientFunds
		}
	}
	after = after.Round(2)

	m.AccountBalance = after.InexactFloat64()
	if e.Type == transaction.TypeContribution {
		m.TotalContributions = decimal.NewFromFloat(m.TotalContributions).Add(amt).Round(2).InexactFloat64()
	}
	if err := r.Members.Save(ctx, m); err != nil {
		return nil, err
	}

	ref := e.Reference
	if ref == "" {
		ref = uuid.NewString()
	}
	t := &transaction.Transaction{
		TransactionID: id.NewID32(),
		MemberID:      e.MemberID,
		Type:          e.Type,
		Amount:        amt.InexactFloat64(),
		BalanceBefore: before.Round(2).InexactFloat64(),
		BalanceAfter:  after.InexactFloat64(),
		Reference:     ref,
		Description:   e.Description,
		RecordedBy:    e.RecordedBy,
	}
	if err := r.Transactions.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Service exposes the member-facing savings operations on top of Post.
type Service struct {
	uow          uow.UnitOfWork
	transactions transaction.Repository
	metrics      *metrics.Collector
}

func NewService(u uow.UnitOfWork, txns transaction.Repository, mc *metrics.Collector) *Service {
	return &Service{uow: u, transactions: txns, metrics: mc}
}

// Deposit credits the member's savings. When asContribution is set the
// amount also counts toward total_contributions.
func (s *Service) Deposit(ctx context.Context, memberID string, amount float64, asContribution bool, actorID string) (*transaction.Transaction, error) {
	typ := transaction.TypeDeposit
	desc := "Savings deposit"
	if asContribution {
		typ = transaction.TypeContribution
		desc = "Member contribution"
	}
	var out *transaction.Transaction
	err := s.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := Post(ctx, r, Entry{
			MemberID:    memberID,
			Type:        typ,
			Amount:      amount,
			Description: desc,
			RecordedBy:  actorID,
		})
		out = t
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.LedgerPosting(string(typ))
	return out, nil
}

// Withdraw debits the member's savings; rejects overdrafts.
func (s *Service) Withdraw(ctx context.Context, memberID string, amount float64, actorID string) (*transaction.Transaction, error) {
	var out *transaction.Transaction
	err := s.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := Post(ctx, r, Entry{
			MemberID:    memberID,
			Type:        transaction.TypeWithdrawal,
			Amount:      amount,
			Description: "Savings withdrawal",
			RecordedBy:  actorID,
		})
		out = t
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.LedgerPosting(string(transaction.TypeWithdrawal))
	return out, nil
}

func (s *Service) Transactions(ctx context.Context, memberID string) ([]transaction.Transaction, error) {
	return s.transactions.ListByMemberID(ctx, memberID)
}
