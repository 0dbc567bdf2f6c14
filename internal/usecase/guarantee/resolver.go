package guarantee

import (
	domain "chamasave-backend/internal/domain/guarantee"
)

// Outcome is the aggregate disposition of a loan's guarantees.
type Outcome int

const (
	// OutcomeWaiting: at least one valid guarantor has not answered,
	// or there are no valid guarantors to count.
	OutcomeWaiting Outcome = iota
	// OutcomeConsensus: every valid guarantor accepted.
	OutcomeConsensus
	// OutcomeRejected: some valid guarantor declined. Final.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConsensus:
		return "consensus"
	case OutcomeRejected:
		return "rejected"
	}
	return "waiting"
}

// Resolve computes the consensus outcome from the full set of a loan's
// guarantees. Pledges with a zero amount are ignored. A single decline
// short-circuits: the loan is rejected no matter what the remaining
// guarantors would answer. Pure and re-entrant; safe to call after
// every individual guarantee write.
func Resolve(gs []domain.Guarantee) Outcome {
	valid, accepted := 0, 0
	for i := range gs {
		g := &gs[i]
		if !g.Valid() {
			continue
		}
		valid++
		switch g.Decision {
		case domain.DecisionDeclined:
			return OutcomeRejected
		case domain.DecisionAccepted:
			accepted++
		}
	}
	if valid > 0 && accepted == valid {
		return OutcomeConsensus
	}
	return OutcomeWaiting
}
