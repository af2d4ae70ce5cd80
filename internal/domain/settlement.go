package domain

import "time"

// SettlementStatus enumerates revenue recognition states.
type SettlementStatus string

const (
	SettlementPending  SettlementStatus = "pending"
	SettlementInvoiced SettlementStatus = "invoiced"
	SettlementPaid     SettlementStatus = "paid"
)

var settlementTransitions = map[SettlementStatus][]SettlementStatus{
	SettlementPending:  {SettlementInvoiced, SettlementPaid},
	SettlementInvoiced: {SettlementPaid},
	SettlementPaid:     {},
}

// Valid reports whether s is a known settlement status.
func (s SettlementStatus) Valid() bool {
	_, ok := settlementTransitions[s]
	return ok
}

// CanTransition reports whether a settlement may move from s to next.
func (s SettlementStatus) CanTransition(next SettlementStatus) bool {
	for _, candidate := range settlementTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Settlement is a periodic revenue-recognition record tied to a project.
// Period has the form YYYY-MM.
type Settlement struct {
	ID         string
	ProjectID  string
	Period     string
	Amount     int64
	Status     SettlementStatus
	InvoicedAt *time.Time
	PaidAt     *time.Time
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
