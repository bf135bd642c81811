// Package model defines the core domain types for the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates which way money moved for a loan.
type Direction string

// Loan directions.
const (
	DirectionGiven Direction = "given" // money lent to the counterparty
	DirectionTaken Direction = "taken" // money borrowed from the counterparty
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionGiven || d == DirectionTaken
}

// LoanStatus is the lifecycle state of a loan's shared remote row.
type LoanStatus string

// Loan lifecycle states.
const (
	StatusPending        LoanStatus = "PENDING"
	StatusActive         LoanStatus = "ACTIVE"
	StatusSettledPending LoanStatus = "SETTLED_PENDING"
	StatusSettled        LoanStatus = "SETTLED"
	StatusRejected       LoanStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s LoanStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSettledPending, StatusSettled, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s LoanStatus) Terminal() bool {
	return s == StatusSettled || s == StatusRejected
}

// CanTransition reports whether the lifecycle permits moving from s to next.
// Transitions are monotonic: PENDING→ACTIVE, PENDING→REJECTED,
// ACTIVE→SETTLED_PENDING, SETTLED_PENDING→SETTLED.
func (s LoanStatus) CanTransition(next LoanStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusActive || next == StatusRejected
	case StatusActive:
		return next == StatusSettledPending
	case StatusSettledPending:
		return next == StatusSettled
	default:
		return false
	}
}

// Loan records money owed between the local user and a named counterparty.
// A loan is either private (IsSynced false, visible only locally) or synced
// (IsSynced true, mirrored to a shared remote row that both parties poll).
type Loan struct {
	Date        time.Time       `json:"date"`
	ID          string          `json:"id"`
	RemoteID    string          `json:"remoteId,omitempty"`
	Name        string          `json:"name"`
	Note        string          `json:"note"`
	Direction   Direction       `json:"type"`
	Status      LoanStatus      `json:"status,omitempty"`
	FriendID    string          `json:"friendId,omitempty"`
	FriendPhone string          `json:"friendPhone,omitempty"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Returned    bool            `json:"returned"`
	IsSynced    bool            `json:"isSynced"`
}

// Settled reports whether the loan carries no outstanding obligation.
// For synced loans the remote status is authoritative; for private loans the
// Returned flag is the sole authority.
func (l *Loan) Settled() bool {
	if l.IsSynced {
		return l.Status == StatusSettled
	}
	return l.Returned
}

// Pending reports whether the loan is an unresolved sync request.
func (l *Loan) Pending() bool {
	return l.IsSynced && l.Status == StatusPending
}

// CreatedByUser reports whether the given remote identity initiated the loan.
func (l *Loan) CreatedByUser(userID string) bool {
	return l.CreatedBy != "" && l.CreatedBy == userID
}
