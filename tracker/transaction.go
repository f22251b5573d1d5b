package tracker

import (
	"time"

	"github.com/edison-alpha/intic-id-sub002/ledger"
)

// Kind tags what a pending transaction is trying to do. Every write path in
// the system (buying, checking in, registering an event, deploying its
// contract) funnels through the same tracker.
type Kind string

const (
	KindPurchase     Kind = "purchase"
	KindCheckIn      Kind = "check-in"
	KindRegistration Kind = "registration"
	KindDeploy       Kind = "deploy"
)

type Status int

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusAborted
	StatusTimedOut

	// StatusAbandoned means the caller cancelled tracking before a terminal
	// outcome was observed. It says nothing about what the ledger did.
	StatusAbandoned
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusAborted:
		return "aborted"
	case StatusTimedOut:
		return "timed-out"
	case StatusAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// Terminal reports whether s is one of the three ledger-decided outcomes.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusAborted || s == StatusTimedOut
}

// PendingTransaction is the coordinator's own record of an in-flight write.
// It is session-resident only; on restart everything here is re-derivable
// from the ledger.
type PendingTransaction struct {
	TxID         string
	Kind         Kind
	Sender       string
	SubmittedAt  time.Time
	AffectedKeys []string
}

// Result is a snapshot of a tracked transaction. Reason is only set for
// StatusAborted.
type Result struct {
	Status Status
	Reason ledger.AbortReason
}
