package checkin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edison-alpha/intic-id-sub002/ledger"
	"github.com/edison-alpha/intic-id-sub002/logger"
	"github.com/edison-alpha/intic-id-sub002/monitoring"

	"github.com/google/uuid"
)

type Decision int

const (
	DecisionValid Decision = iota
	DecisionAlreadyUsed
	DecisionExpired
	DecisionTooEarly
	DecisionNotFound
)

func (d Decision) String() string {
	switch d {
	case DecisionValid:
		return "valid"
	case DecisionAlreadyUsed:
		return "already-used"
	case DecisionExpired:
		return "expired"
	case DecisionTooEarly:
		return "too-early"
	case DecisionNotFound:
		return "not-found"
	}
	return "unknown"
}

func (d Decision) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

// Outcome is the validator's answer for one scan. Owner is the ticket owner
// as read from the ledger at validation time and is only set for
// DecisionValid.
type Outcome struct {
	Decision Decision
	Owner    string
}

// Validator classifies a scanned ticket against the admission window.
//
// Checks run in a fixed order and the first match wins: missing ticket,
// used flag, expiry, early window, then valid. Used always beats the time
// checks because it is an irreversible ledger fact, while the windows are
// advisory guidance for venue staff.
type Validator struct {
	ledger      ledger.Ledger
	gracePeriod time.Duration
	earlyWindow time.Duration
	history     *History
	now         func() time.Time
}

// NewValidator returns a Validator reading through l. gracePeriod is how
// long after the event start check-in stays open; earlyWindow how long
// before.
func NewValidator(l ledger.Ledger, gracePeriod, earlyWindow time.Duration, history *History) *Validator {
	return &Validator{
		ledger:      l,
		gracePeriod: gracePeriod,
		earlyWindow: earlyWindow,
		history:     history,
		now:         time.Now,
	}
}

// Validate decides whether the ticket can be admitted right now. A ledger
// decision (including "no such ticket") is a first-class outcome; only an
// unreachable indexer or a malformed ticket record is an error, and the
// caller must treat that as indeterminate.
func (v *Validator) Validate(ctx context.Context, contract ledger.ContractRef, tokenID uint64) (*Outcome, error) {
	ticket, err := v.ledger.Ticket(ctx, contract, tokenID)
	if err != nil {
		if errors.Is(err, ledger.ErrTicketNotFound) {
			return v.decide(ctx, contract, tokenID, "", DecisionNotFound), nil
		}
		return nil, fmt.Errorf("validate: unable to read ticket %d of %s: %w", tokenID, contract, err)
	}

	if ticket.Used {
		return v.decide(ctx, contract, tokenID, ticket.Owner, DecisionAlreadyUsed), nil
	}

	eventStart, err := ticket.EventStart()
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	now := v.now()
	if now.After(eventStart.Add(v.gracePeriod)) {
		return v.decide(ctx, contract, tokenID, ticket.Owner, DecisionExpired), nil
	}
	if now.Before(eventStart.Add(-v.earlyWindow)) {
		return v.decide(ctx, contract, tokenID, ticket.Owner, DecisionTooEarly), nil
	}

	return v.decide(ctx, contract, tokenID, ticket.Owner, DecisionValid), nil
}

func (v *Validator) decide(ctx context.Context, contract ledger.ContractRef, tokenID uint64, owner string, decision Decision) *Outcome {
	monitoring.TrackCheckInDecision(decision.String())
	attempt := Attempt{
		ID:        uuid.NewString(),
		Contract:  contract,
		TokenID:   tokenID,
		Owner:     owner,
		Decision:  decision,
		Timestamp: v.now(),
	}
	v.history.Append(attempt)
	logger.Infof(ctx, "validate: token %d of %s: %s", tokenID, contract, decision)

	outcome := &Outcome{Decision: decision}
	if decision == DecisionValid {
		outcome.Owner = owner
	}
	return outcome
}
