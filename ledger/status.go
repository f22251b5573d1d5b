package ledger

import "strings"

type TxState int

const (
	TxStatePending TxState = iota
	TxStateSuccess
	TxStateAborted
)

func (s TxState) String() string {
	switch s {
	case TxStatePending:
		return "pending"
	case TxStateSuccess:
		return "success"
	case TxStateAborted:
		return "aborted"
	}
	return "unknown"
}

// TxStatus is the indexer's answer for one transaction id. Reason is only
// meaningful when State is TxStateAborted.
type TxStatus struct {
	TxID   string
	State  TxState
	Reason AbortReason
}

// AbortReason is the closed set of ledger-level rejection codes the
// coordinator understands. Anything the contract emits outside this set maps
// to ReasonUnknown; the coordinator never inspects error prose.
type AbortReason int

const (
	ReasonNone AbortReason = iota
	ReasonSoldOut
	ReasonTicketAlreadyUsed
	ReasonEventCancelled
	ReasonInsufficientFunds
	ReasonNotTicketOwner
	ReasonPostCondition
	ReasonUnknown
)

// contractErrCodes maps the ticket contract's (err uNNN) result codes.
var contractErrCodes = map[string]AbortReason{
	"u100": ReasonSoldOut,
	"u101": ReasonTicketAlreadyUsed,
	"u102": ReasonEventCancelled,
	"u103": ReasonInsufficientFunds,
	"u104": ReasonNotTicketOwner,
}

// decodeAbortReason classifies a raw tx_result repr such as "(err u101)".
func decodeAbortReason(status, repr string) AbortReason {
	if status == txStatusAbortByPostCondition {
		return ReasonPostCondition
	}
	repr = strings.TrimSpace(repr)
	if strings.HasPrefix(repr, "(err ") && strings.HasSuffix(repr, ")") {
		code := strings.TrimSuffix(strings.TrimPrefix(repr, "(err "), ")")
		if reason, ok := contractErrCodes[code]; ok {
			return reason
		}
	}
	return ReasonUnknown
}

// Message is the operator-facing text for an abort. Unrecognized codes get
// the generic message rather than a guess.
func (r AbortReason) Message() string {
	switch r {
	case ReasonSoldOut:
		return "The event is sold out"
	case ReasonTicketAlreadyUsed:
		return "This ticket has already been used"
	case ReasonEventCancelled:
		return "The event has been cancelled"
	case ReasonInsufficientFunds:
		return "Insufficient funds to complete the purchase"
	case ReasonNotTicketOwner:
		return "The connected wallet does not own this ticket"
	case ReasonPostCondition:
		return "The transaction was rejected by a safety check"
	}
	return "The transaction was rejected by the ledger"
}

func (r AbortReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonSoldOut:
		return "sold_out"
	case ReasonTicketAlreadyUsed:
		return "already_used"
	case ReasonEventCancelled:
		return "event_cancelled"
	case ReasonInsufficientFunds:
		return "insufficient_funds"
	case ReasonNotTicketOwner:
		return "not_owner"
	case ReasonPostCondition:
		return "post_condition"
	}
	return "unknown"
}
