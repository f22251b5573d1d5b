package cache

import (
	"fmt"

	"github.com/edison-alpha/intic-id-sub002/ledger"
)

// Cache keys are shared between the read paths and the invalidation sets
// attached to pending transactions, so they are built in exactly one place.

func BalanceKey(principal string) string {
	return fmt.Sprintf("balance:%s", principal)
}

func TicketKey(contract ledger.ContractRef, tokenID uint64) string {
	return fmt.Sprintf("ticket:%s:%d", contract, tokenID)
}

func AnalyticsKey(contract ledger.ContractRef) string {
	return fmt.Sprintf("analytics:%s", contract)
}
