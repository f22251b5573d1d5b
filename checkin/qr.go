package checkin

import (
	"fmt"
	"strings"

	"github.com/edison-alpha/intic-id-sub002/ledger"
)

// qrTag is the literal prefix of a check-in point payload. The payload
// identifies the venue's contract, not a specific ticket; the scanning
// attendee's own session supplies the token id.
const qrTag = "checkin:"

// ParseQR extracts the contract reference from a scanned check-in payload.
// Some scanner apps prepend a URL scheme to anything they read, so a leading
// "<scheme>://" is stripped before the tag check. Trailing junk after the
// contract id (another scanner habit) is ignored.
func ParseQR(payload string) (ledger.ContractRef, error) {
	trimmed := strings.TrimSpace(payload)
	if idx := strings.Index(trimmed, "://"); idx >= 0 {
		trimmed = trimmed[idx+len("://"):]
	}

	if !strings.HasPrefix(trimmed, qrTag) {
		return ledger.ContractRef{}, fmt.Errorf("parseQR: not a check-in payload: %q", payload)
	}

	ref := strings.TrimPrefix(trimmed, qrTag)
	if idx := strings.Index(ref, ":"); idx >= 0 {
		ref = ref[:idx]
	}

	contract, err := ledger.ParseContractRef(ref)
	if err != nil {
		return ledger.ContractRef{}, fmt.Errorf("parseQR: %w", err)
	}
	return contract, nil
}
