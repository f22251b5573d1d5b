package signer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/edison-alpha/intic-id-sub002/logger"
)

const (
	remoteStatusSubmitted = "submitted"
	remoteStatusCancelled = "cancelled"
)

// Remote forwards contract calls to an external signer service (the bridge
// in front of the user's wallet) and maps its answer onto Result variants.
type Remote struct {
	apiAddress string
	httpClient *http.Client
}

func NewRemote(apiAddress string) *Remote {
	return &Remote{
		apiAddress: apiAddress,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

type remoteResponse struct {
	Status string `json:"status"`
	TxID   string `json:"tx_id"`
	Reason string `json:"reason"`
}

func (s *Remote) SignAndBroadcast(ctx context.Context, call ContractCall) Result {
	body, err := json.Marshal(call)
	if err != nil {
		return Result{Kind: Failed, Reason: fmt.Sprintf("unable to encode call: %s", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/v1/sign", s.apiAddress), bytes.NewReader(body))
	if err != nil {
		return Result{Kind: Failed, Reason: fmt.Sprintf("unable to build request: %s", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Result{Kind: Failed, Reason: fmt.Sprintf("signer unreachable: %s", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Kind: Failed, Reason: fmt.Sprintf("signer answered %d", resp.StatusCode)}
	}

	var answer remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return Result{Kind: Failed, Reason: fmt.Sprintf("malformed signer response: %s", err)}
	}

	switch answer.Status {
	case remoteStatusSubmitted:
		logger.Infof(ctx, "signAndBroadcast: signer submitted %s for %s.%s", answer.TxID, call.Contract, call.Function)
		return Result{Kind: Submitted, TxID: answer.TxID}
	case remoteStatusCancelled:
		return Result{Kind: Cancelled}
	default:
		return Result{Kind: Failed, Reason: answer.Reason}
	}
}
