package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edison-alpha/intic-id-sub002/checkin"
	"github.com/edison-alpha/intic-id-sub002/ledger"
	"github.com/edison-alpha/intic-id-sub002/logger"
	"github.com/edison-alpha/intic-id-sub002/model"
	"github.com/edison-alpha/intic-id-sub002/response"
	"github.com/edison-alpha/intic-id-sub002/session"
	"github.com/edison-alpha/intic-id-sub002/signer"
)

// Scan validates a scanned check-in point payload plus token id and answers
// with a classified decision. It never mutates the ticket.
func Scan(validator *checkin.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.ScanRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil || req.Data == nil || req.Data.Payload == "" {
			response.BadRequest("invalid request body", "scan: payload and token_id are required").Send(ctx, w)
			return
		}

		contract, err := checkin.ParseQR(req.Data.Payload)
		if err != nil {
			logger.Warnf(ctx, "scan: rejected payload: %+v", err)
			response.InvalidQRPayload(err.Error()).Send(ctx, w)
			return
		}

		outcome, err := validator.Validate(ctx, contract, req.Data.TokenID)
		if err != nil {
			logger.Errorf(ctx, "scan: unable to validate token %d: %+v", req.Data.TokenID, err)
			if ledger.IsNetworkError(err) {
				response.IndexerUnavailable().Send(ctx, w)
				return
			}
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data: &response.Data{CheckIn: &model.CheckInResult{
				Contract: contract.String(),
				TokenID:  req.Data.TokenID,
				Decision: outcome.Decision.String(),
				Owner:    outcome.Owner,
			}},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// Commit submits the mark-used transaction for a ticket the staff already
// validated, and answers as soon as it is broadcast.
func Commit(committer *checkin.Committer, sign signer.Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.CommitRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil || req.Data == nil || req.Data.Contract == "" || req.Data.Address == "" {
			response.BadRequest("invalid request body", "commit: contract, token_id and address are required").Send(ctx, w)
			return
		}

		contract, err := ledger.ParseContractRef(req.Data.Contract)
		if err != nil {
			response.BadRequest("malformed contract id", err.Error()).Send(ctx, w)
			return
		}

		sess := session.New(req.Data.Address, "", sign)
		handle, err := committer.Commit(ctx, sess, contract, req.Data.TokenID)
		if err != nil {
			logger.Errorf(ctx, "commit: unable to commit token %d: %+v", req.Data.TokenID, err)
			switch {
			case errors.Is(err, checkin.ErrCommitInFlight):
				response.CommitInFlight().Send(ctx, w)
			case errors.Is(err, checkin.ErrSigningCancelled):
				response.SigningCancelled().Send(ctx, w)
			case errors.Is(err, checkin.ErrSubmissionFailed):
				response.SubmissionFailed(err.Error()).Send(ctx, w)
			default:
				response.SomethingWrong().Send(ctx, w)
			}
			return
		}

		ptx := handle.Transaction()
		response.SuccessResponse{
			Data: &response.Data{Transaction: &model.Transaction{
				TxID:        ptx.TxID,
				Kind:        string(ptx.Kind),
				Status:      handle.Result().Status.String(),
				SubmittedAt: ptx.SubmittedAt,
			}},
			StatusCode: http.StatusAccepted,
		}.Send(w)
	}
}

// History lists this session's scan attempts, newest first.
func History(history *checkin.History) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempts := history.List()
		out := make([]model.CheckInAttempt, 0, len(attempts))
		for _, a := range attempts {
			out = append(out, model.CheckInAttempt{
				ID:        a.ID,
				Contract:  a.Contract.String(),
				TokenID:   a.TokenID,
				Owner:     a.Owner,
				Decision:  a.Decision.String(),
				Timestamp: a.Timestamp,
			})
		}

		response.SuccessResponse{
			Data:       &response.Data{History: out},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}
