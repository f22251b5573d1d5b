package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edison-alpha/intic-id-sub002/ledger"
	"github.com/edison-alpha/intic-id-sub002/logger"
	"github.com/edison-alpha/intic-id-sub002/model"
	"github.com/edison-alpha/intic-id-sub002/purchase"
	"github.com/edison-alpha/intic-id-sub002/response"
	"github.com/edison-alpha/intic-id-sub002/session"
	"github.com/edison-alpha/intic-id-sub002/signer"
)

func Purchase(service *purchase.Service, sign signer.Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.PurchaseRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil || req.Data == nil || req.Data.Contract == "" || req.Data.Address == "" {
			response.BadRequest("invalid request body", "purchase: contract, price and address are required").Send(ctx, w)
			return
		}

		contract, err := ledger.ParseContractRef(req.Data.Contract)
		if err != nil {
			response.BadRequest("malformed contract id", err.Error()).Send(ctx, w)
			return
		}

		sess := session.New(req.Data.Address, "", sign)
		outcome, err := service.Buy(ctx, sess, contract, req.Data.Price)
		if err != nil {
			logger.Errorf(ctx, "purchase: unable to buy from %s: %+v", contract, err)
			switch {
			case ledger.IsNetworkError(err):
				response.IndexerUnavailable().Send(ctx, w)
			case errors.Is(err, purchase.ErrSigningCancelled):
				response.SigningCancelled().Send(ctx, w)
			case errors.Is(err, purchase.ErrSubmissionFailed):
				response.SubmissionFailed(err.Error()).Send(ctx, w)
			default:
				response.SomethingWrong().Send(ctx, w)
			}
			return
		}

		result := &model.Purchase{Preflight: &model.PreflightResult{
			Sufficient: outcome.Preflight.Sufficient,
			Balance:    outcome.Preflight.Balance,
			Required:   outcome.Preflight.Required,
			Shortfall:  outcome.Preflight.Shortfall,
		}}

		// A short balance is a complete answer, not a failure.
		statusCode := http.StatusOK
		if outcome.Handle != nil {
			ptx := outcome.Handle.Transaction()
			result.Transaction = &model.Transaction{
				TxID:        ptx.TxID,
				Kind:        string(ptx.Kind),
				Status:      outcome.Handle.Result().Status.String(),
				SubmittedAt: ptx.SubmittedAt,
			}
			statusCode = http.StatusAccepted
		}

		response.SuccessResponse{
			Data:       &response.Data{Purchase: result},
			StatusCode: statusCode,
		}.Send(w)
	}
}
