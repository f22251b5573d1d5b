package handler

import (
	"encoding/json"
	"net/http"

	"github.com/edison-alpha/intic-id-sub002/ledger"
	"github.com/edison-alpha/intic-id-sub002/logger"
	"github.com/edison-alpha/intic-id-sub002/model"
	"github.com/edison-alpha/intic-id-sub002/preflight"
	"github.com/edison-alpha/intic-id-sub002/response"
)

func Preflight(checker *preflight.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.PreflightRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil || req.Data == nil || req.Data.Address == "" {
			response.BadRequest("invalid request body", "preflight: address and amount are required").Send(ctx, w)
			return
		}

		result, err := checker.Check(ctx, req.Data.Address, req.Data.Amount, !req.Data.SkipFeeBuffer)
		if err != nil {
			logger.Errorf(ctx, "preflight: unable to check affordability: %+v", err)
			if ledger.IsNetworkError(err) {
				response.IndexerUnavailable().Send(ctx, w)
				return
			}
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.SuccessResponse{
			Data: &response.Data{Preflight: &model.PreflightResult{
				Sufficient: result.Sufficient,
				Balance:    result.Balance,
				Required:   result.Required,
				Shortfall:  result.Shortfall,
			}},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}
