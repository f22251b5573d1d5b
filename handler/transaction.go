package handler

import (
	"net/http"

	"github.com/edison-alpha/intic-id-sub002/model"
	"github.com/edison-alpha/intic-id-sub002/response"
	"github.com/edison-alpha/intic-id-sub002/tracker"

	"github.com/gorilla/mux"
)

// TransactionStatus reports the tracked state of an in-flight transaction.
// Only transactions resident in this process are known; anything else has to
// be looked up on the ledger directly.
func TransactionStatus(t *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		txID := mux.Vars(r)["txID"]
		handle, ok := t.Lookup(txID)
		if !ok {
			response.TransactionNotFound().Send(ctx, w)
			return
		}

		result := handle.Result()
		ptx := handle.Transaction()

		message := ""
		switch result.Status {
		case tracker.StatusAborted:
			message = result.Reason.Message()
		case tracker.StatusTimedOut:
			// Not a failure: the effect may still land.
			message = "Still waiting on the ledger, check back later"
		}

		response.SuccessResponse{
			Data: &response.Data{Transaction: &model.Transaction{
				TxID:        ptx.TxID,
				Kind:        string(ptx.Kind),
				Status:      result.Status.String(),
				Message:     message,
				SubmittedAt: ptx.SubmittedAt,
			}},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}

// CancelTransaction abandons tracking. Best effort only: the ledger may
// still apply the transaction, and nobody will invalidate caches for it.
func CancelTransaction(t *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		txID := mux.Vars(r)["txID"]
		handle, ok := t.Lookup(txID)
		if !ok {
			response.TransactionNotFound().Send(ctx, w)
			return
		}

		handle.Cancel()
		t.Forget(txID)

		ptx := handle.Transaction()
		response.SuccessResponse{
			Data: &response.Data{Transaction: &model.Transaction{
				TxID:        ptx.TxID,
				Kind:        string(ptx.Kind),
				Status:      tracker.StatusAbandoned.String(),
				SubmittedAt: ptx.SubmittedAt,
			}},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}
