package response

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/edison-alpha/intic-id-sub002/logger"
)

type ErrorResponse struct {
	StatusCode  int
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Status      string `json:"status"`
	Description string
}

func (r ErrorResponse) Error() string {
	return fmt.Sprintf("StatusCode: %d, Success: %t, Message: %s, Status: %s, Description: %s", r.StatusCode, r.Success, r.Message, r.Status, r.Description)
}

func (r ErrorResponse) Send(ctx context.Context, w http.ResponseWriter) {
	logger.Errorf(ctx, r.Error())
	w.WriteHeader(r.StatusCode)
	json.NewEncoder(w).Encode(r)
}

func BadRequest(message, description string) ErrorResponse {
	return ErrorResponse{
		StatusCode:  http.StatusBadRequest,
		Success:     false,
		Message:     message,
		Status:      "BAD_REQUEST",
		Description: description,
	}
}

func ResourceNotFound(message, description string) ErrorResponse {
	return ErrorResponse{
		StatusCode:  http.StatusNotFound,
		Success:     false,
		Message:     message,
		Status:      "NOT_FOUND",
		Description: description,
	}
}

func SomethingWrong() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Success:    false,
		Message:    "Sorry, Something went wrong",
		Status:     "SOMETHING_WRONG",
	}
}

// IndexerUnavailable is the classified answer for any ledger read the
// coordinator could not complete. It means "unknown", never "no".
func IndexerUnavailable() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusServiceUnavailable,
		Success:    false,
		Message:    "The ledger is unreachable right now, please retry",
		Status:     "INDEXER_UNAVAILABLE",
	}
}

func InvalidQRPayload(description string) ErrorResponse {
	return ErrorResponse{
		StatusCode:  http.StatusBadRequest,
		Success:     false,
		Message:     "Not a valid check-in code",
		Status:      "INVALID_QR_PAYLOAD",
		Description: description,
	}
}

func SubmissionFailed(description string) ErrorResponse {
	return ErrorResponse{
		StatusCode:  http.StatusBadGateway,
		Success:     false,
		Message:     "The transaction could not be submitted",
		Status:      "SUBMISSION_FAILED",
		Description: description,
	}
}

func SigningCancelled() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusConflict,
		Success:    false,
		Message:    "Signing was cancelled in the wallet",
		Status:     "SIGNING_CANCELLED",
	}
}

func CommitInFlight() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusConflict,
		Success:    false,
		Message:    "A check-in for this ticket is already being confirmed",
		Status:     "COMMIT_IN_FLIGHT",
	}
}

func TransactionNotFound() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusNotFound,
		Success:    false,
		Message:    "No tracked transaction with that id",
		Status:     "TRANSACTION_NOT_FOUND",
	}
}
