package response

import (
	"encoding/json"
	"net/http"

	"github.com/edison-alpha/intic-id-sub002/model"
)

type SuccessResponse struct {
	Data       *Data `json:"data"`
	StatusCode int   `json:"-"`
}

type Data struct {
	Preflight   *model.PreflightResult `json:"preflight,omitempty"`
	CheckIn     *model.CheckInResult   `json:"check_in,omitempty"`
	Transaction *model.Transaction     `json:"transaction,omitempty"`
	Purchase    *model.Purchase        `json:"purchase,omitempty"`
	History     []model.CheckInAttempt `json:"history,omitempty"`
	CacheStats  model.CacheStats       `json:"cache_stats,omitempty"`
}

func (r SuccessResponse) Send(w http.ResponseWriter) {
	w.WriteHeader(r.StatusCode)
	json.NewEncoder(w).Encode(r)
}
