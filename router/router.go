package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/edison-alpha/intic-id-sub002/cache"
	"github.com/edison-alpha/intic-id-sub002/checkin"
	"github.com/edison-alpha/intic-id-sub002/config"
	"github.com/edison-alpha/intic-id-sub002/factory"
	"github.com/edison-alpha/intic-id-sub002/handler"
	"github.com/edison-alpha/intic-id-sub002/healthcheck"
	"github.com/edison-alpha/intic-id-sub002/middleware"
	"github.com/edison-alpha/intic-id-sub002/preflight"
	"github.com/edison-alpha/intic-id-sub002/purchase"
	"github.com/edison-alpha/intic-id-sub002/response"
	"github.com/edison-alpha/intic-id-sub002/signer"
	"github.com/edison-alpha/intic-id-sub002/tracker"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

// Router wires the coordinator and returns the router for all the API
// handlers.
func Router(ctx context.Context) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.SetCorrelationIDHeader)
	r.Use(middleware.PanicHandler)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.ResourceNotFound(fmt.Sprintf("The requested resource was not found: path: %s, method: %s", req.URL.Path, req.Method), "The requested resource was not found!").Send(req.Context(), w)
	})

	r.Use(middleware.ResponseTimeLogging)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.SetContentTypeHeader)

	f := factory.NewFactory()

	ttls := map[cache.Class]time.Duration{
		cache.ClassBalance:   viper.GetDuration(config.CacheTTLBalance),
		cache.ClassTicket:    viper.GetDuration(config.CacheTTLTicket),
		cache.ClassAnalytics: viper.GetDuration(config.CacheTTLAnalytics),
	}
	ledgerCache := cache.New(f.Redis(ctx), ttls)
	cachedLedger := cache.NewLedger(f.Ledger(ctx), ledgerCache)

	confirmations := tracker.New(
		f.Ledger(ctx),
		ledgerCache,
		viper.GetDuration(config.PollInterval),
		viper.GetInt(config.PollMaxAttempts),
	)

	remoteSigner := signer.NewRemote(viper.GetString(config.SignerAddress))

	checker := preflight.New(cachedLedger, viper.GetUint64(config.FeeBuffer))
	purchases := purchase.New(checker, confirmations)

	history := checkin.NewHistory()
	validator := checkin.NewValidator(
		cachedLedger,
		viper.GetDuration(config.GracePeriod),
		viper.GetDuration(config.EarlyWindow),
		history,
	)
	committer := checkin.NewCommitter(confirmations)

	r.HandleFunc("/healthcheck", healthcheck.Self).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	baseRouter := r.PathPrefix("/v1").Subrouter()

	baseRouter.HandleFunc("/preflight", handler.Preflight(checker)).Methods(http.MethodPost)
	baseRouter.HandleFunc("/purchase", handler.Purchase(purchases, remoteSigner)).Methods(http.MethodPost)

	checkinRouter := baseRouter.PathPrefix("/checkin").Subrouter()
	checkinRouter.HandleFunc("/scan", handler.Scan(validator)).Methods(http.MethodPost)
	checkinRouter.HandleFunc("/commit", handler.Commit(committer, remoteSigner)).Methods(http.MethodPost)
	checkinRouter.HandleFunc("/history", handler.History(history)).Methods(http.MethodGet)

	baseRouter.HandleFunc("/transactions/{txID}", handler.TransactionStatus(confirmations)).Methods(http.MethodGet)
	baseRouter.HandleFunc("/transactions/{txID}", handler.CancelTransaction(confirmations)).Methods(http.MethodDelete)

	baseRouter.HandleFunc("/cache/stats", handler.CacheStats(ledgerCache)).Methods(http.MethodGet)

	return r
}
