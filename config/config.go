package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	IndexerAddress = "indexer.address"
	SignerAddress  = "signer.address"

	RedisAddress  = "redis.address"
	RedisPassword = "redis.password"
	RedisDB       = "redis.db"

	Port = "server.port"

	// FeeBuffer is a conservative worst-case network fee in micro-STX,
	// added on top of the ticket price during affordability checks.
	FeeBuffer = "preflight.fee_buffer"

	// GracePeriod is how long after the event start a ticket can still be
	// checked in; EarlyWindow is how long before. Production values must be
	// confirmed with the venue owners.
	GracePeriod = "checkin.grace_period"
	EarlyWindow = "checkin.early_window"

	PollInterval    = "tracker.poll_interval"
	PollMaxAttempts = "tracker.max_attempts"

	CacheTTLBalance   = "cache.ttl.balance"
	CacheTTLTicket    = "cache.ttl.ticket"
	CacheTTLAnalytics = "cache.ttl.analytics"
)

func init() {
	viper.AutomaticEnv()
	viper.SetDefault(Port, "9000")
	viper.SetDefault(IndexerAddress, "https://api.testnet.hiro.so")

	viper.SetDefault(FeeBuffer, uint64(250000))

	viper.SetDefault(GracePeriod, 3*time.Hour)
	viper.SetDefault(EarlyWindow, 24*time.Hour)

	viper.SetDefault(PollInterval, 10*time.Second)
	viper.SetDefault(PollMaxAttempts, 30)

	viper.SetDefault(CacheTTLBalance, 30*time.Second)
	viper.SetDefault(CacheTTLTicket, 30*time.Second)
	viper.SetDefault(CacheTTLAnalytics, 2*time.Minute)
}
