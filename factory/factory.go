package factory

import (
	"context"
	"sync"

	"github.com/edison-alpha/intic-id-sub002/config"
	"github.com/edison-alpha/intic-id-sub002/ledger"
	"github.com/edison-alpha/intic-id-sub002/logger"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

var rd sync.Once
var lg sync.Once

type Factory interface {
	Redis(ctx context.Context) *redis.Client
	Ledger(ctx context.Context) ledger.Ledger
}

type factory struct {
	redis  *redis.Client
	ledger ledger.Ledger
}

func NewFactory() Factory {
	return &factory{}
}

func (f *factory) Redis(ctx context.Context) *redis.Client {
	rd.Do(func() {
		client := redis.NewClient(&redis.Options{
			Addr:     viper.GetString(config.RedisAddress),
			Password: viper.GetString(config.RedisPassword),
			DB:       viper.GetInt(config.RedisDB),
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatalf(ctx, "Could not establish connection to redis: %+v", err)
		}
		f.redis = client
	})

	return f.redis
}

func (f *factory) Ledger(ctx context.Context) ledger.Ledger {
	lg.Do(func() {
		f.ledger = ledger.New(viper.GetString(config.IndexerAddress))
	})

	return f.ledger
}
