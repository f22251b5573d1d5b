package cache

import (
	"context"
	"testing"
	"time"

	"github.com/edison-alpha/intic-id-sub002/ledger"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const principal = "ST3AM1A56AK2C1XAFJ4115ZSV26EB49BVQ10MGCS0"

func testCache(t *testing.T) (*Cache, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	ttls := map[Class]time.Duration{
		ClassBalance:   30 * time.Second,
		ClassTicket:    30 * time.Second,
		ClassAnalytics: 2 * time.Minute,
	}
	return New(rdb, ttls), mock
}

func TestReadWithinTTLFetchesOnce(t *testing.T) {
	c, mock := testCache(t)
	key := BalanceKey(principal)

	fetches := 0
	fetch := func(ctx context.Context) (interface{}, error) {
		fetches++
		return uint64(777), nil
	}

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, []byte("777"), 30*time.Second).SetVal("OK")
	mock.ExpectGet(key).SetVal("777")

	var first, second uint64
	require.NoError(t, c.Read(context.Background(), key, ClassBalance, &first, fetch))
	require.NoError(t, c.Read(context.Background(), key, ClassBalance, &second, fetch))

	assert.Equal(t, uint64(777), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetches)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateForcesRefetch(t *testing.T) {
	c, mock := testCache(t)
	key := BalanceKey(principal)

	values := []uint64{100, 250}
	fetches := 0
	fetch := func(ctx context.Context) (interface{}, error) {
		v := values[fetches]
		fetches++
		return v, nil
	}

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, []byte("100"), 30*time.Second).SetVal("OK")
	mock.ExpectDel(key).SetVal(1)
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, []byte("250"), 30*time.Second).SetVal("OK")

	var got uint64
	require.NoError(t, c.Read(context.Background(), key, ClassBalance, &got, fetch))
	require.Equal(t, uint64(100), got)

	require.NoError(t, c.Invalidate(context.Background(), key))

	// The ledger value changed while the key was dropped; the next read
	// must observe the new value, never the pre-invalidation one.
	require.NoError(t, c.Read(context.Background(), key, ClassBalance, &got, fetch))
	assert.Equal(t, uint64(250), got)
	assert.Equal(t, 2, fetches)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchFailureIsNotCached(t *testing.T) {
	c, mock := testCache(t)
	key := TicketKey(ledger.ContractRef{Address: "ST000", Name: "event-1"}, 42)

	mock.ExpectGet(key).RedisNil()

	var got ledger.Ticket
	err := c.Read(context.Background(), key, ClassTicket, &got, func(ctx context.Context) (interface{}, error) {
		return nil, ledger.ErrTicketNotFound
	})
	assert.ErrorIs(t, err, ledger.ErrTicketNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateGroup(t *testing.T) {
	c, mock := testCache(t)
	keys := []string{
		TicketKey(ledger.ContractRef{Address: "ST000", Name: "event-1"}, 42),
		AnalyticsKey(ledger.ContractRef{Address: "ST000", Name: "event-1"}),
	}

	mock.ExpectDel(keys...).SetVal(2)
	require.NoError(t, c.InvalidateGroup(context.Background(), keys))
	assert.NoError(t, mock.ExpectationsWereMet())

	// An empty group is a no-op, not a redis call.
	require.NoError(t, c.InvalidateGroup(context.Background(), nil))
}

func TestStatsCountsHitsAndMisses(t *testing.T) {
	c, mock := testCache(t)
	key := BalanceKey(principal)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, []byte("5"), 30*time.Second).SetVal("OK")
	mock.ExpectGet(key).SetVal("5")

	var got uint64
	fetch := func(ctx context.Context) (interface{}, error) { return uint64(5), nil }
	require.NoError(t, c.Read(context.Background(), key, ClassBalance, &got, fetch))
	require.NoError(t, c.Read(context.Background(), key, ClassBalance, &got, fetch))

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats[string(ClassBalance)].Hits)
	assert.Equal(t, uint64(1), stats[string(ClassBalance)].Misses)
}
