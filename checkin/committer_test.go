package checkin

import (
	"context"
	"testing"
	"time"

	"github.com/edison-alpha/intic-id-sub002/cache"
	"github.com/edison-alpha/intic-id-sub002/session"
	"github.com/edison-alpha/intic-id-sub002/signer"
	"github.com/edison-alpha/intic-id-sub002/tracker"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSigner struct {
	result   signer.Result
	lastCall signer.ContractCall
}

func (f *fakeSigner) SignAndBroadcast(ctx context.Context, call signer.ContractCall) signer.Result {
	f.lastCall = call
	return f.result
}

const staff = "ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG"

func newTestCommitter(t *testing.T) *Committer {
	t.Helper()
	rdb, _ := redismock.NewClientMock()
	ch := cache.New(rdb, map[cache.Class]time.Duration{})
	// An hour between polls keeps the tracker quiet for the whole test.
	return NewCommitter(tracker.New(&fakeLedger{}, ch, time.Hour, 30))
}

func TestCommitSubmitsMarkUsedCall(t *testing.T) {
	committer := newTestCommitter(t)
	sign := &fakeSigner{result: signer.Result{Kind: signer.Submitted, TxID: "0xabc123"}}
	sess := session.New(staff, "testnet", sign)

	handle, err := committer.Commit(context.Background(), sess, eventContract, 42)
	require.NoError(t, err)
	defer handle.Cancel()

	assert.Equal(t, "use-ticket", sign.lastCall.Function)
	assert.Equal(t, []string{"u42"}, sign.lastCall.Args)
	assert.Equal(t, staff, sign.lastCall.Sender)

	ptx := handle.Transaction()
	assert.Equal(t, "0xabc123", ptx.TxID)
	assert.Equal(t, tracker.KindCheckIn, ptx.Kind)
	assert.Equal(t, staff, ptx.Sender)
	assert.ElementsMatch(t, []string{
		cache.TicketKey(eventContract, 42),
		cache.AnalyticsKey(eventContract),
	}, ptx.AffectedKeys)
	assert.Equal(t, tracker.StatusPending, handle.Result().Status)
}

func TestCommitSigningCancelled(t *testing.T) {
	committer := newTestCommitter(t)
	sess := session.New(staff, "testnet", &fakeSigner{result: signer.Result{Kind: signer.Cancelled}})

	handle, err := committer.Commit(context.Background(), sess, eventContract, 42)
	assert.ErrorIs(t, err, ErrSigningCancelled)
	assert.Nil(t, handle)
}

func TestCommitSubmissionFailureLeavesNothingPending(t *testing.T) {
	committer := newTestCommitter(t)
	sign := &fakeSigner{result: signer.Result{Kind: signer.Failed, Reason: "signer unreachable"}}
	sess := session.New(staff, "testnet", sign)

	handle, err := committer.Commit(context.Background(), sess, eventContract, 42)
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Nil(t, handle)

	// A failed submission must not leave the ticket locked; the retry goes
	// through.
	sign.result = signer.Result{Kind: signer.Submitted, TxID: "0xretry"}
	handle, err = committer.Commit(context.Background(), sess, eventContract, 42)
	require.NoError(t, err)
	handle.Cancel()
}

func TestCommitRefusesSecondWhilePending(t *testing.T) {
	committer := newTestCommitter(t)
	sign := &fakeSigner{result: signer.Result{Kind: signer.Submitted, TxID: "0xabc123"}}
	sess := session.New(staff, "testnet", sign)

	first, err := committer.Commit(context.Background(), sess, eventContract, 42)
	require.NoError(t, err)

	_, err = committer.Commit(context.Background(), sess, eventContract, 42)
	assert.ErrorIs(t, err, ErrCommitInFlight)

	// Another token of the same contract is unaffected.
	sign.result = signer.Result{Kind: signer.Submitted, TxID: "0xother"}
	other, err := committer.Commit(context.Background(), sess, eventContract, 43)
	require.NoError(t, err)
	other.Cancel()

	// Once the first tracker winds down the ticket frees up again.
	first.Cancel()
	assert.Eventually(t, func() bool {
		sign.result = signer.Result{Kind: signer.Submitted, TxID: "0xagain"}
		handle, err := committer.Commit(context.Background(), sess, eventContract, 42)
		if err != nil {
			return false
		}
		handle.Cancel()
		return true
	}, 2*time.Second, 10*time.Millisecond)
}
