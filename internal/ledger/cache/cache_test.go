package cache

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
)

func cloneInts(v []int) []int {
	return slices.Clone(v)
}

func TestRememberHitAndMiss(t *testing.T) {
	r := NewRegion("test", 8)

	var calls int
	compute := func(context.Context) ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	v, err := Remember(context.Background(), r, "k", cloneInts, compute)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)

	v, err = Remember(context.Background(), r, "k", cloneInts, compute)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)
	assert.Equal(t, 1, calls)

	st := r.Stats()
	assert.Equal(t, int64(1), st.Hits)
	assert.Equal(t, int64(1), st.Misses)
	assert.Equal(t, 1, st.Len)
}

func TestRememberReturnsClones(t *testing.T) {
	r := NewRegion("test", 8)
	compute := func(context.Context) ([]int, error) { return []int{1, 2, 3}, nil }

	first, err := Remember(context.Background(), r, "k", cloneInts, compute)
	require.NoError(t, err)
	first[0] = 99

	second, err := Remember(context.Background(), r, "k", cloneInts, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, second[0])
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	r := NewRegion("test", 8)
	boom := errors.New("boom")

	_, err := Remember(context.Background(), r, "k", Same[int], func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := Remember(context.Background(), r, "k", Same[int], func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	r := NewRegion("test", 8)

	n := 0
	compute := func(context.Context) (int, error) {
		n++
		return n, nil
	}

	v, _ := Remember(context.Background(), r, "k", Same[int], compute)
	assert.Equal(t, 1, v)

	r.Invalidate()
	assert.Equal(t, 0, r.Stats().Len)

	v, _ = Remember(context.Background(), r, "k", Same[int], compute)
	assert.Equal(t, 2, v)
}

func TestStaleComputationIsNotInstalled(t *testing.T) {
	r := NewRegion("test", 8)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan int)

	go func() {
		v, _ := Remember(context.Background(), r, "k", Same[int], func(context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		done <- v
	}()

	<-started
	r.Invalidate()
	close(release)

	// The reader that started before the write still gets its own result.
	assert.Equal(t, 1, <-done)

	// Nothing was installed, so a fresh read recomputes.
	v, err := Remember(context.Background(), r, "k", Same[int], func(context.Context) (int, error) { return 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestReadAfterInvalidateDoesNotJoinOldFlight(t *testing.T) {
	r := NewRegion("test", 8)

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _ = Remember(context.Background(), r, "k", Same[int], func(context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
	}()

	<-started
	r.Invalidate()

	v, err := Remember(context.Background(), r, "k", Same[int], func(context.Context) (int, error) { return 2, nil })
	close(release)

	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestConcurrentMissesShareOneCompute(t *testing.T) {
	r := NewRegion("test", 8)

	var calls atomic.Int64
	gate := make(chan struct{})
	compute := func(context.Context) (int, error) {
		calls.Add(1)
		<-gate
		return 42, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Remember(context.Background(), r, "k", Same[int], compute)
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int64(10))
	assert.GreaterOrEqual(t, calls.Load(), int64(1))
	assert.Equal(t, 1, r.Stats().Len)
}

func TestCanceledCallerDoesNotFailSharedCompute(t *testing.T) {
	r := NewRegion("test", 8)

	started := make(chan struct{})
	release := make(chan struct{})
	compute := func(ctx context.Context) (int, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return 42, nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := Remember(leaderCtx, r, "k", Same[int], compute)
		leaderErr <- err
	}()
	<-started

	followerVal := make(chan int, 1)
	followerErr := make(chan error, 1)
	go func() {
		v, err := Remember(context.Background(), r, "k", Same[int], func(context.Context) (int, error) {
			return 0, errors.New("follower should join the running flight")
		})
		followerVal <- v
		followerErr <- err
	}()

	// Give the follower time to join the flight before the leader goes away.
	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	require.NoError(t, <-followerErr)
	assert.Equal(t, 42, <-followerVal)
	assert.Equal(t, 1, r.Stats().Len)
}

func TestRememberHonoursCanceledContextOnMiss(t *testing.T) {
	r := NewRegion("test", 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := Remember(ctx, r, "k", Same[int], func(context.Context) (int, error) {
		called = true
		return 1, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestLRUBound(t *testing.T) {
	r := NewRegion("test", 2)
	for _, k := range []string{"a", "b", "c"} {
		_, err := Remember(context.Background(), r, k, Same[string], func(context.Context) (string, error) { return k, nil })
		require.NoError(t, err)
	}
	assert.Equal(t, 2, r.Stats().Len)
}

func TestNewRegionDefaultsSize(t *testing.T) {
	r := NewRegion("test", 0)
	assert.Equal(t, "test", r.Name())
	for i := 0; i < DefaultRegionSize+10; i++ {
		_, _ = Remember(context.Background(), r, KeyID(int64(i)), Same[int], func(context.Context) (int, error) { return i, nil })
	}
	assert.Equal(t, DefaultRegionSize, r.Stats().Len)
}

func TestLayerInvalidateAll(t *testing.T) {
	l := NewLayer(4, 4)
	_, _ = Remember(context.Background(), l.Query, "q", Same[int], func(context.Context) (int, error) { return 1, nil })
	_, _ = Remember(context.Background(), l.Stats, "s", Same[int], func(context.Context) (int, error) { return 1, nil })

	genQ, genS := l.Query.Stats().Generation, l.Stats.Stats().Generation
	l.InvalidateAll()

	assert.Equal(t, 0, l.Query.Stats().Len)
	assert.Equal(t, 0, l.Stats.Stats().Len)
	assert.Equal(t, genQ+1, l.Query.Stats().Generation)
	assert.Equal(t, genS+1, l.Stats.Stats().Generation)
}

func TestKeys(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	assert.Equal(t, "id:7", KeyID(7))
	assert.Equal(t, "page:0,size:10", KeyPage(0, 10))
	assert.Equal(t, `account:"1234567890"`, KeyAccount("1234567890"))
	assert.Equal(t, `type:"CREDIT"`, KeyType(entity.TxTypeCredit))
	assert.Equal(t, `accountType:"1234567890","DEBIT"`, KeyAccountType("1234567890", entity.TxTypeDebit))
	assert.Equal(t, "date:2025-01-01T00:00:00Z,2025-01-01T01:00:00Z", KeyDate(start, end))
	assert.Equal(t, "amount:10,50.5", KeyAmount(decimal.RequireFromString("10"), decimal.RequireFromString("50.50")))
	assert.Equal(t, `totalAmountByType:"FEE"`, KeyTotalAmountByType(entity.TxTypeFee))
	assert.Equal(t, `totalAmountByAccount:"1234567890"`, KeyTotalAmountByAccount("1234567890"))

	assert.Equal(t,
		KeyAmount(decimal.RequireFromString("10"), decimal.RequireFromString("50")),
		KeyAmount(decimal.RequireFromString("10.00"), decimal.RequireFromString("50.0")),
	)
	assert.NotEqual(t,
		KeyAmount(decimal.RequireFromString("10"), decimal.RequireFromString("50")),
		KeyAmount(decimal.RequireFromString("10.001"), decimal.RequireFromString("50")),
	)
}

func TestKeysDoNotCollideAcrossArguments(t *testing.T) {
	assert.NotEqual(t,
		KeyAccount("1234567890,type:CREDIT"),
		KeyAccountType("1234567890", entity.TxTypeCredit),
	)
	assert.NotEqual(t,
		KeyAccount(`1234567890","CREDIT`),
		KeyAccountType("1234567890", entity.TxTypeCredit),
	)
	assert.NotEqual(t,
		KeyAccountType("1234567890,x", entity.TxTypeCredit),
		KeyAccountType("1234567890", entity.TxType("x,CREDIT")),
	)
	assert.NotEqual(t, KeyAccount("7"), KeyType(entity.TxType("7")))
	assert.NotEqual(t,
		KeyTotalAmountByAccount("CREDIT"),
		KeyTotalAmountByType(entity.TxTypeCredit),
	)

	seen := map[string]string{}
	for name, key := range map[string]string{
		"id":          KeyID(1),
		"page":        KeyPage(0, 1),
		"account":     KeyAccount("1"),
		"type":        KeyType("1"),
		"accountType": KeyAccountType("1", "1"),
		"amount":      KeyAmount(decimal.NewFromInt(1), decimal.NewFromInt(1)),
		"date":        KeyDate(time.Unix(1, 0), time.Unix(1, 0)),
		"totalByType": KeyTotalAmountByType("1"),
		"totalByAcct": KeyTotalAmountByAccount("1"),
		"count":       KeyCount,
		"countByType": KeyCountByType,
		"countByAcct": KeyCountByAcct,
		"totalAmount": KeyTotalAmount,
	} {
		if other, dup := seen[key]; dup {
			t.Fatalf("%s and %s share key %q", name, other, key)
		}
		seen[key] = name
	}
}
