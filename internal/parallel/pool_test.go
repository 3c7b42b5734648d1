package parallel

import (
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ResultsArePermutation(t *testing.T) {
	for _, workers := range []int{1, 3, 8} {
		pool := NewPool[int](workers)
		n := 100
		for i := 0; i < n; i++ {
			require.NoError(t, pool.Submit(func() int { return i }))
		}
		require.Equal(t, n, pool.Size())
		require.NoError(t, pool.Start())

		got := make([]int, 0, n)
		for range pool.Size() {
			got = append(got, pool.Get())
		}
		pool.Wait()

		sort.Ints(got)
		for i, v := range got {
			assert.Equal(t, i, v, "workers=%d", workers)
		}
	}
}

func TestPool_SingleWorkerKeepsSubmissionOrder(t *testing.T) {
	pool := NewPool[int](1)
	for i := 0; i < 20; i++ {
		require.NoError(t, pool.Submit(func() int { return i }))
	}
	require.NoError(t, pool.Start())

	for i := 0; i < 20; i++ {
		assert.Equal(t, i, pool.Get())
	}
}

func TestPool_SubmitAfterStart(t *testing.T) {
	pool := NewPool[int](2)
	require.NoError(t, pool.Submit(func() int { return 1 }))
	require.NoError(t, pool.Start())

	assert.ErrorIs(t, pool.Submit(func() int { return 2 }), ErrStarted)
	assert.ErrorIs(t, pool.Start(), ErrStarted)
	assert.Equal(t, 1, pool.Get())
	assert.Equal(t, 1, pool.Size())
}

func TestPool_RunsEachTaskOnce(t *testing.T) {
	var calls int64
	pool := NewPool[struct{}](4)
	for range 50 {
		require.NoError(t, pool.Submit(func() struct{} {
			atomic.AddInt64(&calls, 1)
			return struct{}{}
		}))
	}
	require.NoError(t, pool.Start())
	for range pool.Size() {
		pool.Get()
	}
	pool.Wait()
	assert.Equal(t, int64(50), atomic.LoadInt64(&calls))
}

func TestPool_EmptyStart(t *testing.T) {
	pool := NewPool[int](0)
	assert.Equal(t, 1, pool.Workers())
	require.NoError(t, pool.Start())
	pool.Wait()
	assert.Equal(t, 0, pool.Size())
}
