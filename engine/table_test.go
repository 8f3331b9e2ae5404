package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/eidolon/lang"
)

func TestTable_Lifecycle(t *testing.T) {
	t.Parallel()

	var tab Table

	h := tab.Create()
	assert.NotZero(t, h)
	assert.Equal(t, 1, tab.Len())

	got, err := tab.Evaluate(t.Context(), h, "2 + 2 * 2", nil)
	require.NoError(t, err)
	assert.Equal(t, "6", got)

	var c collector

	require.NoError(t, tab.SetLogSink(h, c.sink))

	_, err = tab.Evaluate(t.Context(), h, `info["hello"]`, nil)
	require.NoError(t, err)

	// Destroy drains queued events before returning.
	require.NoError(t, tab.Destroy(h))
	assert.Equal(t, []string{"hello"}, c.messages())
	assert.Equal(t, 0, tab.Len())

	_, err = tab.Evaluate(t.Context(), h, "1", nil)
	require.ErrorIs(t, err, ErrInvalidHandle)
	require.ErrorIs(t, tab.SetLogSink(h, nil), ErrInvalidHandle)
	require.ErrorIs(t, tab.Destroy(h), ErrInvalidHandle)
}

func TestTable_Generations(t *testing.T) {
	t.Parallel()

	var tab Table

	stale := tab.Create()
	require.NoError(t, tab.Destroy(stale))

	fresh := tab.Create()

	// The slot is reused under a new generation.
	assert.Equal(t, stale.index(), fresh.index())
	assert.NotEqual(t, stale.gen(), fresh.gen())
	assert.NotEqual(t, stale, fresh)

	_, err := tab.Engine(stale)
	require.ErrorIs(t, err, ErrInvalidHandle)

	_, err = tab.Engine(fresh)
	require.NoError(t, err)

	_, err = tab.Engine(0)
	require.ErrorIs(t, err, ErrInvalidHandle)

	_, err = tab.Engine(makeHandle(99, 1))
	require.ErrorIs(t, err, ErrInvalidHandle)

	require.NoError(t, tab.Close())
	assert.Equal(t, 0, tab.Len())
}

func TestTable_FreshHandlesAgree(t *testing.T) {
	t.Parallel()

	var tab Table
	t.Cleanup(func() { _ = tab.Close() })

	const source = "let x = $myVar * 2\nx + 5"

	globals := lang.Globals{"myVar": 10}

	a, b := tab.Create(), tab.Create(WithSubstitution(true))

	ra, err := tab.Evaluate(t.Context(), a, source, globals)
	require.NoError(t, err)

	rb, err := tab.Evaluate(t.Context(), b, source, globals)
	require.NoError(t, err)

	assert.Equal(t, "25", ra)
	assert.Equal(t, ra, rb)
}

func TestTable_Concurrent(t *testing.T) {
	t.Parallel()

	var (
		tab Table
		wg  sync.WaitGroup
	)

	for range 16 {
		wg.Go(func() {
			h := tab.Create()

			got, err := tab.Evaluate(t.Context(), h, "max[3, 4]", nil)
			assert.NoError(t, err)
			assert.Equal(t, "4", got)
			assert.NoError(t, tab.Destroy(h))
		})
	}

	wg.Wait()
	assert.Equal(t, 0, tab.Len())
}

func TestHandle_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3#7", makeHandle(3, 7).String())
}
