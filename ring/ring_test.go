package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/callisto/iq"
)

func block(v int16, n int) iq.SamplesI16 {
	b := make(iq.SamplesI16, n)
	for i := range b {
		b[i] = v
	}
	return b
}

func TestAppendPopNewestOrder(t *testing.T) {
	rb, err := New(4, 8, iq.FormatI16)
	require.NoError(t, err)

	require.NoError(t, rb.Append(block(1, 8)))
	require.NoError(t, rb.Append(block(2, 8)))
	require.NoError(t, rb.Append(block(3, 8)))

	dst := make(iq.SamplesI16, 8)

	_, err = rb.PopNewest(dst)
	require.NoError(t, err)
	assert.Equal(t, block(3, 8), dst)

	_, err = rb.PopNewest(dst)
	require.NoError(t, err)
	assert.Equal(t, block(2, 8), dst)

	_, err = rb.PopNewest(dst)
	require.NoError(t, err)
	assert.Equal(t, block(1, 8), dst)

	_, err = rb.PopNewest(dst)
	assert.Equal(t, ErrEmpty, err)
}

func TestAppendEvictsOldestWhenFull(t *testing.T) {
	rb, err := New(2, 4, iq.FormatI16)
	require.NoError(t, err)

	require.NoError(t, rb.Append(block(1, 4)))
	require.NoError(t, rb.Append(block(2, 4)))
	// buffer is now full (count == slots); this evicts block 1.
	require.NoError(t, rb.Append(block(3, 4)))

	assert.Equal(t, 2, rb.Len())
	assert.Equal(t, uint64(1), rb.Dropped())

	dst := make(iq.SamplesI16, 4)

	_, err = rb.PopNewest(dst)
	require.NoError(t, err)
	assert.Equal(t, block(3, 4), dst)

	_, err = rb.PopNewest(dst)
	require.NoError(t, err)
	assert.Equal(t, block(2, 4), dst)

	_, err = rb.PopNewest(dst)
	assert.Equal(t, ErrEmpty, err)
}

func TestLiveCountNeverExceedsMinOfAppendsAndCapacity(t *testing.T) {
	rb, err := New(5, 4, iq.FormatI16)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, rb.Append(block(int16(i), 4)))
		assert.LessOrEqual(t, rb.Len(), i+1)
		assert.LessOrEqual(t, rb.Len(), rb.Cap())
	}

	for i := 0; i < 20; i++ {
		require.NoError(t, rb.Append(block(int16(i), 4)))
		assert.LessOrEqual(t, rb.Len(), rb.Cap())
	}
}

func TestPopNewestNeverReturnsTheSameBlockTwice(t *testing.T) {
	rb, err := New(3, 4, iq.FormatI16)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, rb.Append(block(int16(i+1), 4)))
	}

	seen := map[int16]bool{}
	dst := make(iq.SamplesI16, 4)
	for {
		_, err := rb.PopNewest(dst)
		if err == ErrEmpty {
			break
		}
		require.NoError(t, err)
		v := dst[0]
		assert.False(t, seen[v], "block %d popped twice", v)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
}

func TestDrainNewestCollectsUpToMax(t *testing.T) {
	rb, err := New(10, 4, iq.FormatI16)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		require.NoError(t, rb.Append(block(int16(i), 4)))
	}

	scratch := make(iq.SamplesI16, 4)
	var collected []int16
	n, err := rb.DrainNewest(3, scratch, func(s iq.Samples) error {
		collected = append(collected, s.(iq.SamplesI16)[0])
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int16{5, 4, 3}, collected)
	assert.Equal(t, 3, rb.Len())
}

func TestDrainNewestStopsWhenEmpty(t *testing.T) {
	rb, err := New(4, 4, iq.FormatI16)
	require.NoError(t, err)

	require.NoError(t, rb.Append(block(1, 4)))

	scratch := make(iq.SamplesI16, 4)
	n, err := rb.DrainNewest(10, scratch, func(iq.Samples) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAppendRejectsOversizedBlock(t *testing.T) {
	rb, err := New(2, 4, iq.FormatI16)
	require.NoError(t, err)

	err = rb.Append(block(1, 5))
	assert.Equal(t, ErrSlotTooSmall, err)
}

func TestAppendRejectsFormatMismatch(t *testing.T) {
	rb, err := New(2, 4, iq.FormatI16)
	require.NoError(t, err)

	err = rb.Append(make(iq.SamplesU8, 4))
	assert.Equal(t, iq.ErrSampleFormatMismatch, err)
}
