package iq

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSamples(t *testing.T) {
	i16, err := MakeSamples(FormatI16, 8)
	require.NoError(t, err)
	assert.Equal(t, FormatI16, i16.Format())
	assert.Equal(t, 8, i16.Length())

	u8, err := MakeSamples(FormatU8, 4)
	require.NoError(t, err)
	assert.Equal(t, FormatU8, u8.Format())
	assert.Equal(t, 4, u8.Length())

	_, err = MakeSamples(SampleFormat(0xFF), 1)
	assert.Equal(t, ErrSampleFormatUnknown, err)
}

func TestSampleFormatSize(t *testing.T) {
	assert.Equal(t, 2, FormatI16.Size())
	assert.Equal(t, 1, FormatU8.Size())
	assert.Equal(t, 0, SampleFormat(0xFF).Size())
}

func TestCopySamples(t *testing.T) {
	src := SamplesI16{1, 2, 3, 4}
	dst := make(SamplesI16, 4)

	n, err := CopySamples(dst, src)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, src, dst)
}

func TestCopySamplesFormatMismatch(t *testing.T) {
	src := SamplesI16{1, 2, 3}
	dst := make(SamplesU8, 3)

	_, err := CopySamples(dst, src)
	assert.Equal(t, ErrSampleFormatMismatch, err)
}

func TestSliceAliasesBackingArray(t *testing.T) {
	buf := SamplesI16{10, 20, 30, 40}
	sl := buf.Slice(1, 3).(SamplesI16)
	sl[0] = 99
	assert.Equal(t, int16(99), buf[1])
}

func TestByteWriterReaderRoundTripI16(t *testing.T) {
	var b bytes.Buffer
	w := ByteWriter(&b, binary.LittleEndian, 130_000_000, FormatI16)

	samples := SamplesI16{100, -200, 300, -400}
	n, err := w.Write(samples)
	require.NoError(t, err)
	assert.Equal(t, len(samples), n)

	r := ByteReader(&b, binary.LittleEndian, 130_000_000, FormatI16)
	out := make(SamplesI16, len(samples))
	n, err = r.Read(out)
	require.NoError(t, err)
	assert.Equal(t, len(samples), n)
	assert.Equal(t, samples, out)
}

func TestByteWriterReaderRoundTripU8(t *testing.T) {
	var b bytes.Buffer
	w := ByteWriter(&b, binary.LittleEndian, 0, FormatU8)

	digits := SamplesU8{0, 1, 127, 254, 255}
	n, err := w.Write(digits)
	require.NoError(t, err)
	assert.Equal(t, len(digits), n)

	r := ByteReader(&b, binary.LittleEndian, 0, FormatU8)
	out := make(SamplesU8, len(digits))
	n, err = r.Read(out)
	require.NoError(t, err)
	assert.Equal(t, len(digits), n)
	assert.Equal(t, digits, out)
}

func TestSamplesPoolGetPut(t *testing.T) {
	pool, err := NewSamplesPool(FormatI16, 16)
	require.NoError(t, err)

	buf := pool.Get()
	assert.Equal(t, FormatI16, buf.Format())
	assert.GreaterOrEqual(t, buf.Length(), 16)

	pool.Put(buf)
	buf2 := pool.Get()
	assert.Equal(t, FormatI16, buf2.Format())
}

func TestNewSamplesPoolUnknownFormat(t *testing.T) {
	_, err := NewSamplesPool(SampleFormat(0xFF), 16)
	assert.Equal(t, ErrSampleFormatUnknown, err)
}
