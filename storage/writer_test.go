package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/callisto/iq"
)

func TestWriterAppendsRowsInOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fft_data_143000.bin")

	w, err := NewWriter(path)
	require.NoError(t, err)

	w.Enqueue(iq.SamplesU8{1, 2, 3})
	w.Enqueue(iq.SamplesU8{4, 5, 6})
	require.NoError(t, w.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, got)
}

func TestWriterCloseWithNoRowsLeavesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fft_data_empty.bin")

	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpdateConfigRewritesBothFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.cfg")

	original := "last_time_scheluded=                                            # previous schedule time\n" +
		"control_external_generation=0\n" +
		"some_other_field=42\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	require.NoError(t, UpdateConfig(path, "143000"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(got)

	assert.Contains(t, content, "last_time_scheluded=143000                            #")
	assert.Contains(t, content, "control_external_generation=1")
	assert.Contains(t, content, "some_other_field=42")
}

func TestUpdateConfigMissingFileErrors(t *testing.T) {
	err := UpdateConfig(filepath.Join(t.TempDir(), "nope.cfg"), "143000")
	assert.Error(t, err)
}
