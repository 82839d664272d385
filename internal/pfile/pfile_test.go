package pfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waavs-go/pslang/internal/pfile"
)

func TestMemoryReadByteSequential(t *testing.T) {
	f := pfile.NewMemory([]byte("abc"))
	for _, want := range []byte("abc") {
		b, ok, err := f.ReadByte()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, b)
	}
	_, ok, err := f.ReadByte()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryReadLine(t *testing.T) {
	f := pfile.NewMemory([]byte("first\nsecond"))
	line, eof, err := f.ReadLine()
	require.NoError(t, err)
	assert.False(t, eof)
	assert.Equal(t, "first", string(line))

	line, eof, err = f.ReadLine()
	require.NoError(t, err)
	assert.True(t, eof)
	assert.Equal(t, "second", string(line))
}

func TestMemorySeekAndRewind(t *testing.T) {
	f := pfile.NewMemory([]byte("0123456789"))
	require.NoError(t, f.SetPosition(5))
	b, ok, err := f.ReadByte()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, byte('5'), b)

	require.NoError(t, f.Rewind())
	assert.Equal(t, int64(0), f.Position())
}

func TestMemorySetPositionOutOfRangeErrors(t *testing.T) {
	f := pfile.NewMemory([]byte("abc"))
	assert.Error(t, f.SetPosition(100))
	assert.Error(t, f.SetPosition(-1))
}

func TestMemoryFinalizeInvalidatesReads(t *testing.T) {
	f := pfile.NewMemory([]byte("abc"))
	require.NoError(t, f.Finalize())
	assert.False(t, f.IsValid())
	_, _, err := f.ReadByte()
	assert.Error(t, err)
}

func TestMemoryBytesAvailable(t *testing.T) {
	f := pfile.NewMemory([]byte("abcde"))
	assert.Equal(t, 5, f.BytesAvailable())
	_, _, _ = f.ReadByte()
	assert.Equal(t, 4, f.BytesAvailable())
}
