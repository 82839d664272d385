package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waavs-go/pslang/internal/filter"
	"github.com/waavs-go/pslang/internal/pfile"
)

func drain(t *testing.T, f interface {
	ReadByte() (byte, bool, error)
}) []byte {
	t.Helper()
	var out []byte
	for {
		b, ok, err := f.ReadByte()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, b)
	}
}

func TestASCII85RoundTrip(t *testing.T) {
	src := []byte("Man is distinguished, not only by his reason")

	enc := filter.NewASCII85Encode(pfile.NewMemory(src))
	encoded := drain(t, enc)
	assert.Contains(t, string(encoded), "~>")

	dec := filter.NewASCII85Decode(pfile.NewMemory(encoded))
	decoded := drain(t, dec)
	assert.Equal(t, src, decoded)
}

func TestASCII85DecodeZGroup(t *testing.T) {
	// "z" expands to four zero bytes for an all-zero input group.
	dec := filter.NewASCII85Decode(pfile.NewMemory([]byte("z~>")))
	decoded := drain(t, dec)
	assert.Equal(t, []byte{0, 0, 0, 0}, decoded)
}

func TestRunLengthDecodeLiteralRun(t *testing.T) {
	// control byte 2 => a literal run of 3 bytes, then end-of-data (128).
	src := []byte{2, 'a', 'b', 'c', 128}
	dec := filter.NewRunLengthDecode(pfile.NewMemory(src))
	decoded := drain(t, dec)
	assert.Equal(t, []byte("abc"), decoded)
}

func TestRunLengthDecodeRepeatRun(t *testing.T) {
	// control byte 254 => 257-254 = 3 repetitions of the following byte.
	src := []byte{254, 'x', 128}
	dec := filter.NewRunLengthDecode(pfile.NewMemory(src))
	decoded := drain(t, dec)
	assert.Equal(t, []byte("xxx"), decoded)
}
