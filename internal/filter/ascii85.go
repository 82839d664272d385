// Package filter implements the spec.md §4.11 file filters as
// object.File wrappers over an upstream object.File, each transforming
// bytes on demand rather than eagerly.
package filter

import (
	"github.com/waavs-go/pslang/internal/object"
)

// ASCII85Decode wraps source, decoding groups of 5 ASCII85 characters
// into 4 binary bytes, expanding 'z' to four zero bytes, and stopping at
// the "~>" end-of-data marker. Grounded on
// original_source/src/ps_file_filter.h's ASCII85DecodeFilter.
type ASCII85Decode struct {
	source object.File
	buf    []byte
	pos    int
	done   bool
}

// NewASCII85Decode returns a decoding filter reading from source.
func NewASCII85Decode(source object.File) *ASCII85Decode {
	return &ASCII85Decode{source: source}
}

func (f *ASCII85Decode) ReadByte() (byte, bool, error) {
	for f.pos >= len(f.buf) {
		if !f.refill() {
			return 0, false, nil
		}
	}
	b := f.buf[f.pos]
	f.pos++
	return b, true, nil
}

func (f *ASCII85Decode) refill() bool {
	if f.done {
		return false
	}
	f.buf = f.buf[:0]
	f.pos = 0

	var in [5]byte
	count := 0
	for count < 5 {
		c, ok, err := f.source.ReadByte()
		if err != nil || !ok {
			f.done = true
			return false
		}
		if isWhitespace(c) {
			continue
		}
		if c == '~' {
			next, ok, err := f.source.ReadByte()
			if err == nil && ok && next == '>' {
				f.done = true
				return false
			}
			f.done = true
			return false
		}
		if c == 'z' && count == 0 {
			f.buf = append(f.buf, 0, 0, 0, 0)
			return true
		}
		if c < '!' || c > 'u' {
			f.done = true
			return false
		}
		in[count] = c
		count++
	}

	for i := count; i < 5; i++ {
		in[i] = 'u'
	}
	var value uint32
	for i := 0; i < 5; i++ {
		value = value*85 + uint32(in[i]-33)
	}
	var out [4]byte
	for i := 3; i >= 0; i-- {
		out[i] = byte(value)
		value >>= 8
	}
	f.buf = append(f.buf, out[:]...)
	if count < 5 {
		f.buf = f.buf[:count-1]
		f.done = true
	}
	return len(f.buf) > 0
}

func (f *ASCII85Decode) ReadString(dst []byte) (int, bool, error) {
	return readStringFromByteReader(f, dst)
}

func (f *ASCII85Decode) ReadLine() ([]byte, bool, error) {
	return readLineFromByteReader(f)
}

func (f *ASCII85Decode) BytesAvailable() int { return -1 }
func (f *ASCII85Decode) Position() int64     { return -1 }
func (f *ASCII85Decode) SetPosition(int64) error {
	return errNotSeekable("ASCII85Decode")
}
func (f *ASCII85Decode) Rewind() error { return errNotSeekable("ASCII85Decode") }
func (f *ASCII85Decode) IsValid() bool { return !f.done || f.pos < len(f.buf) }
func (f *ASCII85Decode) Finalize() error {
	if f.done {
		return nil
	}
	for {
		c, ok, err := f.source.ReadByte()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if c == '~' {
			next, ok, _ := f.source.ReadByte()
			if ok && next == '>' {
				break
			}
		}
	}
	f.done = true
	return f.source.Finalize()
}

// ASCII85Encode encodes an upstream byte stream into ASCII85 text,
// terminated with "~>", the encoder counterpart needed for the
// filter/run round trip.
type ASCII85Encode struct {
	source object.File
	out    []byte
	pos    int
	done   bool
}

// NewASCII85Encode returns an encoding filter reading raw bytes from
// source and producing ASCII85 text.
func NewASCII85Encode(source object.File) *ASCII85Encode {
	return &ASCII85Encode{source: source}
}

func (f *ASCII85Encode) ReadByte() (byte, bool, error) {
	for f.pos >= len(f.out) {
		if !f.refill() {
			return 0, false, nil
		}
	}
	b := f.out[f.pos]
	f.pos++
	return b, true, nil
}

func (f *ASCII85Encode) refill() bool {
	if f.done {
		return false
	}
	f.out = f.out[:0]
	f.pos = 0

	var group [4]byte
	n := 0
	for n < 4 {
		c, ok, err := f.source.ReadByte()
		if err != nil || !ok {
			break
		}
		group[n] = c
		n++
	}
	if n == 0 {
		f.out = append(f.out, '~', '>')
		f.done = true
		return true
	}
	for i := n; i < 4; i++ {
		group[i] = 0
	}
	value := uint32(group[0])<<24 | uint32(group[1])<<16 | uint32(group[2])<<8 | uint32(group[3])
	if n == 4 && value == 0 {
		f.out = append(f.out, 'z')
		return true
	}
	var enc [5]byte
	for i := 4; i >= 0; i-- {
		enc[i] = byte(value%85) + 33
		value /= 85
	}
	f.out = append(f.out, enc[:n+1]...)
	if n < 4 {
		f.out = append(f.out, '~', '>')
		f.done = true
	}
	return true
}

func (f *ASCII85Encode) ReadString(dst []byte) (int, bool, error) {
	return readStringFromByteReader(f, dst)
}
func (f *ASCII85Encode) ReadLine() ([]byte, bool, error) { return readLineFromByteReader(f) }
func (f *ASCII85Encode) BytesAvailable() int             { return -1 }
func (f *ASCII85Encode) Position() int64                 { return -1 }
func (f *ASCII85Encode) SetPosition(int64) error {
	return errNotSeekable("ASCII85Encode")
}
func (f *ASCII85Encode) Rewind() error   { return errNotSeekable("ASCII85Encode") }
func (f *ASCII85Encode) IsValid() bool   { return !f.done || f.pos < len(f.out) }
func (f *ASCII85Encode) Finalize() error { f.done = true; return f.source.Finalize() }

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}
