package filter

import "github.com/waavs-go/pslang/internal/object"

// RunLengthDecode wraps source, implementing PackBits-style run-length
// decoding (spec.md §4.11): a control byte 0-127 introduces a literal
// run of n+1 bytes, 129-255 a repeated byte run of 257-n, and 128 is the
// end-of-data marker. Grounded on
// original_source/src/ps_file_filter.h's RunLengthDecodeFilter.
type RunLengthDecode struct {
	source  object.File
	buf     []byte
	pos     int
	done    bool
}

// NewRunLengthDecode returns a decoding filter reading from source.
func NewRunLengthDecode(source object.File) *RunLengthDecode {
	return &RunLengthDecode{source: source}
}

func (f *RunLengthDecode) ReadByte() (byte, bool, error) {
	for {
		if f.done {
			return 0, false, nil
		}
		if f.pos < len(f.buf) {
			b := f.buf[f.pos]
			f.pos++
			return b, true, nil
		}
		if !f.refill() {
			return 0, false, nil
		}
	}
}

func (f *RunLengthDecode) refill() bool {
	control, ok, err := f.source.ReadByte()
	if err != nil || !ok {
		f.done = true
		return false
	}
	if control == 128 {
		f.done = true
		return false
	}
	f.pos = 0
	if control <= 127 {
		count := int(control) + 1
		f.buf = make([]byte, count)
		for i := 0; i < count; i++ {
			b, ok, err := f.source.ReadByte()
			if err != nil || !ok {
				f.done = true
				return false
			}
			f.buf[i] = b
		}
		return true
	}
	count := 257 - int(control)
	repeated, ok, err := f.source.ReadByte()
	if err != nil || !ok {
		f.done = true
		return false
	}
	f.buf = make([]byte, count)
	for i := range f.buf {
		f.buf[i] = repeated
	}
	return true
}

func (f *RunLengthDecode) ReadString(dst []byte) (int, bool, error) {
	return readStringFromByteReader(f, dst)
}
func (f *RunLengthDecode) ReadLine() ([]byte, bool, error) { return readLineFromByteReader(f) }
func (f *RunLengthDecode) BytesAvailable() int             { return -1 }
func (f *RunLengthDecode) Position() int64                 { return -1 }
func (f *RunLengthDecode) SetPosition(int64) error {
	return errNotSeekable("RunLengthDecode")
}
func (f *RunLengthDecode) Rewind() error { return errNotSeekable("RunLengthDecode") }
func (f *RunLengthDecode) IsValid() bool { return !f.done || f.pos < len(f.buf) }
func (f *RunLengthDecode) Finalize() error {
	if f.done {
		return nil
	}
	for {
		c, ok, err := f.source.ReadByte()
		if err != nil {
			return err
		}
		if !ok || c == 128 {
			break
		}
	}
	f.done = true
	return f.source.Finalize()
}
