// Package pfile implements the concrete object.File sources the core
// reads from: an in-memory byte buffer (used by the tests and the filter
// tests; "run" and "file" use OSFile) and a thin wrapper over an opened OS file,
// per spec.md §4.11 and the "File I/O beyond memory-mapped reading ... out
// of scope" Non-goal (opening is delegated to os.Open; everything past
// that is the same cursor-over-bytes shape as the in-memory source).
package pfile

import (
	"bufio"
	"io"
	"os"

	"github.com/waavs-go/pslang/perrors"
)

// Memory is an object.File over an in-memory byte slice.
type Memory struct {
	data  []byte
	pos   int
	valid bool
}

// NewMemory wraps data for sequential (and seekable) reading.
func NewMemory(data []byte) *Memory {
	return &Memory{data: data, valid: true}
}

func (f *Memory) ReadByte() (byte, bool, error) {
	if !f.valid {
		return 0, false, perrors.New(perrors.InvalidAccess, "readbyte")
	}
	if f.pos >= len(f.data) {
		return 0, false, nil
	}
	b := f.data[f.pos]
	f.pos++
	return b, true, nil
}

func (f *Memory) ReadString(buf []byte) (int, bool, error) {
	if !f.valid {
		return 0, false, perrors.New(perrors.InvalidAccess, "readstring")
	}
	n := copy(buf, f.data[f.pos:])
	f.pos += n
	return n, n < len(buf), nil
}

func (f *Memory) ReadLine() ([]byte, bool, error) {
	if !f.valid {
		return nil, false, perrors.New(perrors.InvalidAccess, "readline")
	}
	start := f.pos
	for f.pos < len(f.data) && f.data[f.pos] != '\n' {
		f.pos++
	}
	line := f.data[start:f.pos]
	eof := f.pos >= len(f.data)
	if f.pos < len(f.data) {
		f.pos++ // consume the newline
	}
	return line, eof, nil
}

func (f *Memory) BytesAvailable() int { return len(f.data) - f.pos }
func (f *Memory) Position() int64     { return int64(f.pos) }

func (f *Memory) SetPosition(pos int64) error {
	if pos < 0 || pos > int64(len(f.data)) {
		return perrors.New(perrors.RangeCheck, "setfileposition")
	}
	f.pos = int(pos)
	return nil
}

func (f *Memory) Rewind() error { f.pos = 0; return nil }
func (f *Memory) IsValid() bool { return f.valid }
func (f *Memory) Finalize() error {
	f.valid = false
	return nil
}

// OSFile wraps an *os.File opened in read or write mode, buffered for the
// byte-at-a-time access pattern the lexer/read operators use.
type OSFile struct {
	f      *os.File
	r      *bufio.Reader
	w      *bufio.Writer
	pos    int64
	valid  bool
	isRead bool
}

// Open opens path for reading.
func Open(path string) (*OSFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Newf(perrors.IOError, "file", "%s", err.Error())
	}
	return &OSFile{f: f, r: bufio.NewReader(f), valid: true, isRead: true}, nil
}

// Create opens path for writing, truncating any existing content.
func Create(path string) (*OSFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, perrors.Newf(perrors.IOError, "file", "%s", err.Error())
	}
	return &OSFile{f: f, w: bufio.NewWriter(f), valid: true}, nil
}

func (f *OSFile) ReadByte() (byte, bool, error) {
	if !f.valid || !f.isRead {
		return 0, false, perrors.New(perrors.InvalidFileAccess, "readbyte")
	}
	b, err := f.r.ReadByte()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, perrors.Newf(perrors.IOError, "readbyte", "%s", err.Error())
	}
	f.pos++
	return b, true, nil
}

func (f *OSFile) ReadString(buf []byte) (int, bool, error) {
	n, err := io.ReadFull(f.r, buf)
	f.pos += int64(n)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, true, nil
	}
	if err != nil {
		return n, false, perrors.Newf(perrors.IOError, "readstring", "%s", err.Error())
	}
	return n, false, nil
}

func (f *OSFile) ReadLine() ([]byte, bool, error) {
	line, err := f.r.ReadBytes('\n')
	f.pos += int64(len(line))
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	if err == io.EOF {
		return line, true, nil
	}
	if err != nil {
		return line, false, perrors.Newf(perrors.IOError, "readline", "%s", err.Error())
	}
	return line, false, nil
}

// Write writes raw bytes (used by "write"/"print"-to-file style operators
// that accept a File object, not just stdout).
func (f *OSFile) Write(b []byte) (int, error) {
	if f.w == nil {
		return 0, perrors.New(perrors.InvalidFileAccess, "write")
	}
	return f.w.Write(b)
}

func (f *OSFile) BytesAvailable() int { return -1 }
func (f *OSFile) Position() int64     { return f.pos }

func (f *OSFile) SetPosition(pos int64) error {
	if _, err := f.f.Seek(pos, io.SeekStart); err != nil {
		return perrors.Newf(perrors.IOError, "setfileposition", "%s", err.Error())
	}
	f.pos = pos
	if f.isRead {
		f.r.Reset(f.f)
	}
	return nil
}

func (f *OSFile) Rewind() error { return f.SetPosition(0) }
func (f *OSFile) IsValid() bool { return f.valid }

func (f *OSFile) Finalize() error {
	if !f.valid {
		return nil
	}
	f.valid = false
	if f.w != nil {
		if err := f.w.Flush(); err != nil {
			return perrors.Newf(perrors.IOError, "closefile", "%s", err.Error())
		}
	}
	return f.f.Close()
}
