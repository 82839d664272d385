package object

// File is the shared sequential byte source behind a FileObj (spec.md
// §3, §4.11). Concrete implementations include a memory-mapped/loaded
// source file (package pfile) and the filter wrappers (package filter)
// that transform bytes from an upstream File on demand.
type File interface {
	// ReadByte returns the next byte, or ok=false at EOF (EOF is not an
	// error for read operators per spec.md §7).
	ReadByte() (b byte, ok bool, err error)
	// ReadString fills buf from the stream, returning the number of bytes
	// actually read and whether EOF was reached before buf was filled.
	ReadString(buf []byte) (n int, eof bool, err error)
	// ReadLine reads up to the next newline (exclusive) or EOF.
	ReadLine() (line []byte, eof bool, err error)
	// BytesAvailable returns a best-effort count of unread bytes, or -1
	// if unknown (e.g. a filter over a streaming source).
	BytesAvailable() int
	// Position returns the current byte offset.
	Position() int64
	// SetPosition seeks to an absolute offset; filters that cannot seek
	// return an error.
	SetPosition(pos int64) error
	// Rewind seeks to the start.
	Rewind() error
	// IsValid reports whether the file is still open.
	IsValid() bool
	// Finalize closes the file, releasing any underlying resource.
	Finalize() error
}
