package filter

import "github.com/waavs-go/pslang/perrors"

// byteReader is the minimal surface common.go's helpers need; every
// filter in this package implements object.File, which is a superset.
type byteReader interface {
	ReadByte() (byte, bool, error)
}

// readStringFromByteReader fills dst byte by byte, used by filters that
// have no faster bulk path since their transform is inherently
// byte-at-a-time.
func readStringFromByteReader(r byteReader, dst []byte) (int, bool, error) {
	for i := range dst {
		b, ok, err := r.ReadByte()
		if err != nil {
			return i, false, err
		}
		if !ok {
			return i, true, nil
		}
		dst[i] = b
	}
	return len(dst), false, nil
}

// readLineFromByteReader reads up to the next '\n' (exclusive) or EOF.
func readLineFromByteReader(r byteReader) ([]byte, bool, error) {
	var line []byte
	for {
		b, ok, err := r.ReadByte()
		if err != nil {
			return line, false, err
		}
		if !ok {
			return line, true, nil
		}
		if b == '\n' {
			return line, false, nil
		}
		line = append(line, b)
	}
}

func errNotSeekable(filterName string) error {
	return perrors.Newf(perrors.IOError, filterName, "%s", "filter is not seekable")
}
