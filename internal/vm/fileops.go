package vm

import (
	"github.com/waavs-go/pslang/internal/filter"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
	"github.com/waavs-go/pslang/internal/pfile"
)

// registerFileOps installs the file operator family and the filters
// (spec.md §4.11): ASCII85Decode and RunLengthDecode, plus ASCII85Encode.
// "file" only supports the "r"/"w" access strings this core's pfile package
// implements; anything else (e.g. append) fails invalidfileaccess.
func registerFileOps(v *VM) {
	v.def("file", func(v *VM) error {
		mode, err := v.popString("file")
		if err != nil {
			return err
		}
		nameStr, err := v.popString("file")
		if err != nil {
			return err
		}
		modeStr := mode.String()
		var f object.File
		switch modeStr {
		case "r":
			osf, err := pfile.Open(nameStr.String())
			if err != nil {
				return err
			}
			f = osf
		case "w":
			osf, err := pfile.Create(nameStr.String())
			if err != nil {
				return err
			}
			f = osf
		default:
			return perrors.New(perrors.InvalidFileAccess, "file")
		}
		v.Push(object.Object{Kind: object.FileObj, File: f})
		return nil
	})

	v.def("closefile", func(v *VM) error {
		f, err := v.popFile("closefile")
		if err != nil {
			return err
		}
		return f.Finalize()
	})

	v.def("readByte", func(v *VM) error { return opReadByte(v) })
	v.def("read", func(v *VM) error { return opReadByte(v) })

	v.def("readstring", func(v *VM) error {
		s, err := v.popString("readstring")
		if err != nil {
			return err
		}
		f, err := v.popFile("readstring")
		if err != nil {
			return err
		}
		buf := make([]byte, s.Length())
		n, eof, err := f.ReadString(buf)
		if err != nil {
			return err
		}
		_ = s.SetLength(n)
		for i := 0; i < n; i++ {
			_ = s.Put(i, buf[i])
		}
		v.Push(object.Object{Kind: object.StringObj, Str: s})
		v.Push(object.NewBoolean(!eof))
		return nil
	})

	v.def("readline", func(v *VM) error {
		s, err := v.popString("readline")
		if err != nil {
			return err
		}
		f, err := v.popFile("readline")
		if err != nil {
			return err
		}
		line, eof, err := f.ReadLine()
		if err != nil {
			return err
		}
		n := len(line)
		if n > s.Capacity() {
			n = s.Capacity()
		}
		_ = s.SetLength(n)
		for i := 0; i < n; i++ {
			_ = s.Put(i, line[i])
		}
		v.Push(object.Object{Kind: object.StringObj, Str: s})
		v.Push(object.NewBoolean(!eof || n > 0))
		return nil
	})

	v.def("bytesavailable", func(v *VM) error {
		f, err := v.popFile("bytesavailable")
		if err != nil {
			return err
		}
		v.Push(object.NewInteger(int32(f.BytesAvailable())))
		return nil
	})

	v.def("filePosition", func(v *VM) error {
		f, err := v.popFile("filePosition")
		if err != nil {
			return err
		}
		v.Push(object.NewInteger(int32(f.Position())))
		return nil
	})

	v.def("setfileposition", func(v *VM) error {
		pos, err := v.popInt("setfileposition")
		if err != nil {
			return err
		}
		f, err := v.popFile("setfileposition")
		if err != nil {
			return err
		}
		return f.SetPosition(int64(pos))
	})

	v.def("rewind", func(v *VM) error {
		f, err := v.popFile("rewind")
		if err != nil {
			return err
		}
		return f.Rewind()
	})

	v.def("filter", func(v *VM) error {
		filterName, err := v.popName("filter")
		if err != nil {
			return err
		}
		src, err := v.popFile("filter")
		if err != nil {
			return err
		}
		var wrapped object.File
		switch filterName.Nm.String() {
		case "ASCII85Decode":
			wrapped = filter.NewASCII85Decode(src)
		case "ASCII85Encode":
			wrapped = filter.NewASCII85Encode(src)
		case "RunLengthDecode":
			wrapped = filter.NewRunLengthDecode(src)
		default:
			return perrors.New(perrors.Undefined, "filter")
		}
		v.Push(object.Object{Kind: object.FileObj, File: wrapped})
		return nil
	})

	v.def("run", func(v *VM) error {
		s, err := v.popString("run")
		if err != nil {
			// "run" is most commonly called with a filename string in
			// real PostScript usage, which is what popString expects.
			return err
		}
		osf, err := pfile.Open(s.String())
		if err != nil {
			return err
		}
		defer osf.Finalize()
		data := drainFile(osf)
		prevFile := v.CurrentFile
		v.CurrentFile = object.Object{Kind: object.FileObj, File: osf}
		defer func() { v.CurrentFile = prevFile }()
		return v.RunSource(data)
	})

	v.def("currentfile", func(v *VM) error {
		v.Push(v.CurrentFile)
		return nil
	})
}

func (v *VM) popFile(op string) (object.File, error) {
	o, err := v.Pop()
	if err != nil {
		return nil, err
	}
	if o.Kind != object.FileObj {
		return nil, perrors.New(perrors.TypeCheck, op)
	}
	return o.File, nil
}

func opReadByte(v *VM) error {
	f, err := v.popFile("readByte")
	if err != nil {
		return err
	}
	b, ok, err := f.ReadByte()
	if err != nil {
		return err
	}
	if !ok {
		v.Push(object.NewBoolean(false))
		return nil
	}
	v.Push(object.NewInteger(int32(b)))
	v.Push(object.NewBoolean(true))
	return nil
}

// drainFile reads f to EOF, used by "run" to hand the whole program to the
// parser at once (matching the core's non-streaming parser design).
func drainFile(f object.File) []byte {
	var out []byte
	buf := make([]byte, 4096)
	for {
		n, eof, err := f.ReadString(buf)
		if err != nil {
			break
		}
		out = append(out, buf[:n]...)
		if eof {
			break
		}
	}
	return out
}
