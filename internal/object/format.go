package object

import (
	"strconv"
	"strings"

	"github.com/waavs-go/pslang/internal/name"
)

// Format renders o the way the "=" operator does: a shallow, human
// readable form with no surrounding quoting for strings or names (spec.md
// §4.9's "=" contract; see ps_print.h's writeObjectShallow in
// original_source for the per-type layout this mirrors).
func Format(o Object) string {
	switch o.Kind {
	case Null:
		return "null"
	case Boolean:
		if o.Bool {
			return "true"
		}
		return "false"
	case Integer:
		return strconv.FormatInt(int64(o.Int), 10)
	case Real:
		return formatReal(o.Real)
	case Mark:
		return "-mark-"
	case NameObj:
		return o.Nm.String()
	case StringObj:
		if o.Str == nil {
			return ""
		}
		return o.Str.String()
	case ArrayObj:
		if o.Arr == nil {
			return "[NULLPTR]"
		}
		if o.Exec {
			return "{...(" + strconv.Itoa(o.Arr.Length()) + ")}"
		}
		return "[...(" + strconv.Itoa(o.Arr.Length()) + ")]"
	case DictObj:
		return "<<...>>"
	case OperatorObj:
		if o.Op != nil {
			return "--" + o.Op.Name.String() + "--"
		}
		return "--operator--"
	case FileObj:
		return "--file--"
	case MatrixObj:
		a := o.Matrix.Array()
		return "[" + joinFloats(a[:]) + "]"
	case PathObj:
		return "--path--"
	case FontFaceObj, FontObj:
		return "--font--"
	case SaveObj:
		return "--save--"
	default:
		return "--unknown--"
	}
}

// ReprDeep renders o the way "==" / "pstack" do: recursively expanding
// arrays and dictionaries, with literal names showing their "/" prefix.
func ReprDeep(o Object) string {
	switch o.Kind {
	case NameObj:
		if !o.Exec {
			return "/" + o.Nm.String()
		}
		return o.Nm.String()
	case StringObj:
		if o.Str == nil {
			return "()"
		}
		return "(" + o.Str.String() + ")"
	case ArrayObj:
		if o.Arr == nil {
			return "[NULLPTR]"
		}
		open, close := "[", "]"
		if o.Exec {
			open, close = "{", "}"
		}
		var parts []string
		o.Arr.ForEach(func(e Object) bool {
			parts = append(parts, ReprDeep(e))
			return true
		})
		return open + strings.Join(parts, " ") + close
	case DictObj:
		if o.Dict == nil {
			return "<<NULLDICT>>"
		}
		var parts []string
		o.Dict.ForEach(func(k name.Name, v Object) bool {
			parts = append(parts, "/"+k.String()+" "+ReprDeep(v))
			return true
		})
		return "<<" + strings.Join(parts, " ") + ">>"
	default:
		return Format(o)
	}
}

// formatReal renders a float64 using Go's shortest round-tripping decimal
// form, matching the original's plain stream-insertion formatting.
func formatReal(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func joinFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatReal(v)
	}
	return strings.Join(parts, " ")
}
