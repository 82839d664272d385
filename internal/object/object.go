// Package object implements the PostScript dynamic object model (spec.md
// §3): a tagged value carrying all dynamic types, plus the heap-backed
// container types (array, dictionary, string) that share ownership across
// copies of an Object, per the "Containers" and "Object model" components.
package object

import (
	"github.com/waavs-go/pslang/internal/geom"
	"github.com/waavs-go/pslang/internal/name"
	"github.com/waavs-go/pslang/internal/pathmodel"
)

// Kind is the tag of the Object union.
type Kind uint8

const (
	Null Kind = iota
	Boolean
	Integer
	Real
	Mark
	NameObj
	StringObj
	ArrayObj
	DictObj
	OperatorObj
	FileObj
	MatrixObj
	PathObj
	FontFaceObj
	FontObj
	SaveObj
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "nulltype"
	case Boolean:
		return "booleantype"
	case Integer:
		return "integertype"
	case Real:
		return "realtype"
	case Mark:
		return "marktype"
	case NameObj:
		return "nametype"
	case StringObj:
		return "stringtype"
	case ArrayObj:
		return "arraytype"
	case DictObj:
		return "dicttype"
	case OperatorObj:
		return "operatortype"
	case FileObj:
		return "filetype"
	case MatrixObj:
		return "matrixtype" // not a real PostScript type name; matrices are arrays in real PS
	case PathObj:
		return "pathtype"
	case FontFaceObj, FontObj:
		return "fonttype"
	case SaveObj:
		return "savetype"
	default:
		return "unknowntype"
	}
}

// Operator is the function signature backing an OperatorObj; the VM
// interface is kept abstract here (an any) to avoid an import cycle with
// package vm, which depends on object. Concrete operator registration casts
// this back to vm.Func.
type Operator struct {
	Name name.Name
	Fn   any
}

// Object is a tagged union value. Copies share ownership of any heap
// entity they reference (String, Array, Dict, File, Path, FontFace, Font),
// matching spec.md's "shared ownership, lifetime = longest holder".
type Object struct {
	Kind Kind
	Exec bool // executable bit; meaningful for NameObj, ArrayObj, StringObj

	Int    int32
	Real   float64
	Bool   bool
	Nm     name.Name
	Matrix geom.Matrix
	SaveID uint64

	Str  *PString
	Arr  *Array
	Dict *Dict
	File File
	Path *pathmodel.Path
	Face *FontFace
	Font *Font
	Op   *Operator
}

// NullObject is the shared null value.
func NullObject() Object { return Object{Kind: Null} }

// NewMark returns a mark sentinel object.
func NewMark() Object { return Object{Kind: Mark} }

// NewBoolean wraps a bool.
func NewBoolean(b bool) Object { return Object{Kind: Boolean, Bool: b} }

// NewInteger wraps an int32.
func NewInteger(i int32) Object { return Object{Kind: Integer, Int: i} }

// NewReal wraps a float64.
func NewReal(r float64) Object { return Object{Kind: Real, Real: r} }

// NewName wraps an interned name; exec controls whether it is pushed
// literal (false) or executed when reached by the VM (true).
func NewName(n name.Name, exec bool) Object { return Object{Kind: NameObj, Nm: n, Exec: exec} }

// NewMatrix wraps a geom.Matrix as a first-class object (used by
// "matrix", "currentmatrix", operators that hand matrices to/from the
// operand stack as 6-element arrays in real PostScript; this core keeps a
// dedicated variant for simplicity).
func NewMatrix(m geom.Matrix) Object { return Object{Kind: MatrixObj, Matrix: m} }

// NewOperator wraps a built-in operator.
func NewOperator(op *Operator) Object { return Object{Kind: OperatorObj, Op: op, Exec: true} }

// NewSave wraps a save-generation identity.
func NewSave(id uint64) Object { return Object{Kind: SaveObj, SaveID: id} }

// IsNull reports whether o is the null object.
func (o Object) IsNull() bool { return o.Kind == Null }

// IsProcedure reports whether o is an executable array (a "procedure" per
// the GLOSSARY).
func (o Object) IsProcedure() bool { return o.Kind == ArrayObj && o.Exec }

// IsNumber reports whether o is an Integer or Real.
func (o Object) IsNumber() bool { return o.Kind == Integer || o.Kind == Real }

// AsReal returns o's numeric value widened to float64; the second return
// is false if o is not a number.
func (o Object) AsReal() (float64, bool) {
	switch o.Kind {
	case Integer:
		return float64(o.Int), true
	case Real:
		return o.Real, true
	default:
		return 0, false
	}
}
