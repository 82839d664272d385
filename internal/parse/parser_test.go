package parse

import (
	"testing"

	"github.com/waavs-go/pslang/internal/object"
)

func parseAll(t *testing.T, src string) []object.Object {
	t.Helper()
	p := NewParser([]byte(src))
	var out []object.Object
	for {
		o, ok, err := p.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		if !ok {
			break
		}
		out = append(out, o)
	}
	return out
}

func TestParsesLiteralsAndNames(t *testing.T) {
	objs := parseAll(t, "42 3.25 /foo bar")
	if len(objs) != 4 {
		t.Fatalf("got %d objects, want 4", len(objs))
	}
	if objs[0].Kind != object.Integer || objs[0].Int != 42 {
		t.Errorf("objs[0] = %+v", objs[0])
	}
	if objs[1].Kind != object.Real || objs[1].Real != 3.25 {
		t.Errorf("objs[1] = %+v", objs[1])
	}
	if objs[2].Kind != object.NameObj || objs[2].Exec {
		t.Errorf("objs[2] = %+v, want literal name", objs[2])
	}
	if objs[3].Kind != object.NameObj || !objs[3].Exec {
		t.Errorf("objs[3] = %+v, want executable name", objs[3])
	}
}

func TestParsesExecutableArray(t *testing.T) {
	objs := parseAll(t, "{ 1 2 add }")
	if len(objs) != 1 {
		t.Fatalf("got %d objects, want 1", len(objs))
	}
	arr := objs[0]
	if arr.Kind != object.ArrayObj || !arr.Exec {
		t.Fatalf("arr = %+v, want executable array", arr)
	}
	if arr.Arr.Length() != 3 {
		t.Fatalf("arr.Length() = %d, want 3", arr.Arr.Length())
	}
}

func TestParsesLiteralArray(t *testing.T) {
	objs := parseAll(t, "[1 2 3]")
	if len(objs) != 1 || objs[0].Kind != object.ArrayObj || objs[0].Exec {
		t.Fatalf("objs = %+v, want one literal array", objs)
	}
	if objs[0].Arr.Length() != 3 {
		t.Fatalf("Length() = %d, want 3", objs[0].Arr.Length())
	}
}

func TestParsesNestedArrayAndDict(t *testing.T) {
	objs := parseAll(t, "<< /a 1 /b [2 3] >>")
	if len(objs) != 1 || objs[0].Kind != object.DictObj {
		t.Fatalf("objs = %+v, want one dict", objs)
	}
	d := objs[0].Dict
	if d.Length() != 2 {
		t.Fatalf("dict length = %d, want 2", d.Length())
	}
}

func TestStringEscapesDecoded(t *testing.T) {
	objs := parseAll(t, `(line1\nline2\t\050end\051)`)
	if len(objs) != 1 || objs[0].Kind != object.StringObj {
		t.Fatalf("objs = %+v", objs)
	}
	got := objs[0].Str.String()
	want := "line1\nline2\t(end)"
	if got != want {
		t.Errorf("decoded string = %q, want %q", got, want)
	}
}

func TestHexStringDecoded(t *testing.T) {
	objs := parseAll(t, "<48656C6C6F>")
	if len(objs) != 1 {
		t.Fatalf("objs = %+v", objs)
	}
	if got := objs[0].Str.String(); got != "Hello" {
		t.Errorf("hex string = %q, want Hello", got)
	}
}

func TestUnmatchedCloseDelimiterErrors(t *testing.T) {
	p := NewParser([]byte("} "))
	_, _, err := p.Next()
	if err == nil {
		t.Fatal("expected unmatched-mark error")
	}
}

func TestRadixNumberParsesAsInteger(t *testing.T) {
	objs := parseAll(t, "16#FF")
	if len(objs) != 1 || objs[0].Kind != object.Integer || objs[0].Int != 255 {
		t.Fatalf("objs = %+v, want integer 255", objs)
	}
}
