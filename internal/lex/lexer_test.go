package lex

import "testing"

func kinds(t *testing.T, src string) []Kind {
	t.Helper()
	l := NewLexer([]byte(src))
	var got []Kind
	for {
		lx, ok := l.Next()
		got = append(got, lx.Kind)
		if !ok {
			break
		}
	}
	return got
}

func TestNextSkipsWhitespaceAndNulls(t *testing.T) {
	l := NewLexer([]byte("  \x00\x00 42"))
	lx, ok := l.Next()
	if !ok || lx.Kind != Number || string(lx.Text) != "42" {
		t.Fatalf("Next() = %+v, %v", lx, ok)
	}
}

func TestNumberSignAndFraction(t *testing.T) {
	cases := []string{"42", "-17", "+3.25", ".5", "-.5", "1.0e6", "1e-3"}
	for _, c := range cases {
		l := NewLexer([]byte(c))
		lx, _ := l.Next()
		if lx.Kind != Number {
			t.Errorf("%q: Kind = %v, want Number", c, lx.Kind)
		}
		if string(lx.Text) != c {
			t.Errorf("%q: Text = %q", c, lx.Text)
		}
	}
}

func TestRadixNumber(t *testing.T) {
	l := NewLexer([]byte("16#FFFE"))
	lx, _ := l.Next()
	if lx.Kind != Number || string(lx.Text) != "16#FFFE" {
		t.Fatalf("radix number = %+v", lx)
	}
}

func TestPlusMinusAloneIsName(t *testing.T) {
	l := NewLexer([]byte("- add"))
	lx, _ := l.Next()
	if lx.Kind != Name || string(lx.Text) != "-" {
		t.Fatalf("lone '-' = %+v, want Name", lx)
	}
}

func TestLiteralAndSystemName(t *testing.T) {
	l := NewLexer([]byte("/foo //bar"))
	lx1, _ := l.Next()
	if lx1.Kind != LiteralName || string(lx1.Text) != "foo" {
		t.Fatalf("literal name = %+v", lx1)
	}
	lx2, _ := l.Next()
	if lx2.Kind != SystemName || string(lx2.Text) != "bar" {
		t.Fatalf("system name = %+v", lx2)
	}
}

func TestStringBalancedNesting(t *testing.T) {
	l := NewLexer([]byte("(a (b) c) rest"))
	lx, _ := l.Next()
	if lx.Kind != String || string(lx.Text) != "a (b) c" {
		t.Fatalf("string = %+v", lx)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := NewLexer([]byte("(abc"))
	lx, ok := l.Next()
	if lx.Kind != UnterminatedString || ok {
		t.Fatalf("unterminated string = %+v, ok=%v", lx, ok)
	}
}

func TestHexStringVsDictBegin(t *testing.T) {
	l := NewLexer([]byte("<4142> <<"))
	lx1, _ := l.Next()
	if lx1.Kind != HexString || string(lx1.Text) != "4142" {
		t.Fatalf("hex string = %+v", lx1)
	}
	lx2, _ := l.Next()
	if lx2.Kind != DictBegin {
		t.Fatalf("dict begin = %+v", lx2)
	}
}

func TestDictEndVsLoneAngle(t *testing.T) {
	l := NewLexer([]byte(">> >"))
	lx1, _ := l.Next()
	if lx1.Kind != DictEnd {
		t.Fatalf("dict end = %+v", lx1)
	}
	lx2, _ := l.Next()
	if lx2.Kind != Delimiter {
		t.Fatalf("lone '>' = %+v, want Delimiter", lx2)
	}
}

func TestCommentVsDSCComment(t *testing.T) {
	got := kinds(t, "%plain\n%%Title: x\n42")
	want := []Kind{Comment, DSCComment, Number, EOF}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEexecSwitchSpansToCleartomark(t *testing.T) {
	src := "eexec DEADBEEF01 cleartomark rest"
	l := NewLexer([]byte(src))
	lx, ok := l.Next()
	if !ok && lx.Kind != EexecSwitch {
		t.Fatalf("eexec switch = %+v, ok=%v", lx, ok)
	}
	if lx.Kind != EexecSwitch {
		t.Fatalf("Kind = %v, want EexecSwitch", lx.Kind)
	}
	if string(lx.Text) != " DEADBEEF01 " {
		t.Errorf("Text = %q", lx.Text)
	}
	next, _ := l.Next()
	if next.Kind != Name || string(next.Text) != "rest" {
		t.Errorf("resume after cleartomark = %+v", next)
	}
}

func TestBracesAndBrackets(t *testing.T) {
	got := kinds(t, "{[ ]}")
	want := []Kind{LBrace, LBracket, RBracket, RBrace, EOF}
	for i, k := range want {
		if got[i] != k {
			t.Errorf("kinds[%d] = %v, want %v", i, got[i], k)
		}
	}
}
