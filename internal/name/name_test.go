package name

import "testing"

func TestInternEquality(t *testing.T) {
	a := Intern("moveto")
	b := Intern("moveto")

	if !a.Equal(b) {
		t.Errorf("Intern(%q) != Intern(%q), want equal handles", "moveto", "moveto")
	}

	c := Intern("lineto")
	if a.Equal(c) {
		t.Errorf("Intern(%q) == Intern(%q), want distinct handles", "moveto", "lineto")
	}
}

func TestInternRoundTrip(t *testing.T) {
	n := Intern("showpage")
	if got := n.String(); got != "showpage" {
		t.Errorf("String() = %q, want %q", got, "showpage")
	}
}

func TestInternBytesSharesHandle(t *testing.T) {
	byName := Intern("exec")
	byBytes := InternBytes([]byte("exec"))

	if !byName.Equal(byBytes) {
		t.Errorf("Intern and InternBytes produced different handles for the same bytes")
	}
}

func TestZeroValueInvalid(t *testing.T) {
	var n Name
	if n.Valid() {
		t.Errorf("zero value Name reported Valid() == true")
	}
}
