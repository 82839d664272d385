// Package parse turns a lexeme stream (package lex) into a stream of
// objects (package object), per spec.md §4.3: it builds executable
// arrays, literal arrays, and dictionaries structurally as it recognizes
// their bracketing delimiters, but never evaluates anything — that is
// the VM's job.
package parse

import (
	"strconv"
	"strings"

	"github.com/waavs-go/pslang/internal/lex"
	"github.com/waavs-go/pslang/internal/name"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
)

// SystemResolver looks up the immediate binding for a "//name" token,
// consulting systemdict (or wherever the host wants "//" to resolve
// against) at scan time rather than deferring to VM execution.
type SystemResolver func(n name.Name) (object.Object, bool)

// input is one entry in the parser's lexer stack; eexec decoding pushes a
// new input on top so the outer source resumes once the inner one is
// exhausted, matching spec.md §9's "stack of lexer inputs".
type input struct {
	lexer *lex.Lexer
}

// Parser consumes bytes and yields top-level Objects one at a time.
type Parser struct {
	stack     []*input
	resolve   SystemResolver
	lenIV     int
	lastError error
}

// NewParser returns a Parser reading src from the start.
func NewParser(src []byte) *Parser {
	return &Parser{
		stack: []*input{{lexer: lex.NewLexer(src)}},
		lenIV: 4,
	}
}

// SetSystemResolver installs the collaborator used to resolve "//name"
// tokens immediately at parse time.
func (p *Parser) SetSystemResolver(r SystemResolver) { p.resolve = r }

// Next returns the next top-level object from the stream. At end of
// input it returns ok=false with a nil error.
func (p *Parser) Next() (obj object.Object, ok bool, err error) {
	for {
		if len(p.stack) == 0 {
			return object.Object{}, false, nil
		}
		top := p.stack[len(p.stack)-1]
		lxm, more := top.lexer.Next()

		if lxm.Kind == lex.EOF {
			p.stack = p.stack[:len(p.stack)-1]
			if len(p.stack) == 0 {
				return object.Object{}, false, nil
			}
			continue
		}
		if !more && lxm.Kind != lex.EexecSwitch {
			// Defensive: lex.Lexer.Next reports ok=false only together
			// with an EOF lexeme (handled above), so this branch is not
			// normally reached; any other ok=false is treated as EOF.
			p.stack = p.stack[:len(p.stack)-1]
			continue
		}

		obj, consumed, perr := p.build(lxm, top.lexer)
		if perr != nil {
			return object.Object{}, false, perr
		}
		if !consumed {
			continue
		}
		return obj, true, nil
	}
}

// build converts a single lexeme into an object, recursing into l for
// compound forms ({}, [], <<>>).
func (p *Parser) build(lxm lex.Lexeme, l *lex.Lexer) (obj object.Object, consumed bool, err error) {
	switch lxm.Kind {
	case lex.Comment, lex.DSCComment:
		return object.Object{}, false, nil

	case lex.Number:
		return p.buildNumber(lxm)

	case lex.LiteralName:
		return object.NewName(name.InternBytes(lxm.Text), false), true, nil

	case lex.SystemName:
		n := name.InternBytes(lxm.Text)
		if p.resolve != nil {
			if v, ok := p.resolve(n); ok {
				return v, true, nil
			}
		}
		return object.NewName(n, false), true, nil

	case lex.Name:
		return object.NewName(name.InternBytes(lxm.Text), true), true, nil

	case lex.String:
		return object.Object{Kind: object.StringObj, Str: object.NewPStringFromBytes(decodeStringEscapes(lxm.Text))}, true, nil

	case lex.UnterminatedString, lex.UnterminatedHexString:
		return object.Object{}, false, perrors.Newf(perrors.SyntaxError, "parse", "%s", "unterminated string/hex string")

	case lex.HexString:
		return object.Object{Kind: object.StringObj, Str: object.NewPStringFromBytes(decodeHexPairs(lxm.Text))}, true, nil

	case lex.LBrace:
		arr, perr := p.buildSequence(l, lex.RBrace)
		if perr != nil {
			return object.Object{}, false, perr
		}
		return object.Object{Kind: object.ArrayObj, Exec: true, Arr: arr}, true, nil

	case lex.LBracket:
		arr, perr := p.buildSequence(l, lex.RBracket)
		if perr != nil {
			return object.Object{}, false, perr
		}
		return object.Object{Kind: object.ArrayObj, Exec: false, Arr: arr}, true, nil

	case lex.RBrace, lex.RBracket, lex.DictEnd:
		return object.Object{}, false, perrors.Newf(perrors.UnmatchedMark, "parse", "%s", "unmatched close delimiter")

	case lex.DictBegin:
		d, perr := p.buildDict(l)
		if perr != nil {
			return object.Object{}, false, perr
		}
		return object.Object{Kind: object.DictObj, Dict: d}, true, nil

	case lex.Delimiter:
		return object.Object{}, false, perrors.Newf(perrors.SyntaxError, "parse", "%s", "unexpected delimiter "+string(lxm.Text))

	case lex.EexecSwitch:
		return p.pushEexecBlock(lxm)

	default:
		return object.Object{}, false, perrors.Newf(perrors.SyntaxError, "parse", "%s", "unrecognized lexeme")
	}
}

// buildSequence recursively parses objects until closeKind is seen,
// returning them as an Array (used for both {} and [] forms since the
// parser builds both structurally rather than via the mark mechanism).
func (p *Parser) buildSequence(l *lex.Lexer, closeKind lex.Kind) (*object.Array, error) {
	var items []object.Object
	for {
		lxm, more := l.Next()
		if lxm.Kind == closeKind {
			break
		}
		if lxm.Kind == lex.EOF {
			return nil, perrors.Newf(perrors.SyntaxError, "parse", "%s", "unexpected end of input inside procedure/array")
		}
		obj, consumed, err := p.build(lxm, l)
		if err != nil {
			return nil, err
		}
		if consumed {
			items = append(items, obj)
		}
		if !more && lxm.Kind != lex.EexecSwitch {
			return nil, perrors.Newf(perrors.SyntaxError, "parse", "%s", "unexpected end of input inside procedure/array")
		}
	}
	arr := object.NewArray(len(items))
	for i, it := range items {
		_ = arr.Put(i, it)
	}
	return arr, nil
}

// buildDict recursively parses name/value pairs until DictEnd.
func (p *Parser) buildDict(l *lex.Lexer) (*object.Dict, error) {
	d := object.NewDict(8)
	for {
		keyLxm, more := l.Next()
		if keyLxm.Kind == lex.DictEnd {
			return d, nil
		}
		if keyLxm.Kind == lex.EOF || !more {
			return nil, perrors.Newf(perrors.SyntaxError, "parse", "%s", "unexpected end of input inside dict")
		}
		keyObj, consumed, err := p.build(keyLxm, l)
		if err != nil {
			return nil, err
		}
		if !consumed {
			continue
		}
		if keyObj.Kind != object.NameObj {
			return nil, perrors.Newf(perrors.TypeCheck, "parse", "%s", "dict key must be a name")
		}

		valLxm, more := l.Next()
		if valLxm.Kind == lex.DictEnd || valLxm.Kind == lex.EOF {
			return nil, perrors.Newf(perrors.SyntaxError, "parse", "%s", "dict entry missing value")
		}
		valObj, consumed, err := p.build(valLxm, l)
		if err != nil {
			return nil, err
		}
		if !consumed {
			return nil, perrors.Newf(perrors.SyntaxError, "parse", "%s", "dict entry missing value")
		}
		if !more && valLxm.Kind != lex.EexecSwitch {
			return nil, perrors.Newf(perrors.SyntaxError, "parse", "%s", "unexpected end of input inside dict")
		}
		d.Put(keyObj.Nm, valObj)
	}
}

// buildNumber classifies a Number lexeme as Integer when whole and
// representable in int32, otherwise Real, per spec.md §4.3; the radix
// form base#digits is always an integer.
func (p *Parser) buildNumber(lxm lex.Lexeme) (object.Object, bool, error) {
	text := string(lxm.Text)
	if idx := strings.IndexByte(text, '#'); idx >= 0 {
		base, err := strconv.ParseInt(text[:idx], 10, 64)
		if err != nil || base < 2 || base > 36 {
			return object.NewName(name.Intern(text), true), true, nil
		}
		v, err := strconv.ParseInt(text[idx+1:], int(base), 64)
		if err != nil {
			return object.NewName(name.Intern(text), true), true, nil
		}
		return object.NewInteger(int32(uint32(v))), true, nil
	}

	if !strings.ContainsAny(text, ".eE") {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil && v >= -(1<<31) && v <= (1<<31)-1 {
			return object.NewInteger(int32(v)), true, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return object.Object{}, false, perrors.Newf(perrors.SyntaxError, "parse", "%s", "malformed number "+text)
	}
	return object.NewReal(f), true, nil
}

// pushEexecBlock decodes the encrypted span (hex or raw binary),
// decrypts it with the eexec cipher, and pushes the cleartext as a new
// lexer input; parsing continues against the decrypted bytes until they
// run out, at which point Next() pops back to the outer stream.
func (p *Parser) pushEexecBlock(lxm lex.Lexeme) (object.Object, bool, error) {
	payload := lxm.Text
	var cipher []byte
	if lex.IsBinaryEexec(payload) {
		cipher = payload
	} else {
		cipher = lex.DecodeEexecHex(payload)
	}
	clear := lex.DecryptEexec(cipher)
	p.stack = append(p.stack, &input{lexer: lex.NewLexer(clear)})
	return object.Object{}, false, nil
}

// decodeStringEscapes interprets PostScript string backslash escapes:
// \n \r \t \b \f \\ \( \) \ddd (1-3 octal digits) and backslash-newline
// line continuation (already positionally consumed by the lexer's span,
// but the backslash+digits still need decoding here).
func decodeStringEscapes(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '\\' || i+1 >= len(src) {
			out = append(out, c)
			continue
		}
		i++
		switch n := src[i]; n {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case '\\', '(', ')':
			out = append(out, n)
		case '\n':
			// line continuation, emits nothing
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
		default:
			if n >= '0' && n <= '7' {
				val := int(n - '0')
				count := 0
				for count < 2 && i+1 < len(src) && src[i+1] >= '0' && src[i+1] <= '7' {
					i++
					val = val*8 + int(src[i]-'0')
					count++
				}
				out = append(out, byte(val))
			} else {
				out = append(out, n)
			}
		}
	}
	return out
}

// decodeHexPairs converts an ASCII-hex string lexeme to bytes, ignoring
// whitespace and treating an odd trailing nibble as implicitly 0, per
// the PostScript hex string syntax.
func decodeHexPairs(src []byte) []byte {
	out := make([]byte, 0, len(src)/2+1)
	hi, haveHi := byte(0), false
	for _, b := range src {
		var v byte
		switch {
		case b >= '0' && b <= '9':
			v = b - '0'
		case b >= 'a' && b <= 'f':
			v = b - 'a' + 10
		case b >= 'A' && b <= 'F':
			v = b - 'A' + 10
		default:
			continue
		}
		if !haveHi {
			hi, haveHi = v, true
			continue
		}
		out = append(out, hi<<4|v)
		haveHi = false
	}
	if haveHi {
		out = append(out, hi<<4)
	}
	return out
}
