package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseType parses a type expression into a descriptor.
//
// Grammar:
//
//	union := term ("|" term)*
//	term  := "*" term | "[]" term | "[" N "]" term | "map[" union "]" term
//	       | "(" union ")" | name
//
// A name is either a primitive keyword (bool, string, int, int8..int64, uint,
// uint8..uint64, byte, float32, float64, bytes, time, duration, any, empty, error)
// or an identifier optionally qualified by a package ("User", "api.User",
// "github.com/example/api.User"). "[]byte" parses as bytes.
func ParseType(expr string) (TypeDescriptor, error) {
	p := &parser{src: expr}
	t, err := p.union()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

// MustParseType is like ParseType but panics on error.
// Intended for tests and package-level fixtures.
func MustParseType(expr string) TypeDescriptor {
	t, err := ParseType(expr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseError describes a malformed type expression.
type ParseError struct {
	Expr    string
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("type %q: offset %d: %s", e.Expr, e.Offset, e.Message)
}

var keywords = map[string]func() *PrimitiveDescriptor{
	"bool":     Bool,
	"string":   String,
	"int":      func() *PrimitiveDescriptor { return Int(0) },
	"int8":     func() *PrimitiveDescriptor { return Int(8) },
	"int16":    func() *PrimitiveDescriptor { return Int(16) },
	"int32":    func() *PrimitiveDescriptor { return Int(32) },
	"int64":    func() *PrimitiveDescriptor { return Int(64) },
	"uint":     func() *PrimitiveDescriptor { return Uint(0) },
	"uint8":    func() *PrimitiveDescriptor { return Uint(8) },
	"byte":     func() *PrimitiveDescriptor { return Uint(8) },
	"uint16":   func() *PrimitiveDescriptor { return Uint(16) },
	"uint32":   func() *PrimitiveDescriptor { return Uint(32) },
	"uint64":   func() *PrimitiveDescriptor { return Uint(64) },
	"float32":  func() *PrimitiveDescriptor { return Float(32) },
	"float64":  func() *PrimitiveDescriptor { return Float(64) },
	"bytes":    Bytes,
	"time":     Time,
	"duration": Duration,
	"any":      Any,
	"empty":    Empty,
	"error":    Error,
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Expr: p.src, Offset: p.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) consume(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *parser) expect(tok string) error {
	if !p.consume(tok) {
		if p.pos >= len(p.src) {
			return p.errorf("expected %q, got end of input", tok)
		}
		return p.errorf("expected %q", tok)
	}
	return nil
}

func (p *parser) union() (TypeDescriptor, error) {
	first, err := p.term()
	if err != nil {
		return nil, err
	}
	members := []TypeDescriptor{first}
	for p.consume("|") {
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		members = append(members, t)
	}
	if len(members) == 1 {
		return first, nil
	}
	return Join(members...), nil
}

func (p *parser) term() (TypeDescriptor, error) {
	switch {
	case p.consume("*"):
		elem, err := p.term()
		if err != nil {
			return nil, err
		}
		return Ptr(elem), nil
	case p.consume("[]"):
		elem, err := p.term()
		if err != nil {
			return nil, err
		}
		if d, ok := elem.(*PrimitiveDescriptor); ok && d.PrimitiveKind == PrimitiveUint && d.BitSize == 8 {
			return Bytes(), nil
		}
		return Slice(elem), nil
	case p.consume("["):
		n, err := p.number()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		elem, err := p.term()
		if err != nil {
			return nil, err
		}
		return Array(elem, n), nil
	case p.consume("map["):
		key, err := p.union()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		value, err := p.term()
		if err != nil {
			return nil, err
		}
		return Map(key, value), nil
	case p.consume("("):
		u, err := p.union()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return u, nil
	default:
		return p.name()
	}
}

func (p *parser) number() (int, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, p.errorf("expected array length")
	}
	digits := p.src[start:p.pos]
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		p.pos = start
		return 0, p.errorf("invalid array length %q", digits)
	}
	return n, nil
}

func (p *parser) name() (TypeDescriptor, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
		p.pos++
	}
	word := p.src[start:p.pos]
	if word == "" {
		if p.pos >= len(p.src) {
			return nil, p.errorf("expected type, got end of input")
		}
		return nil, p.errorf("expected type, got %q", p.src[p.pos])
	}
	if mk, ok := keywords[word]; ok {
		return mk(), nil
	}

	pkg, name := "", word
	if i := strings.LastIndexByte(word, '.'); i >= 0 {
		pkg, name = word[:i], word[i+1:]
		if pkg == "" {
			p.pos = start
			return nil, p.errorf("empty package qualifier in %q", word)
		}
	}
	if !isIdentifier(name) {
		p.pos = start
		return nil, p.errorf("invalid type name %q", word)
	}
	return Ref(name, pkg), nil
}

func isNameByte(c byte) bool {
	return c == '_' || c == '.' || c == '/' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
