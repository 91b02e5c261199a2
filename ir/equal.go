package ir

import (
	"sort"
	"strconv"
	"strings"
)

// Format renders a descriptor in the type-expression syntax accepted by ParseType.
// A nil descriptor renders as the empty string.
func Format(t TypeDescriptor) string {
	var b strings.Builder
	format(&b, t, false)
	return b.String()
}

// Key returns the canonical form of a descriptor. Two descriptors are
// structurally equal exactly when their keys are equal. Unlike Format,
// union members are sorted.
func Key(t TypeDescriptor) string {
	var b strings.Builder
	format(&b, t, true)
	return b.String()
}

// Equal reports whether two descriptors denote the same type.
func Equal(a, b TypeDescriptor) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Key(a) == Key(b)
}

func format(b *strings.Builder, t TypeDescriptor, canonical bool) {
	switch d := t.(type) {
	case nil:
	case *PrimitiveDescriptor:
		b.WriteString(primitiveName(d))
	case *ReferenceDescriptor:
		b.WriteString(d.Target.String())
	case *ArrayDescriptor:
		if d.Length > 0 {
			b.WriteString("[" + strconv.Itoa(d.Length) + "]")
		} else {
			b.WriteString("[]")
		}
		formatOperand(b, d.Element, canonical)
	case *MapDescriptor:
		b.WriteString("map[")
		format(b, d.Key, canonical)
		b.WriteString("]")
		formatOperand(b, d.Value, canonical)
	case *PtrDescriptor:
		b.WriteString("*")
		formatOperand(b, d.Element, canonical)
	case *UnionDescriptor:
		parts := make([]string, len(d.Types))
		for i, m := range d.Types {
			var mb strings.Builder
			format(&mb, m, canonical)
			parts[i] = mb.String()
		}
		if canonical {
			sort.Strings(parts)
		}
		b.WriteString(strings.Join(parts, " | "))
	}
}

// formatOperand wraps unions in parentheses where they follow a prefix operator.
func formatOperand(b *strings.Builder, t TypeDescriptor, canonical bool) {
	if _, ok := t.(*UnionDescriptor); ok {
		b.WriteString("(")
		format(b, t, canonical)
		b.WriteString(")")
		return
	}
	format(b, t, canonical)
}

func primitiveName(d *PrimitiveDescriptor) string {
	switch d.PrimitiveKind {
	case PrimitiveBool:
		return "bool"
	case PrimitiveInt:
		if d.BitSize == 0 {
			return "int"
		}
		return "int" + strconv.Itoa(d.BitSize)
	case PrimitiveUint:
		if d.BitSize == 0 {
			return "uint"
		}
		return "uint" + strconv.Itoa(d.BitSize)
	case PrimitiveFloat:
		if d.BitSize == 32 {
			return "float32"
		}
		return "float64"
	case PrimitiveString:
		return "string"
	case PrimitiveBytes:
		return "bytes"
	case PrimitiveTime:
		return "time"
	case PrimitiveDuration:
		return "duration"
	case PrimitiveAny:
		return "any"
	case PrimitiveEmpty:
		return "empty"
	case PrimitiveError:
		return "error"
	default:
		return "unknown"
	}
}
