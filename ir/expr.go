package ir

// ArrayDescriptor represents an ordered collection.
type ArrayDescriptor struct {
	// Element is the array element type.
	Element TypeDescriptor

	// Length is 0 for open-ended lists ([]T), or >0 for fixed-length arrays ([N]T).
	Length int
}

// Kind returns KindArray.
func (d *ArrayDescriptor) Kind() DescriptorKind { return KindArray }

func (*ArrayDescriptor) sealed() {}

// Slice returns an ArrayDescriptor for an open-ended list.
func Slice(element TypeDescriptor) *ArrayDescriptor {
	return &ArrayDescriptor{Element: element, Length: 0}
}

// Array returns an ArrayDescriptor for a fixed-length array.
func Array(element TypeDescriptor, length int) *ArrayDescriptor {
	return &ArrayDescriptor{Element: element, Length: length}
}

// MapDescriptor represents a key-value mapping.
type MapDescriptor struct {
	// Key is the map key type.
	Key TypeDescriptor

	// Value is the map value type.
	Value TypeDescriptor
}

// Kind returns KindMap.
func (d *MapDescriptor) Kind() DescriptorKind { return KindMap }

func (*MapDescriptor) sealed() {}

// Map returns a MapDescriptor for a map type.
func Map(key, value TypeDescriptor) *MapDescriptor {
	return &MapDescriptor{Key: key, Value: value}
}

// ReferenceDescriptor represents a reference to a declared type.
type ReferenceDescriptor struct {
	// Target is the referenced type's identifier.
	Target Identifier
}

// Kind returns KindReference.
func (d *ReferenceDescriptor) Kind() DescriptorKind { return KindReference }

func (*ReferenceDescriptor) sealed() {}

// Ref returns a ReferenceDescriptor for a named type.
func Ref(name string, pkg string) *ReferenceDescriptor {
	return &ReferenceDescriptor{Target: Identifier{Name: name, Package: pkg}}
}

// PtrDescriptor represents a nullable value (*T).
type PtrDescriptor struct {
	// Element is the pointed-to type.
	Element TypeDescriptor
}

// Kind returns KindPtr.
func (d *PtrDescriptor) Kind() DescriptorKind { return KindPtr }

func (*PtrDescriptor) sealed() {}

// Ptr returns a PtrDescriptor for a pointer type.
func Ptr(element TypeDescriptor) *PtrDescriptor {
	return &PtrDescriptor{Element: element}
}

// UnionDescriptor represents a union of types (T1 | T2 | ...).
// Member order is preserved for rendering but ignored by Equal.
type UnionDescriptor struct {
	// Types contains the union members. Must have at least 2 elements
	// when built through Union.
	Types []TypeDescriptor
}

// Kind returns KindUnion.
func (d *UnionDescriptor) Kind() DescriptorKind { return KindUnion }

func (*UnionDescriptor) sealed() {}

// Union returns a UnionDescriptor for a union of types.
// Nested unions are flattened and structurally equal members are kept once.
func Union(types ...TypeDescriptor) *UnionDescriptor {
	return &UnionDescriptor{Types: flatten(types)}
}

// Join combines types into a single descriptor: nil when no non-nil
// member remains, the member itself when only one does, a union otherwise.
func Join(types ...TypeDescriptor) TypeDescriptor {
	members := flatten(types)
	switch len(members) {
	case 0:
		return nil
	case 1:
		return members[0]
	default:
		return &UnionDescriptor{Types: members}
	}
}

func flatten(types []TypeDescriptor) []TypeDescriptor {
	var out []TypeDescriptor
	seen := make(map[string]bool)
	var add func(t TypeDescriptor)
	add = func(t TypeDescriptor) {
		if t == nil {
			return
		}
		if u, ok := t.(*UnionDescriptor); ok {
			for _, m := range u.Types {
				add(m)
			}
			return
		}
		k := Key(t)
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, t)
	}
	for _, t := range types {
		add(t)
	}
	return out
}
