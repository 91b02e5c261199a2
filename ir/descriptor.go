package ir

// DescriptorKind identifies the category of a type descriptor.
type DescriptorKind int

const (
	KindPrimitive DescriptorKind = iota // Built-in primitive type
	KindReference                       // Reference to a declared type
	KindArray                           // Ordered collection ([]T or [N]T)
	KindMap                             // Key-value mapping (map[K]V)
	KindPtr                             // Nullable wrapper (*T)
	KindUnion                           // Union of types (T1 | T2 | ...)
)

// String returns the string representation of the descriptor kind.
func (k DescriptorKind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindReference:
		return "Reference"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	case KindPtr:
		return "Ptr"
	case KindUnion:
		return "Union"
	default:
		return "Unknown"
	}
}

// TypeDescriptor is the base interface for all type descriptors.
// Two descriptors denote the same type when Equal reports true; pointer
// identity carries no meaning.
type TypeDescriptor interface {
	// Kind returns the descriptor kind for type switching.
	Kind() DescriptorKind

	// Ensure only types in this package can implement TypeDescriptor.
	sealed()
}
