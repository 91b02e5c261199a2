package ir

import "testing"

func TestDescriptorKind_String(t *testing.T) {
	tests := []struct {
		kind DescriptorKind
		want string
	}{
		{KindPrimitive, "Primitive"},
		{KindReference, "Reference"},
		{KindArray, "Array"},
		{KindMap, "Map"},
		{KindPtr, "Ptr"},
		{KindUnion, "Union"},
		{DescriptorKind(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("DescriptorKind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrimitiveKind_String(t *testing.T) {
	tests := []struct {
		kind PrimitiveKind
		want string
	}{
		{PrimitiveBool, "Bool"},
		{PrimitiveInt, "Int"},
		{PrimitiveUint, "Uint"},
		{PrimitiveFloat, "Float"},
		{PrimitiveString, "String"},
		{PrimitiveBytes, "Bytes"},
		{PrimitiveTime, "Time"},
		{PrimitiveDuration, "Duration"},
		{PrimitiveAny, "Any"},
		{PrimitiveEmpty, "Empty"},
		{PrimitiveError, "Error"},
		{PrimitiveKind(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("PrimitiveKind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescriptor_Kinds(t *testing.T) {
	tests := []struct {
		name string
		desc TypeDescriptor
		want DescriptorKind
	}{
		{"primitive", String(), KindPrimitive},
		{"reference", Ref("User", "api"), KindReference},
		{"slice", Slice(String()), KindArray},
		{"array", Array(Int(32), 4), KindArray},
		{"map", Map(String(), Any()), KindMap},
		{"ptr", Ptr(Ref("User", "")), KindPtr},
		{"union", Union(String(), Int(0)), KindUnion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.desc.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentifier(t *testing.T) {
	if !(Identifier{}).IsZero() {
		t.Error("zero Identifier should report IsZero")
	}
	id := Identifier{Name: "User", Package: "api"}
	if id.IsZero() {
		t.Error("non-empty Identifier reported IsZero")
	}
	if got := id.String(); got != "api.User" {
		t.Errorf("String() = %q, want %q", got, "api.User")
	}
	if got := (Identifier{Name: "User"}).String(); got != "User" {
		t.Errorf("String() = %q, want %q", got, "User")
	}
}

func TestWarning_String(t *testing.T) {
	w := Warning{Code: WarnParameterConflict, Message: "type mismatch", Subject: "id"}
	if got, want := w.String(), "parameter_conflict: id: type mismatch"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	w.Subject = ""
	if got, want := w.String(), "parameter_conflict: type mismatch"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
