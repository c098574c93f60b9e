package types

import "fmt"

// ContainerKind says whether a field holds one value, an array, or a map.
type ContainerKind string

// Container kinds. An empty ContainerKind means ContainerSingle.
const (
	ContainerSingle ContainerKind = "single"
	ContainerArray  ContainerKind = "array"
	ContainerMap    ContainerKind = "map"
)

// Normalize maps the empty kind to ContainerSingle.
func (c ContainerKind) Normalize() ContainerKind {
	if c == "" {
		return ContainerSingle
	}
	return c
}

// Valid reports whether c is a recognized container kind.
func (c ContainerKind) Valid() bool {
	switch c.Normalize() {
	case ContainerSingle, ContainerArray, ContainerMap:
		return true
	}
	return false
}

// FieldDefinition is a named, typed slot within a struct.
type FieldDefinition struct {
	Name      string        `json:"name" yaml:"name"`
	Comment   string        `json:"comment,omitempty" yaml:"comment,omitempty"`
	Type      string        `json:"type" yaml:"type"` // primitive, enum name, or struct name
	Container ContainerKind `json:"container,omitempty" yaml:"container,omitempty"`
	KeyType   string        `json:"key_type,omitempty" yaml:"key_type,omitempty"` // map only
	Default   Value         `json:"default_value" yaml:"default_value"`
}

// Validate checks that the container kind is known and that the declared
// default has the shape the container requires. A null default is accepted
// for every container.
func (f FieldDefinition) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: field name is empty", ErrInvalidSchema)
	}
	if f.Type == "" {
		return fmt.Errorf("%w: field %q has no type", ErrInvalidSchema, f.Name)
	}
	if !f.Container.Valid() {
		return fmt.Errorf("%w: field %q has unknown container %q", ErrInvalidSchema, f.Name, f.Container)
	}
	if f.Default.IsNull() {
		return nil
	}
	switch f.Container.Normalize() {
	case ContainerArray:
		if f.Default.Kind() != KindArray {
			return fmt.Errorf("%w: field %q is an array but its default is a %s", ErrInvalidSchema, f.Name, f.Default.Kind())
		}
	case ContainerMap:
		if f.Default.Kind() != KindMap && f.Default.Kind() != KindStruct {
			return fmt.Errorf("%w: field %q is a map but its default is a %s", ErrInvalidSchema, f.Name, f.Default.Kind())
		}
	}
	return nil
}

// StructDefinition names an ordered list of fields. Field order matters for
// display and export only.
type StructDefinition struct {
	Name    string            `json:"name" yaml:"name"`
	Comment string            `json:"comment,omitempty" yaml:"comment,omitempty"`
	Fields  []FieldDefinition `json:"fields" yaml:"fields"`
}

// Field returns the field with the given name.
func (s StructDefinition) Field(name string) (FieldDefinition, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// FieldNames returns the field names in declaration order.
func (s StructDefinition) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Validate checks the struct name, each field, and field name uniqueness.
func (s StructDefinition) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: struct name is empty", ErrInvalidSchema)
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("struct %q: %w", s.Name, err)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: struct %q declares field %q twice", ErrInvalidSchema, s.Name, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// EnumItem is one member of an enum.
type EnumItem struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// EnumDefinition names an ordered list of members. Cell values of enum
// fields are stored as raw primitives and are not checked against Items.
type EnumDefinition struct {
	Name    string     `json:"name" yaml:"name"`
	Comment string     `json:"comment,omitempty" yaml:"comment,omitempty"`
	Items   []EnumItem `json:"items" yaml:"items"`
}

// Lookup returns the value of the member with the given name.
func (e EnumDefinition) Lookup(name string) (int, bool) {
	for _, it := range e.Items {
		if it.Name == name {
			return it.Value, true
		}
	}
	return 0, false
}

// Validate checks the enum name.
func (e EnumDefinition) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: enum name is empty", ErrInvalidSchema)
	}
	return nil
}

// TableDefinition binds a table name to the struct every row conforms to.
type TableDefinition struct {
	Name       string `json:"name" yaml:"name"`
	Comment    string `json:"comment,omitempty" yaml:"comment,omitempty"`
	StructName string `json:"struct_name" yaml:"struct_name"`
}

// Validate checks that both names are present.
func (t TableDefinition) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: table name is empty", ErrInvalidSchema)
	}
	if t.StructName == "" {
		return fmt.Errorf("%w: table %q has no struct_name", ErrInvalidSchema, t.Name)
	}
	return nil
}
