// Package schema holds the registry of enum and struct definitions and
// resolves the default value of any (struct, field) pair.
package schema

import (
	"sort"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Registry maps names to enum and struct definitions. Registration is an
// upsert: the last definition registered under a name wins.
//
// A Registry is not safe for concurrent mutation; callers serialize access
// the same way they serialize edits.
type Registry struct {
	structs map[string]types.StructDefinition
	enums   map[string]types.EnumDefinition
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		structs: make(map[string]types.StructDefinition),
		enums:   make(map[string]types.EnumDefinition),
	}
}

// RegisterStruct stores def under def.Name, replacing any previous definition.
func (r *Registry) RegisterStruct(def types.StructDefinition) {
	fields := make([]types.FieldDefinition, len(def.Fields))
	for i, f := range def.Fields {
		f.Default = f.Default.Clone()
		fields[i] = f
	}
	def.Fields = fields
	r.structs[def.Name] = def
}

// RegisterEnum stores def under def.Name, replacing any previous definition.
func (r *Registry) RegisterEnum(def types.EnumDefinition) {
	items := make([]types.EnumItem, len(def.Items))
	copy(items, def.Items)
	def.Items = items
	r.enums[def.Name] = def
}

// Struct returns the struct registered under name. The returned definition
// carries copies of the declared defaults.
func (r *Registry) Struct(name string) (types.StructDefinition, bool) {
	def, ok := r.structs[name]
	if !ok {
		return types.StructDefinition{}, false
	}
	fields := make([]types.FieldDefinition, len(def.Fields))
	for i, f := range def.Fields {
		f.Default = f.Default.Clone()
		fields[i] = f
	}
	def.Fields = fields
	return def, true
}

// Enum returns the enum registered under name.
func (r *Registry) Enum(name string) (types.EnumDefinition, bool) {
	def, ok := r.enums[name]
	return def, ok
}

// StructNames returns the registered struct names in sorted order.
func (r *Registry) StructNames() []string {
	return sortedKeys(r.structs)
}

// EnumNames returns the registered enum names in sorted order.
func (r *Registry) EnumNames() []string {
	return sortedKeys(r.enums)
}

// IsStruct reports whether typeName names a registered struct.
func (r *Registry) IsStruct(typeName string) bool {
	_, ok := r.structs[typeName]
	return ok
}

// IsEnum reports whether typeName names a registered enum.
func (r *Registry) IsEnum(typeName string) bool {
	_, ok := r.enums[typeName]
	return ok
}

// ResolveDefault returns a deep copy of the declared default of the field.
// The declared literal is the complete default: nested struct fields that
// the literal omits are not filled in. Unknown structs or fields yield a
// null value and false, which callers treat as "no default available".
func (r *Registry) ResolveDefault(structName, fieldName string) (types.Value, bool) {
	def, ok := r.structs[structName]
	if !ok {
		return types.Null(), false
	}
	for _, f := range def.Fields {
		if f.Name == fieldName {
			return f.Default.Clone(), true
		}
	}
	return types.Null(), false
}

// TagStructDefaults marks map literals in declared defaults as instances of
// the struct named by the field type: the default itself for single fields,
// each element for arrays, and each entry for maps. Call it once all structs
// are registered, since a field may reference a struct registered after it.
func (r *Registry) TagStructDefaults() {
	for name, def := range r.structs {
		for i, f := range def.Fields {
			if !r.IsStruct(f.Type) || f.Default.IsNull() {
				continue
			}
			def.Fields[i].Default = tagValue(f, f.Default)
		}
		r.structs[name] = def
	}
}

// TagValue tags v the way TagStructDefaults tags a default of field f. It
// returns v unchanged when the field type is not a registered struct.
func (r *Registry) TagValue(f types.FieldDefinition, v types.Value) types.Value {
	if !r.IsStruct(f.Type) || v.IsNull() {
		return v
	}
	return tagValue(f, v)
}

// tagValue leaves values whose shape does not match the container alone.
func tagValue(f types.FieldDefinition, v types.Value) types.Value {
	switch f.Container.Normalize() {
	case types.ContainerArray:
		if v.Kind() != types.KindArray {
			return v
		}
		elems := v.Elems()
		for i, e := range elems {
			elems[i] = e.Tag(f.Type)
		}
		return types.Array(elems...)
	case types.ContainerMap:
		if v.Kind() != types.KindMap {
			return v
		}
		entries := v.Entries()
		for k, e := range entries {
			entries[k] = e.Tag(f.Type)
		}
		return types.Map(entries)
	default:
		return v.Tag(f.Type)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
