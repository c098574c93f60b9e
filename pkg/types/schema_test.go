package types

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFieldDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		field   FieldDefinition
		wantErr bool
	}{
		{"single with scalar default", FieldDefinition{Name: "Name", Type: "string", Default: String("x")}, false},
		{"array with array default", FieldDefinition{Name: "Tags", Type: "string", Container: ContainerArray, Default: Array()}, false},
		{"array with null default", FieldDefinition{Name: "Tags", Type: "string", Container: ContainerArray}, false},
		{"array with map default", FieldDefinition{Name: "Tags", Type: "string", Container: ContainerArray, Default: Map(nil)}, true},
		{"map with array default", FieldDefinition{Name: "M", Type: "int", Container: ContainerMap, KeyType: "string", Default: Array()}, true},
		{"unknown container", FieldDefinition{Name: "X", Type: "int", Container: "set"}, true},
		{"missing type", FieldDefinition{Name: "X"}, true},
		{"missing name", FieldDefinition{Type: "int"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.field.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSchema) {
					t.Fatalf("expected ErrInvalidSchema, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
		})
	}
}

func TestStructDefinitionValidateDuplicateField(t *testing.T) {
	s := StructDefinition{Name: "Hero", Fields: []FieldDefinition{
		{Name: "Name", Type: "string"},
		{Name: "Name", Type: "string"},
	}}
	if err := s.Validate(); !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestStructDefinitionDecodesOriginalFormat(t *testing.T) {
	raw := `{"name":"Hero","fields":[
		{"name":"Quality","type":"QualityType","default_value":0},
		{"name":"PathPoints","type":"Vec3","container":"array","default_value":[{"x":0.0,"y":0.0}]},
		{"name":"EquipOffsets","type":"Vec3","container":"map","key_type":"string","default_value":{"Head":{"x":0.0,"y":5.0}}}
	]}`
	var s StructDefinition
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatal(err)
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if got := s.FieldNames(); len(got) != 3 || got[0] != "Quality" || got[2] != "EquipOffsets" {
		t.Fatalf("unexpected field order %v", got)
	}
	q, ok := s.Field("Quality")
	if !ok {
		t.Fatal("Quality not found")
	}
	if q.Container.Normalize() != ContainerSingle {
		t.Fatalf("expected single container, got %q", q.Container)
	}
	eo, _ := s.Field("EquipOffsets")
	if eo.Default.Kind() != KindMap || eo.KeyType != "string" {
		t.Fatalf("unexpected EquipOffsets field %+v", eo)
	}
	if _, ok := s.Field("Missing"); ok {
		t.Fatal("expected Missing to be absent")
	}
}

func TestEnumLookup(t *testing.T) {
	e := EnumDefinition{Name: "QualityType", Items: []EnumItem{{Name: "Common", Value: 0}, {Name: "Epic", Value: 1}}}
	if v, ok := e.Lookup("Epic"); !ok || v != 1 {
		t.Fatalf("expected Epic=1, got %d %v", v, ok)
	}
	if _, ok := e.Lookup("Legendary"); ok {
		t.Fatal("expected Legendary to be absent")
	}
}

func TestTableDefinitionValidate(t *testing.T) {
	if err := (TableDefinition{Name: "HeroTable"}).Validate(); !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
	if err := (TableDefinition{Name: "HeroTable", StructName: "Hero"}).Validate(); err != nil {
		t.Fatal(err)
	}
}
