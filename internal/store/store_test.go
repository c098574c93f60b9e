package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ledger/internal/schema"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// newHeroTable returns a table of Hero{Name:string="NewHero", Tags:array<string>=["Normal"]}.
func newHeroTable(t *testing.T) *Table {
	t.Helper()
	reg := schema.New()
	reg.RegisterStruct(types.StructDefinition{
		Name: "Hero",
		Fields: []types.FieldDefinition{
			{Name: "Name", Type: "string", Default: types.String("NewHero")},
			{Name: "Tags", Type: "string", Container: types.ContainerArray, Default: types.Array(types.String("Normal"))},
			{Name: "Level", Type: "int", Default: types.Number(1)},
		},
	})
	s := New(reg)
	return s.CreateTable(types.TableDefinition{Name: "HeroTable", StructName: "Hero"})
}

func TestCreateTableReplacesByName(t *testing.T) {
	reg := schema.New()
	s := New(reg)
	first := s.CreateTable(types.TableDefinition{Name: "A", StructName: "X"})
	first.addRowInternal("r1")
	s.CreateTable(types.TableDefinition{Name: "B", StructName: "X"})
	second := s.CreateTable(types.TableDefinition{Name: "A", StructName: "Y"})

	got, ok := s.Table("A")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, "Y", got.StructName())
	assert.Equal(t, []string{"A", "B"}, s.TableNames())
	assert.Same(t, reg, s.Registry())

	_, ok = s.Table("missing")
	assert.False(t, ok)
}

func TestGenerateUniqueID(t *testing.T) {
	tbl := newHeroTable(t)

	assert.Equal(t, "NewRow_0", tbl.GenerateUniqueID())

	tbl.addRowInternal("NewRow_1")
	tbl.addRowInternal("NewRow_2")
	assert.Equal(t, "NewRow_3", tbl.GenerateUniqueID(), "skips ids currently present")

	tbl.removeRowInternal("NewRow_1")
	assert.Equal(t, "NewRow_4", tbl.GenerateUniqueID(), "counter never goes back")
}

func TestGetCellFallsBackToDefault(t *testing.T) {
	tbl := newHeroTable(t)

	assert.True(t, tbl.GetCell("nobody", "Name").Equal(types.String("NewHero")), "missing row reads defaults")

	tbl.addRowInternal("r")
	assert.True(t, tbl.GetCell("r", "Name").Equal(types.String("NewHero")))
	assert.False(t, tbl.IsOverridden("r", "Name"))

	tbl.setInternal("r", "Name", types.String("Saber"), true)
	assert.True(t, tbl.GetCell("r", "Name").Equal(types.String("Saber")))
	assert.True(t, tbl.IsOverridden("r", "Name"))

	tbl.setInternal("r", "Name", types.String("Ignored"), false)
	assert.True(t, tbl.GetCell("r", "Name").Equal(types.String("NewHero")), "stored value without flag is not read")

	assert.True(t, tbl.GetCell("r", "Unknown").IsNull())
}

func TestGetCellDefaultIndependence(t *testing.T) {
	tbl := newHeroTable(t)
	tbl.addRowInternal("a")
	tbl.addRowInternal("b")

	first := tbl.GetCell("a", "Tags")
	second := tbl.GetCell("a", "Tags")
	other := tbl.GetCell("b", "Tags")
	require.True(t, first.Equal(second))

	require.NoError(t, first.Append(types.String("Mutated")))
	assert.Equal(t, 1, second.Len())
	assert.Equal(t, 1, other.Len())
	assert.Equal(t, 1, tbl.GetCell("a", "Tags").Len())
}

func TestGetCellOverrideIsCopied(t *testing.T) {
	tbl := newHeroTable(t)
	tags := types.Array(types.String("Boss"))
	tbl.setInternal("r", "Tags", tags, true)

	require.NoError(t, tags.Append(types.String("CallerMutation")))
	got := tbl.GetCell("r", "Tags")
	assert.Equal(t, 1, got.Len())

	require.NoError(t, got.Append(types.String("ReaderMutation")))
	assert.Equal(t, 1, tbl.GetCell("r", "Tags").Len())
}

func TestInternalPrimitives(t *testing.T) {
	tbl := newHeroTable(t)

	tbl.addRowInternal("a")
	tbl.addRowInternal("b")
	tbl.addRowInternal("c")
	tbl.setInternal("b", "Name", types.String("Bee"), true)
	tbl.addRowInternal("b")
	assert.True(t, tbl.IsOverridden("b", "Name"), "adding an existing id is a no-op")

	tbl.renameRowInternal("b", "z")
	assert.Equal(t, []string{"a", "z", "c"}, tbl.RowIDs(), "rename keeps position")
	assert.True(t, tbl.GetCell("z", "Name").Equal(types.String("Bee")))

	tbl.renameRowInternal("missing", "q")
	tbl.renameRowInternal("a", "c")
	assert.Equal(t, []string{"a", "z", "c"}, tbl.RowIDs(), "rename onto an occupied id is a no-op")

	tbl.removeRowInternal("missing")
	tbl.removeRowInternal("a")
	assert.Equal(t, []string{"z", "c"}, tbl.RowIDs())

	tbl.setInternal("fresh", "Level", types.Number(9), true)
	assert.Equal(t, []string{"z", "c", "fresh"}, tbl.RowIDs(), "set creates rows on demand")
}

func TestOverriddenFields(t *testing.T) {
	tbl := newHeroTable(t)
	tbl.setInternal("r", "Level", types.Number(3), true)
	tbl.setInternal("r", "Name", types.String("N"), true)
	tbl.setInternal("r", "Tags", types.Array(), false)
	tbl.setInternal("r", "Legacy", types.Bool(true), true)

	assert.Equal(t, []string{"Name", "Level", "Legacy"}, tbl.OverriddenFields("r"))
	assert.Nil(t, tbl.OverriddenFields("missing"))
}

func TestLoadRowAndRecords(t *testing.T) {
	tbl := newHeroTable(t)

	tbl.LoadRow(RowRecord{
		ID:         "Hero_001",
		Values:     map[string]types.Value{"Name": types.String("Saber"), "Level": types.Number(5)},
		Overridden: map[string]bool{"Name": true, "Tags": true},
	})
	tbl.LoadRow(RowRecord{ID: "Hero_002"})

	assert.Equal(t, []string{"Hero_001", "Hero_002"}, tbl.RowIDs())
	assert.True(t, tbl.GetCell("Hero_001", "Name").Equal(types.String("Saber")))
	assert.False(t, tbl.IsOverridden("Hero_001", "Level"), "value without a flag loads as not overridden")
	assert.True(t, tbl.GetCell("Hero_001", "Level").Equal(types.Number(1)))
	assert.True(t, tbl.GetCell("Hero_001", "Tags").IsNull(), "flag without value loads a null override")

	recs := tbl.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "Hero_001", recs[0].ID)
	assert.Len(t, recs[0].Values, 3)
	assert.Len(t, recs[0].Overridden, 3)
	assert.Empty(t, recs[1].Values)

	// Reloading an existing id replaces the row in place.
	tbl.LoadRow(RowRecord{ID: "Hero_001", Values: map[string]types.Value{"Name": types.String("Archer")}, Overridden: map[string]bool{"Name": true}})
	assert.Equal(t, []string{"Hero_001", "Hero_002"}, tbl.RowIDs())
	assert.True(t, tbl.GetCell("Hero_001", "Name").Equal(types.String("Archer")))
	assert.False(t, tbl.IsOverridden("Hero_001", "Level"))

	// Records are copies.
	recs = tbl.Records()
	recs[0].Values["Name"] = types.String("Changed")
	assert.True(t, tbl.GetCell("Hero_001", "Name").Equal(types.String("Archer")))
	assert.True(t, recs[1].Equal(RowRecord{ID: "Hero_002", Values: map[string]types.Value{}, Overridden: map[string]bool{}}))
	assert.False(t, recs[0].Equal(recs[1]))
}

func TestResolve(t *testing.T) {
	tbl := newHeroTable(t)
	tbl.setInternal("r", "Level", types.Number(7), true)

	got, ok := tbl.Resolve("r")
	require.True(t, ok)
	require.Len(t, got, 3)
	assert.Equal(t, "Name", got[0].Name)
	assert.True(t, got[0].Value.Equal(types.String("NewHero")))
	assert.Equal(t, "Tags", got[1].Name)
	assert.True(t, got[2].Value.Equal(types.Number(7)))

	orphan := New(schema.New()).CreateTable(types.TableDefinition{Name: "T", StructName: "Missing"})
	_, ok = orphan.Resolve("r")
	assert.False(t, ok)
}
