package cli

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const heroStructs = `[
  {"name": "Hero", "fields": [
    {"name": "Name", "type": "string", "default_value": "NewHero"},
    {"name": "Tags", "type": "string", "container": "array", "default_value": ["Normal"]},
    {"name": "Home", "type": "Place", "default_value": {"City": "Camelot"}}
  ]},
  {"name": "Place", "fields": [{"name": "City", "type": "string", "default_value": ""}]}
]`

const heroTables = `[{"name": "HeroTable", "struct_name": "Hero"}]`

// testEnv is a project directory plus an isolated config directory.
type testEnv struct {
	t          *testing.T
	projectDir string
	configDir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	base := t.TempDir()
	te := &testEnv{t: t, projectDir: filepath.Join(base, "project"), configDir: filepath.Join(base, "config")}
	require.NoError(t, os.MkdirAll(filepath.Join(te.projectDir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(te.projectDir, "config", "structs.json"), []byte(heroStructs), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(te.projectDir, "config", "tables.json"), []byte(heroTables), 0o644))
	return te
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the root command in process with stdin set to input.
func (te *testEnv) run(input string, args ...string) result {
	te.t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(append([]string{"--project", te.projectDir, "--config-dir", te.configDir}, args...))
	err := root.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func (te *testEnv) mustRun(args ...string) string {
	te.t.Helper()
	r := te.run("", args...)
	require.NoError(te.t, r.err, "ledger %v\nstderr: %s", args, r.stderr)
	return r.stdout
}

func TestVersion(t *testing.T) {
	te := newTestEnv(t)
	out := te.mustRun("version")
	assert.Contains(t, out, "ledger v")
	assert.Contains(t, out, modulePath)
}

func TestInitCreatesProjectAndConfig(t *testing.T) {
	base := t.TempDir()
	te := &testEnv{t: t, projectDir: filepath.Join(base, "fresh"), configDir: filepath.Join(base, "cfg")}

	out := te.mustRun("init")
	assert.Contains(t, out, "Project initialized")
	assert.FileExists(t, filepath.Join(te.projectDir, "config", "structs.json"))
	assert.DirExists(t, filepath.Join(te.projectDir, "workspace"))

	data, err := os.ReadFile(filepath.Join(te.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "project_dir: "+te.projectDir)
	assert.Contains(t, string(data), "max_depth: 100")

	out = te.mustRun("init")
	assert.NotContains(t, out, "created", "second init creates nothing")
}

func TestAddSetGetRoundTrip(t *testing.T) {
	te := newTestEnv(t)

	id := strings.TrimSpace(te.mustRun("add", "HeroTable"))
	assert.Equal(t, "NewRow_0", id)

	te.mustRun("set", "HeroTable", id, "Name", `"Arthur"`)
	te.mustRun("set", "HeroTable", id, "Home", `{"City": "Avalon"}`)
	te.mustRun("rename", "HeroTable", id, "arthur")

	var cells []struct {
		Field      string          `json:"field"`
		Value      json.RawMessage `json:"value"`
		Overridden bool            `json:"overridden"`
	}
	require.NoError(t, json.Unmarshal([]byte(te.mustRun("get", "HeroTable", "arthur", "--json")), &cells))
	require.Len(t, cells, 3)
	assert.Equal(t, "Name", cells[0].Field)
	assert.JSONEq(t, `"Arthur"`, string(cells[0].Value))
	assert.True(t, cells[0].Overridden)
	assert.JSONEq(t, `["Normal"]`, string(cells[1].Value))
	assert.False(t, cells[1].Overridden)
	assert.JSONEq(t, `{"City":"Avalon"}`, string(cells[2].Value))

	text := te.mustRun("get", "HeroTable", "arthur", "Tags")
	assert.Contains(t, text, `["Normal"]`)
}

func TestListCommands(t *testing.T) {
	te := newTestEnv(t)
	te.mustRun("add", "HeroTable")
	te.mustRun("add", "HeroTable")
	te.mustRun("set", "HeroTable", "NewRow_1", "Tags", `["Fast"]`)

	var tables []tableInfo
	require.NoError(t, json.Unmarshal([]byte(te.mustRun("tables", "--json")), &tables))
	assert.Equal(t, []tableInfo{{Name: "HeroTable", Struct: "Hero", Rows: 2}}, tables)

	var rows []rowInfo
	require.NoError(t, json.Unmarshal([]byte(te.mustRun("rows", "HeroTable", "--json")), &rows))
	assert.Equal(t, []rowInfo{
		{ID: "NewRow_0", Overridden: []string{}},
		{ID: "NewRow_1", Overridden: []string{"Tags"}},
	}, rows)

	assert.Contains(t, te.mustRun("tables"), "HeroTable")
}

func TestDeleteRow(t *testing.T) {
	te := newTestEnv(t)
	te.mustRun("add", "HeroTable")
	te.mustRun("delete", "HeroTable", "NewRow_0")

	r := te.run("", "get", "HeroTable", "NewRow_0")
	assert.ErrorIs(t, r.err, types.ErrRowNotFound)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestUserErrors(t *testing.T) {
	te := newTestEnv(t)
	te.mustRun("add", "HeroTable")
	te.mustRun("add", "HeroTable")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown table", []string{"rows", "Nope"}, types.ErrTableNotFound},
		{"unknown row", []string{"delete", "HeroTable", "ghost"}, types.ErrRowNotFound},
		{"unknown field", []string{"set", "HeroTable", "NewRow_0", "Mana", "1"}, types.ErrFieldNotFound},
		{"bad json", []string{"set", "HeroTable", "NewRow_0", "Name", "{oops"}, types.ErrInvalidValue},
		{"rename onto existing", []string{"rename", "HeroTable", "NewRow_0", "NewRow_1"}, types.ErrRowExists},
		{"unknown format", []string{"export", "--format", "xml"}, types.ErrFormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := te.run("", tt.args...)
			require.Error(t, r.err)
			assert.True(t, errors.Is(r.err, tt.want), "got %v", r.err)
			assert.Equal(t, exitUserError, exitCode(r.err))
		})
	}
}

func TestArgumentErrorsAreUserErrors(t *testing.T) {
	te := newTestEnv(t)
	r := te.run("", "get", "HeroTable")
	require.Error(t, r.err)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestInvalidConfigIsUserError(t *testing.T) {
	te := newTestEnv(t)
	require.NoError(t, os.MkdirAll(te.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(te.configDir, "config.yaml"), []byte("log:\n  level: loud\n"), 0o644))

	r := te.run("", "tables")
	assert.ErrorIs(t, r.err, types.ErrLogLevelUnknown)
	assert.Equal(t, exitUserError, exitCode(r.err))
}

func TestExportJSON(t *testing.T) {
	te := newTestEnv(t)
	te.mustRun("add", "HeroTable")
	te.mustRun("set", "HeroTable", "NewRow_0", "Name", `"Gawain"`)

	out := te.mustRun("export")
	path := filepath.Join(te.projectDir, "export", "HeroTable.json")
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"ID":"NewRow_0","Name":"Gawain","Tags":["Normal"],"Home":{"City":"Camelot"}}]`, string(data))
}

func TestExportSQLite(t *testing.T) {
	te := newTestEnv(t)
	te.mustRun("add", "HeroTable")
	dbPath := filepath.Join(t.TempDir(), "out.db")

	te.mustRun("export", "--format", "sqlite", "--out", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()
	var name string
	require.NoError(t, db.QueryRow(`SELECT "Name" FROM "HeroTable" WHERE "id" = 'NewRow_0'`).Scan(&name))
	assert.Equal(t, `"NewHero"`, name)
}

func TestSessionScript(t *testing.T) {
	te := newTestEnv(t)
	script := strings.Join([]string{
		"add HeroTable",
		`set HeroTable NewRow_0 Tags ["Fast", "Brave"]`,
		"get HeroTable NewRow_0 Tags",
		"undo",
		"get HeroTable NewRow_0 Tags",
		"redo",
		"add HeroTable",
		"delete HeroTable NewRow_1",
		"undo",
		"undo",
		"undo",
		"undo",
		"undo",
		"redo",
		"bogus",
		"quit",
	}, "\n")

	r := te.run(script, "session")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "added NewRow_0")
	assert.Contains(t, r.stdout, `["Fast","Brave"]`)
	assert.Contains(t, r.stdout, `["Normal"]`)
	assert.Contains(t, r.stdout, "nothing to undo")
	assert.Contains(t, r.stdout, `unknown command "bogus"`)

	// The final redo re-added NewRow_0 and quit saved it.
	var rows []rowInfo
	require.NoError(t, json.Unmarshal([]byte(te.mustRun("rows", "HeroTable", "--json")), &rows))
	assert.Equal(t, []rowInfo{{ID: "NewRow_0", Overridden: []string{}}}, rows)
}

func TestSessionSaveAndEOF(t *testing.T) {
	te := newTestEnv(t)
	r := te.run("add HeroTable\nsave\nadd HeroTable\n", "session")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "saved")

	var rows []rowInfo
	require.NoError(t, json.Unmarshal([]byte(te.mustRun("rows", "HeroTable", "--json")), &rows))
	assert.Len(t, rows, 2, "end of input saves pending changes")
}

func TestSplitRest(t *testing.T) {
	args, err := splitRest(`T r F {"a": [1, 2]}`, 4, "set")
	require.NoError(t, err)
	assert.Equal(t, []string{"T", "r", "F", `{"a": [1, 2]}`}, args)

	_, err = splitRest("T r", 4, "set")
	assert.Error(t, err)

	_, err = splitArgs("a b c", 2, "delete")
	assert.Error(t, err)
}
