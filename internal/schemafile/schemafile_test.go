package schemafile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijzereen/askpg/internal/core/port"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	snap := &port.SchemaSnapshot{
		Tables: []port.TableDescriptor{
			{
				Name:        "organizations",
				ColumnGuide: "coordinates are map positions",
				Columns: []port.ColumnDescriptor{
					{Name: "id", Type: "integer", Nullable: false, PrimaryKey: true},
					{Name: "name", Type: "character varying(100)", Nullable: false, Characteristics: "gang name"},
					{Name: "region", Type: "text", Nullable: true},
				},
			},
			{
				Name: "members",
				Columns: []port.ColumnDescriptor{
					{Name: "id", Type: "integer", PrimaryKey: true},
					{Name: "org_id", Type: "integer", Nullable: true, Default: "0"},
				},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, Write(path, snap))

	got, err := Read(path)
	require.NoError(t, err)

	require.Equal(t, snap.TableNames(), got.TableNames(), "table order preserved")
	for _, want := range snap.Tables {
		gotTable := got.Table(want.Name)
		require.NotNil(t, gotTable)
		assert.Equal(t, want.ColumnNames(), gotTable.ColumnNames(), "column order preserved for %s", want.Name)
		assert.Equal(t, want.Columns, gotTable.Columns)
		assert.Equal(t, want.ColumnGuide, gotTable.ColumnGuide)
	}
}

func TestWrite_EmptySnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, Write(path, &port.SchemaSnapshot{}))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, got.Tables)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadAnnotations(t *testing.T) {
	content := `
tables:
  organizations:
    column_guide: x_coord/y_coord are map positions
    columns:
      name: official gang name
      region: district, e.g. Watson or Downtown
`
	path := filepath.Join(t.TempDir(), "annotations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ann, err := LoadAnnotations(path)
	require.NoError(t, err)

	orgs := ann["organizations"]
	assert.Equal(t, "x_coord/y_coord are map positions", orgs.ColumnGuide)
	assert.Equal(t, "official gang name", orgs.Columns["name"])
	assert.Equal(t, "district, e.g. Watson or Downtown", orgs.Columns["region"])
}

func TestLoadAnnotations_EmptyPath(t *testing.T) {
	ann, err := LoadAnnotations("")
	require.NoError(t, err)
	assert.Empty(t, ann)
}

func TestLoadAnnotations_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tables: [not: a map"), 0o644))

	_, err := LoadAnnotations(path)
	require.Error(t, err)
}
