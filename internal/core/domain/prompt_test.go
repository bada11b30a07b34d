package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijzereen/askpg/internal/core/port"
)

func testSnapshot() *port.SchemaSnapshot {
	return &port.SchemaSnapshot{
		Tables: []port.TableDescriptor{
			{
				Name:        "organizations",
				ColumnGuide: "coordinates are map positions, not GPS",
				Columns: []port.ColumnDescriptor{
					{Name: "id", Type: "integer", Nullable: false, PrimaryKey: true},
					{Name: "name", Type: "character varying(100)", Nullable: false},
					{Name: "region", Type: "text", Nullable: true, Characteristics: "district name, e.g. Downtown"},
					{Name: "members_count", Type: "integer", Nullable: true},
					{Name: "status", Type: "text", Nullable: true},
					{Name: "x_coord", Type: "numeric", Nullable: true},
					{Name: "y_coord", Type: "numeric", Nullable: true},
				},
				SampleRows: []map[string]any{
					{"id": 1, "name": "Maelstrom", "region": "Watson"},
				},
			},
			{
				Name: "members",
				Columns: []port.ColumnDescriptor{
					{Name: "id", Type: "integer", Nullable: false, PrimaryKey: true},
					{Name: "org_id", Type: "integer", Nullable: true},
				},
			},
		},
	}
}

func TestBuildSystemPrompt_Deterministic(t *testing.T) {
	snap := testSnapshot()
	first := BuildSystemPrompt(snap, "city gang dataset", 10)
	second := BuildSystemPrompt(snap, "city gang dataset", 10)
	assert.Equal(t, first, second, "identical inputs must yield byte-identical prompts")
}

func TestBuildSystemPrompt_RendersSchema(t *testing.T) {
	prompt := BuildSystemPrompt(testSnapshot(), "", 10)

	assert.Contains(t, prompt, "=== Table organizations ===")
	assert.Contains(t, prompt, "=== Table members ===")
	assert.Contains(t, prompt, "Column guide: coordinates are map positions, not GPS")
	assert.Contains(t, prompt, "- region: text (NULL)")
	assert.Contains(t, prompt, "characteristics: district name, e.g. Downtown")
	assert.Contains(t, prompt, "- id: integer (NOT NULL) [primary key]")
	assert.Contains(t, prompt, "LIMIT 10")
	assert.Contains(t, prompt, "SELECT")
	assert.Contains(t, prompt, "id=1, name=Maelstrom, region=Watson")
}

func TestBuildSystemPrompt_DomainContext(t *testing.T) {
	with := BuildSystemPrompt(testSnapshot(), "Night City districts dataset", 10)
	without := BuildSystemPrompt(testSnapshot(), "", 10)

	assert.Contains(t, with, "Night City districts dataset")
	assert.NotContains(t, without, "Night City")
}

func TestBuildSystemPrompt_EmptySnapshot(t *testing.T) {
	for _, snap := range []*port.SchemaSnapshot{nil, {}} {
		prompt := BuildSystemPrompt(snap, "", 10)
		require.NotEmpty(t, prompt)
		assert.Contains(t, prompt, "(no tables)")
	}
}

func TestBuildConditionPrompt(t *testing.T) {
	cc := ConditionContext{
		Table:        "organizations",
		TargetColumn: "name",
		Columns:      []string{"id", "name", "region"},
		SampleValues: map[string][]any{
			"region": {"Watson", "Downtown"},
		},
		DistinctValues: map[string][]any{
			"region": {"Downtown", "Watson", "Westbrook"},
		},
		ContextColumns: []string{"region"},
	}

	prompt := BuildConditionPrompt(cc)
	assert.Contains(t, prompt, "Table: organizations")
	assert.Contains(t, prompt, "SELECT name FROM organizations")
	assert.Contains(t, prompt, "'region' column values: ['Downtown', 'Watson', 'Westbrook']")
	assert.Contains(t, prompt, "- region (examples: 'Watson', 'Downtown')")
	assert.Contains(t, prompt, "Do not include the WHERE keyword")

	assert.Equal(t, prompt, BuildConditionPrompt(cc), "condition prompt must be deterministic")
}
