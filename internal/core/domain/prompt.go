package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ijzereen/askpg/internal/core/port"
)

// Prompt building is deliberately plain string assembly: the rendered text
// is part of the reproducibility contract, so identical inputs must produce
// byte-identical output. Map iteration is the only ordering hazard; sample
// row keys are therefore sorted before rendering.

// BuildSystemPrompt renders the schema snapshot plus the generation rules
// into the system prompt for full natural-language-to-SQL translation.
// domainContext, when non-empty, is injected verbatim ahead of the rules.
func BuildSystemPrompt(snap *port.SchemaSnapshot, domainContext string, maxRows int) string {
	var b strings.Builder

	b.WriteString("You are a SQL generation assistant for a PostgreSQL database.\n")
	b.WriteString("Convert the user's natural language request into a single SQL query using this schema:\n\n")

	if domainContext != "" {
		b.WriteString("Domain context:\n")
		b.WriteString(strings.TrimSpace(domainContext))
		b.WriteString("\n\n")
	}

	writeSchemaSection(&b, snap)

	b.WriteString("\nRules:\n")
	b.WriteString("1. Use PostgreSQL syntax.\n")
	b.WriteString("2. Use only the table and column names listed above.\n")
	fmt.Fprintf(&b, "3. Limit results to at most %d rows (use LIMIT %d).\n", maxRows, maxRows)
	b.WriteString("4. Use JOINs where the question spans tables.\n")
	b.WriteString("5. Use ILIKE for case-insensitive string matching.\n")
	b.WriteString("6. Generate read-only SELECT statements only.\n")
	b.WriteString("\nRespond with the SQL query only, no explanation.\n")

	return b.String()
}

func writeSchemaSection(b *strings.Builder, snap *port.SchemaSnapshot) {
	if snap == nil || len(snap.Tables) == 0 {
		b.WriteString("Schema: (no tables)\n")
		return
	}

	fmt.Fprintf(b, "Schema (%d tables):\n", len(snap.Tables))
	for _, table := range snap.Tables {
		fmt.Fprintf(b, "\n=== Table %s ===\n", table.Name)
		if table.ColumnGuide != "" {
			fmt.Fprintf(b, "Column guide: %s\n", table.ColumnGuide)
		}
		b.WriteString("Columns:\n")
		for _, col := range table.Columns {
			nullability := "NOT NULL"
			if col.Nullable {
				nullability = "NULL"
			}
			fmt.Fprintf(b, "  - %s: %s (%s)", col.Name, col.Type, nullability)
			if col.PrimaryKey {
				b.WriteString(" [primary key]")
			}
			b.WriteString("\n")
			if col.Characteristics != "" {
				fmt.Fprintf(b, "    characteristics: %s\n", col.Characteristics)
			}
		}
		if len(table.SampleRows) > 0 {
			b.WriteString("Sample rows:\n")
			for i, row := range table.SampleRows {
				fmt.Fprintf(b, "  %d. %s\n", i+1, formatRow(row))
			}
		}
	}
}

// formatRow renders a sample row with keys sorted, so output does not
// depend on map iteration order.
func formatRow(row map[string]any) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, row[k])
	}
	return strings.Join(pairs, ", ")
}

// ConditionContext is the value context for the fixed-table WHERE variant:
// sample values per column, and the full distinct value list for columns
// configured as context columns.
type ConditionContext struct {
	Table          string
	TargetColumn   string
	Columns        []string
	SampleValues   map[string][]any
	DistinctValues map[string][]any
	ContextColumns []string
	DomainContext  string
}

// BuildConditionPrompt renders the system prompt asking the model for a
// bare WHERE clause over a fixed table and target column.
func BuildConditionPrompt(cc ConditionContext) string {
	var b strings.Builder

	if cc.DomainContext != "" {
		b.WriteString(strings.TrimSpace(cc.DomainContext))
		b.WriteString("\n\n")
	}

	b.WriteString("You are an expert at converting natural language questions into PostgreSQL WHERE clauses.\n\n")
	fmt.Fprintf(&b, "Table: %s\n", cc.Table)

	if len(cc.ContextColumns) > 0 {
		b.WriteString("\nActual values contained in some of the columns:\n")
		for _, col := range cc.ContextColumns {
			values, ok := cc.DistinctValues[col]
			if !ok || len(values) == 0 {
				continue
			}
			fmt.Fprintf(&b, "- '%s' column values: [%s]\n", col, formatValues(values))
		}
	}

	b.WriteString("\nAvailable columns:\n")
	for _, col := range cc.Columns {
		samples := cc.SampleValues[col]
		if len(samples) > 0 {
			fmt.Fprintf(&b, "- %s (examples: %s)\n", col, formatValues(samples))
		} else {
			fmt.Fprintf(&b, "- %s\n", col)
		}
	}

	b.WriteString("\nInstructions:\n")
	fmt.Fprintf(&b, "1. Generate only the WHERE clause for a SELECT %s FROM %s query.\n", cc.TargetColumn, cc.Table)
	b.WriteString("2. Do not include the WHERE keyword in your response.\n")
	b.WriteString("3. Use ILIKE for case-insensitive string comparisons.\n")
	b.WriteString("4. If no conditions are needed, return an empty string.\n")

	return b.String()
}

func formatValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if s, ok := v.(string); ok {
			parts[i] = "'" + s + "'"
		} else {
			parts[i] = fmt.Sprintf("%v", v)
		}
	}
	return strings.Join(parts, ", ")
}
