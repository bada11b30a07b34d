package domain

import (
	"fmt"
	"strings"

	"github.com/ijzereen/askpg/internal/core/port"
)

// FormatSnapshot renders a snapshot as human-readable text for the scan
// command and the interactive schema command.
func FormatSnapshot(snap *port.SchemaSnapshot) string {
	if snap == nil || len(snap.Tables) == 0 {
		return "No tables found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Schema: %d tables\n", len(snap.Tables))
	for _, table := range snap.Tables {
		fmt.Fprintf(&b, "\n%s (%d columns)\n", table.Name, len(table.Columns))
		if table.ColumnGuide != "" {
			fmt.Fprintf(&b, "  guide: %s\n", table.ColumnGuide)
		}
		for _, col := range table.Columns {
			nullability := "not null"
			if col.Nullable {
				nullability = "nullable"
			}
			fmt.Fprintf(&b, "  %-20s %s, %s", col.Name, col.Type, nullability)
			if col.PrimaryKey {
				b.WriteString(", pk")
			}
			b.WriteString("\n")
			if col.Characteristics != "" {
				fmt.Fprintf(&b, "  %-20s ^ %s\n", "", col.Characteristics)
			}
		}
		if len(table.SampleRows) > 0 {
			fmt.Fprintf(&b, "  sample rows: %d\n", len(table.SampleRows))
		}
	}
	return b.String()
}

// FormatResultSet renders a result set as aligned text for CLI output.
func FormatResultSet(rs *port.ResultSet) string {
	if rs == nil || len(rs.Rows) == 0 {
		return "(no rows)\n"
	}

	widths := make([]int, len(rs.Columns))
	for i, col := range rs.Columns {
		widths[i] = len(col)
	}
	cells := make([][]string, len(rs.Rows))
	for r, row := range rs.Rows {
		cells[r] = make([]string, len(rs.Columns))
		for c := range rs.Columns {
			var v any
			if c < len(row) {
				v = row[c]
			}
			text := fmt.Sprintf("%v", v)
			if v == nil {
				text = "NULL"
			}
			cells[r][c] = text
			if len(text) > widths[c] {
				widths[c] = len(text)
			}
		}
	}

	var b strings.Builder
	for i, col := range rs.Columns {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%-*s", widths[i], col)
	}
	b.WriteString("\n")
	for _, row := range cells {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], cell)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "(%d rows)\n", len(rs.Rows))
	return b.String()
}
