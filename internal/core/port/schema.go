package port

import "context"

// ColumnDescriptor describes one column of an inspected table. Immutable
// once the snapshot is built.
type ColumnDescriptor struct {
	Name            string `yaml:"name" json:"name"`
	Type            string `yaml:"type" json:"type"`
	Nullable        bool   `yaml:"nullable" json:"nullable"`
	Default         string `yaml:"default,omitempty" json:"default,omitempty"`
	PrimaryKey      bool   `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`
	Characteristics string `yaml:"characteristics,omitempty" json:"characteristics,omitempty"`
}

// TableDescriptor describes one table: its columns in catalog order, an
// optional human-written column guide, and a bounded set of sample rows.
type TableDescriptor struct {
	Name        string             `yaml:"name" json:"name"`
	Columns     []ColumnDescriptor `yaml:"columns" json:"columns"`
	ColumnGuide string             `yaml:"column_guide,omitempty" json:"column_guide,omitempty"`
	SampleRows  []map[string]any   `yaml:"sample_rows,omitempty" json:"sample_rows,omitempty"`
}

// Column returns the named column descriptor, or nil.
func (t *TableDescriptor) Column(name string) *ColumnDescriptor {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// ColumnNames returns the column names in catalog order.
func (t *TableDescriptor) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// SchemaSnapshot is the full inspected schema for one run. Tables keep
// catalog order so that any text rendered from a snapshot is stable.
type SchemaSnapshot struct {
	Tables []TableDescriptor `yaml:"tables" json:"tables"`
}

// Table returns the named table descriptor, or nil.
func (s *SchemaSnapshot) Table(name string) *TableDescriptor {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// TableNames returns the table names in catalog order.
func (s *SchemaSnapshot) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

// TableAnnotation carries user-written guidance for one table.
type TableAnnotation struct {
	ColumnGuide string            `yaml:"column_guide,omitempty"`
	Columns     map[string]string `yaml:"columns,omitempty"`
}

// Annotations maps table name to its annotation. Loaded from a local file,
// never from the database.
type Annotations map[string]TableAnnotation

// TableInfo is one row of the table listing.
type TableInfo struct {
	Schema      string `json:"schema"`
	Name        string `json:"name"`
	RowEstimate int64  `json:"row_estimate"`
}

// ColumnInfo is raw catalog output for one column, before annotation.
type ColumnInfo struct {
	Name         string `json:"name"`
	DataType     string `json:"data_type"`
	IsNullable   bool   `json:"is_nullable"`
	DefaultValue string `json:"default_value,omitempty"`
	IsPrimaryKey bool   `json:"is_primary_key"`
	Comment      string `json:"comment,omitempty"`
}

// SchemaExplorer reads catalog metadata and row samples from a live database.
type SchemaExplorer interface {
	ListTables(ctx context.Context) ([]TableInfo, error)
	DescribeColumns(ctx context.Context, schema, table string) ([]ColumnInfo, error)
	SampleRows(ctx context.Context, schema, table string, limit int) ([]map[string]any, error)
	DistinctValues(ctx context.Context, schema, table, column string, limit int) ([]any, error)
}
