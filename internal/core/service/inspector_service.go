package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ijzereen/askpg/internal/core/port"
)

// InspectorService builds a SchemaSnapshot from the live catalog, merging
// in user-supplied annotations. The snapshot is built fresh per invocation
// and never mutated afterwards.
type InspectorService struct {
	explorer    port.SchemaExplorer
	annotations port.Annotations
	sampleRows  int
	logger      *slog.Logger
}

func NewInspectorService(explorer port.SchemaExplorer, annotations port.Annotations, sampleRows int, logger *slog.Logger) *InspectorService {
	return &InspectorService{
		explorer:    explorer,
		annotations: annotations,
		sampleRows:  sampleRows,
		logger:      logger,
	}
}

// Snapshot enumerates all user tables with their columns, primary keys and
// a bounded row sample. A failed sample fetch degrades to no sample data
// for that table; catalog failures are fatal.
func (s *InspectorService) Snapshot(ctx context.Context) (*port.SchemaSnapshot, error) {
	tables, err := s.explorer.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspecting schema: %w", err)
	}

	snap := &port.SchemaSnapshot{Tables: make([]port.TableDescriptor, 0, len(tables))}
	for _, t := range tables {
		cols, err := s.explorer.DescribeColumns(ctx, t.Schema, t.Name)
		if err != nil {
			return nil, fmt.Errorf("inspecting table %q: %w", t.Name, err)
		}

		ann := s.annotations[t.Name]
		td := port.TableDescriptor{
			Name:        t.Name,
			Columns:     make([]port.ColumnDescriptor, len(cols)),
			ColumnGuide: ann.ColumnGuide,
		}
		for i, c := range cols {
			characteristics := c.Comment
			if v, ok := ann.Columns[c.Name]; ok {
				characteristics = v
			}
			td.Columns[i] = port.ColumnDescriptor{
				Name:            c.Name,
				Type:            c.DataType,
				Nullable:        c.IsNullable,
				Default:         c.DefaultValue,
				PrimaryKey:      c.IsPrimaryKey,
				Characteristics: characteristics,
			}
		}

		if s.sampleRows > 0 {
			samples, err := s.explorer.SampleRows(ctx, t.Schema, t.Name, s.sampleRows)
			if err != nil {
				s.logger.WarnContext(ctx, "sample fetch failed, continuing without samples",
					slog.String("db.collection.name", t.Name),
					slog.String("error", err.Error()),
				)
			} else {
				td.SampleRows = samples
			}
		}

		snap.Tables = append(snap.Tables, td)
		s.logger.DebugContext(ctx, "table inspected",
			slog.String("db.collection.name", t.Name),
			slog.Int("columns", len(td.Columns)),
		)
	}

	s.logger.InfoContext(ctx, "schema inspected",
		slog.String("db.system", "postgresql"),
		slog.Int("tables", len(snap.Tables)),
	)
	return snap, nil
}
