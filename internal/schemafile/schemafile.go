// Package schemafile serializes schema snapshots and loads annotation
// files. The export format's only contract is that reading it back
// reconstructs an equivalent descriptor set.
package schemafile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ijzereen/askpg/internal/core/port"
)

// fileDoc is the on-disk envelope around a snapshot.
type fileDoc struct {
	DatabaseType string                 `yaml:"database_type"`
	Tables       []port.TableDescriptor `yaml:"tables"`
}

// Write serializes the snapshot to path. Sample rows are included so an
// imported snapshot can drive the same prompts.
func Write(path string, snap *port.SchemaSnapshot) error {
	doc := fileDoc{DatabaseType: "postgresql"}
	if snap != nil {
		doc.Tables = snap.Tables
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshaling schema: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing schema file: %w", err)
	}
	return nil
}

// Read loads a previously exported snapshot.
func Read(path string) (*port.SchemaSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema file %q: %w", path, err)
	}
	return &port.SchemaSnapshot{Tables: doc.Tables}, nil
}

// LoadAnnotations reads the optional annotations file mapping table names
// to a column guide and per-column characteristics. A missing path returns
// empty annotations.
func LoadAnnotations(path string) (port.Annotations, error) {
	if path == "" {
		return port.Annotations{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading annotations file: %w", err)
	}

	var doc struct {
		Tables port.Annotations `yaml:"tables"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing annotations file %q: %w", path, err)
	}
	if doc.Tables == nil {
		doc.Tables = port.Annotations{}
	}
	return doc.Tables, nil
}
