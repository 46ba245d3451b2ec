package export

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Manifest describes one analysis run's outputs.
type Manifest struct {
	RunID     string         `yaml:"run_id"`
	Source    string         `yaml:"source"`
	CreatedAt time.Time      `yaml:"created_at"`
	Inputs    []string       `yaml:"inputs"`
	RowCounts map[string]int `yaml:"row_counts"`
}

// WriteRun writes every table plus a manifest.yaml into dir, creating it.
func WriteRun(dir string, manifest Manifest, tables []Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "export: create run dir")
	}

	if manifest.RowCounts == nil {
		manifest.RowCounts = make(map[string]int, len(tables))
	}
	for _, t := range tables {
		if err := t.WriteCSV(dir); err != nil {
			return err
		}
		manifest.RowCounts[t.Name] = len(t.Rows)
	}

	raw, err := yaml.Marshal(manifest)
	if err != nil {
		return eris.Wrap(err, "export: marshal manifest")
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), raw, 0o644); err != nil {
		return eris.Wrap(err, "export: write manifest")
	}
	return nil
}
