package source

import (
	"bytes"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/epa-ghana/airview-cli/internal/aqi"
)

// File is the on-disk override format: additional or replacement source
// variants, and an optional replacement AQI breakpoint table.
type File struct {
	Sources     []Config         `yaml:"sources"`
	Breakpoints []aqi.Breakpoint `yaml:"breakpoints"`
}

// LoadFile merges a YAML override file into the registry. Overrides with a
// known name replace the builtin; new names extend the registry. Unknown
// YAML fields are an error.
func (r *Registry) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrap(err, "source: read override file")
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return eris.Wrap(err, "source: decode override file")
	}

	for _, cfg := range f.Sources {
		if cfg.Name == "" {
			return eris.New("source: override entry missing name")
		}
		if err := validate(cfg); err != nil {
			return eris.Wrapf(err, "source: override %q", cfg.Name)
		}
		r.sources[cfg.Name] = cfg
	}
	if len(f.Breakpoints) > 0 {
		r.Breakpoints = f.Breakpoints
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.TimestampColumn == "" {
		return eris.New("timestamp_column is required")
	}
	if len(cfg.Layouts) == 0 {
		return eris.New("at least one timestamp layout is required")
	}
	if len(cfg.Required) == 0 {
		return eris.New("required columns must be listed")
	}
	if cfg.PM25Input == "" {
		return eris.New("pm25_input is required")
	}
	if len(cfg.Pollutants) == 0 {
		return eris.New("pollutants must be listed")
	}
	return nil
}
