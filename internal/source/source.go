// Package source defines the per-variant pipeline configuration that
// replaces the per-source duplication in the original dashboards: required
// columns, timestamp layouts, correction formula, coverage threshold and
// exceedance guidelines are all data on a Config value.
package source

import (
	"sort"

	"github.com/epa-ghana/airview-cli/internal/aqi"
)

// Correction is a linear temperature/humidity compensation for low-cost
// PM2.5 sensors: corrected = PM25·pm25 + Temp·temp + RH·rh + Intercept.
type Correction struct {
	PM25      float64 `yaml:"pm25"`
	Temp      float64 `yaml:"temp"`
	RH        float64 `yaml:"rh"`
	Intercept float64 `yaml:"intercept"`
}

// Apply evaluates the formula for one reading.
func (c *Correction) Apply(pm25, temp, rh float64) float64 {
	return c.PM25*pm25 + c.Temp*temp + c.RH*rh + c.Intercept
}

// Thresholds are the 24-hour guideline values (µg/m³) used for exceedance
// counting. Kept per-source so regional limits can be swapped in.
type Thresholds struct {
	PM25 float64 `yaml:"pm25"`
	PM10 float64 `yaml:"pm10"`
}

// Config describes one source variant end to end.
type Config struct {
	Name string `yaml:"name"`

	// TimestampColumn is the canonical name the detected timestamp column
	// is stored under ("datetime" for sub-daily sources, "date" for daily).
	TimestampColumn string   `yaml:"timestamp_column"`
	Layouts         []string `yaml:"layouts"`

	// Required lists the canonical columns a file must carry after
	// normalization, timestamp included. Files missing any are rejected.
	Required []string `yaml:"required"`

	// Positive lists columns whose readings must be > 0; rows violating
	// this are non-physical and dropped. Columns absent from the file are
	// skipped.
	Positive []string `yaml:"positive,omitempty"`

	// Correction, when set, derives corrected_pm25 from pm25/temp/rh.
	Correction *Correction `yaml:"correction,omitempty"`

	// CoverageMinDays is the minimum distinct observation days a
	// (site, month) group needs to survive cleaning. Zero disables the rule.
	CoverageMinDays int `yaml:"coverage_min_days"`

	// PM25Input names the column fed to exceedance and AQI computation
	// (pm25 or corrected_pm25).
	PM25Input string `yaml:"pm25_input"`

	// Pollutants lists the columns the aggregator averages.
	Pollutants []string `yaml:"pollutants"`

	Thresholds Thresholds `yaml:"thresholds"`
}

var (
	subDailyLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00", "2006-01-02"}
	gravLayouts     = []string{"2-Jan-06", "02-Jan-06"}

	defaultThresholds = Thresholds{PM25: 35, PM10: 70}
)

func builtins() map[string]Config {
	return map[string]Config{
		"reference": {
			Name:            "reference",
			TimestampColumn: "datetime",
			Layouts:         subDailyLayouts,
			Required:        []string{"datetime", "site", "pm25", "pm10"},
			CoverageMinDays: 20,
			PM25Input:       "pm25",
			Pollutants:      []string{"pm25", "pm10"},
			Thresholds:      defaultThresholds,
		},
		"quantaq": {
			Name:            "quantaq",
			TimestampColumn: "datetime",
			Layouts:         subDailyLayouts,
			Required:        []string{"datetime", "site", "pm25", "pm10", "temp", "rh"},
			Positive:        []string{"pm1", "pm25", "pm10", "temp", "rh"},
			Correction:      &Correction{PM25: 0.94, Temp: -0.34, RH: -0.08, Intercept: 19.82},
			CoverageMinDays: 20,
			PM25Input:       "corrected_pm25",
			Pollutants:      []string{"corrected_pm25", "pm10"},
			Thresholds:      defaultThresholds,
		},
		"clarity": {
			Name:            "clarity",
			TimestampColumn: "datetime",
			Layouts:         subDailyLayouts,
			Required:        []string{"datetime", "site", "corrected_pm25", "pm10"},
			CoverageMinDays: 15,
			PM25Input:       "corrected_pm25",
			Pollutants:      []string{"corrected_pm25", "pm10"},
			Thresholds:      defaultThresholds,
		},
		"airqo": {
			Name:            "airqo",
			TimestampColumn: "datetime",
			Layouts:         subDailyLayouts,
			Required:        []string{"datetime", "site", "pm25", "pm10"},
			CoverageMinDays: 15,
			PM25Input:       "pm25",
			Pollutants:      []string{"pm25", "pm10"},
			Thresholds:      defaultThresholds,
		},
		"gravimetric": {
			Name:            "gravimetric",
			TimestampColumn: "date",
			Layouts:         gravLayouts,
			Required:        []string{"date", "site", "pm25", "pm10"},
			CoverageMinDays: 0,
			PM25Input:       "pm25",
			Pollutants:      []string{"pm25", "pm10"},
			Thresholds:      defaultThresholds,
		},
	}
}

// MetalLayouts are the day-first formats heavy-metal assay exports use.
var MetalLayouts = []string{"2/1/2006", "02/01/2006", "2-Jan-06", "2006-01-02"}

// Registry holds the source variants and the active AQI breakpoint table.
type Registry struct {
	sources     map[string]Config
	Breakpoints []aqi.Breakpoint
}

// NewRegistry returns the built-in registry.
func NewRegistry() *Registry {
	return &Registry{
		sources:     builtins(),
		Breakpoints: aqi.DefaultBreakpoints,
	}
}

// Get looks up a variant by name.
func (r *Registry) Get(name string) (Config, bool) {
	cfg, ok := r.sources[name]
	return cfg, ok
}

// Names lists the registered variants sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered configs sorted by name.
func (r *Registry) All() []Config {
	all := make([]Config, 0, len(r.sources))
	for _, name := range r.Names() {
		all = append(all, r.sources[name])
	}
	return all
}
