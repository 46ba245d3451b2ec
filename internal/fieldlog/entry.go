// Package fieldlog captures gravimetric field observations in a shared
// Google Sheets spreadsheet: START/STOP entries appended to an Observations
// worksheet and matched pairs merged into a Merged Records worksheet.
package fieldlog

import (
	"fmt"
	"strconv"
)

// Entry types recorded by monitoring officers.
const (
	EntryStart = "START"
	EntryStop  = "STOP"
)

// Header is the fixed Observations worksheet header row.
var Header = []string{
	"Entry Type", "ID", "Site", "Monitoring Officer", "Driver",
	"Date", "Time", "Temperature (°C)", "RH (%)", "Pressure (hPa)",
	"Weather", "Wind", "Elapsed Time (min)", "Flow Rate (L/min)", "Observation",
	"Submitted At",
}

// Entry is one field observation row.
type Entry struct {
	EntryType   string  `json:"entry_type"`
	ID          string  `json:"id"`
	Site        string  `json:"site"`
	Officer     string  `json:"monitoring_officer"`
	Driver      string  `json:"driver"`
	Date        string  `json:"date"` // 2006-01-02
	Time        string  `json:"time"` // 15:04:05
	Temperature float64 `json:"temperature"`
	RH          float64 `json:"rh"`
	Pressure    float64 `json:"pressure"`
	Weather     string  `json:"weather"`
	Wind        string  `json:"wind"`
	ElapsedMin  float64 `json:"elapsed_min"`
	FlowRate    float64 `json:"flow_rate"`
	Observation string  `json:"observation"`
	SubmittedAt string  `json:"submitted_at"`
}

// Validate checks the fields the entry form requires.
func (e Entry) Validate() error {
	if e.EntryType != EntryStart && e.EntryType != EntryStop {
		return fmt.Errorf("fieldlog: entry type must be %s or %s", EntryStart, EntryStop)
	}
	if e.ID == "" || e.Site == "" || e.Officer == "" || e.Driver == "" {
		return fmt.Errorf("fieldlog: id, site, monitoring officer and driver are required")
	}
	return nil
}

// row renders the entry in Header order.
func (e Entry) row() []interface{} {
	return []interface{}{
		e.EntryType, e.ID, e.Site, e.Officer, e.Driver,
		e.Date, e.Time, e.Temperature, e.RH, e.Pressure,
		e.Weather, e.Wind, e.ElapsedMin, e.FlowRate, e.Observation,
		e.SubmittedAt,
	}
}

// entryFromRow parses a worksheet row back into an Entry. Short rows are
// tolerated; numeric cells that fail to parse read as zero.
func entryFromRow(row []interface{}) Entry {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return fmt.Sprintf("%v", row[i])
	}
	number := func(i int) float64 {
		v, _ := strconv.ParseFloat(cell(i), 64)
		return v
	}
	return Entry{
		EntryType:   cell(0),
		ID:          cell(1),
		Site:        cell(2),
		Officer:     cell(3),
		Driver:      cell(4),
		Date:        cell(5),
		Time:        cell(6),
		Temperature: number(7),
		RH:          number(8),
		Pressure:    number(9),
		Weather:     cell(10),
		Wind:        cell(11),
		ElapsedMin:  number(12),
		FlowRate:    number(13),
		Observation: cell(14),
		SubmittedAt: cell(15),
	}
}
