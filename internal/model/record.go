// Package model defines the typed records and report rows shared by the
// cleaning, aggregation and statistics stages.
package model

import "time"

// WeekdayType classifies a calendar day as a working day or weekend.
type WeekdayType string

const (
	Weekday WeekdayType = "Weekday"
	Weekend WeekdayType = "Weekend"
)

// Season is the two-season split used for Ghanaian air-quality reporting.
// Harmattan covers December through February.
type Season string

const (
	Harmattan    Season = "Harmattan"
	NonHarmattan Season = "Non-Harmattan"
)

// Record is one cleaned sensor reading with its derived calendar features.
// Values holds the pollutant and ancillary channels present for the source
// variant (pm25, pm10, corrected_pm25, temp, rh, ...).
type Record struct {
	Site      string             `json:"site"`
	Timestamp time.Time          `json:"timestamp"`
	Values    map[string]float64 `json:"values"`

	Year        int         `json:"year"`
	Month       string      `json:"month"`   // period, e.g. "2023-01"
	Quarter     string      `json:"quarter"` // period, e.g. "2023Q1"
	Day         string      `json:"day"`     // date, e.g. "2023-01-15"
	DayOfWeek   string      `json:"dayofweek"`
	WeekdayType WeekdayType `json:"weekday_type"`
	Season      Season      `json:"season"`
}

// MetalRecord is one cleaned heavy-metal filter assay. Values and Errors are
// keyed by metal symbol (cd, cr, hg, al, as, mn, pb); a metal absent from the
// file is absent from both maps.
type MetalRecord struct {
	Site     string             `json:"site"`
	SampleID string             `json:"id"`
	Date     time.Time          `json:"date"`
	Values   map[string]float64 `json:"values"`
	Errors   map[string]float64 `json:"errors"`

	Year      int    `json:"year"`
	Month     string `json:"month"` // month name, "Jan".."Dec"
	DayOfWeek string `json:"dayofweek"`
}

// Metals lists the metal species in canonical order.
var Metals = []string{"cd", "cr", "hg", "al", "as", "mn", "pb"}

// MonthNames orders the short month names for categorical grouping.
var MonthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// DayNames orders day-of-week names Monday first, matching the source data's
// reporting convention.
var DayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
