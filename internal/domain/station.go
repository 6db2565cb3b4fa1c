package domain

import "time"

// StationMetadata holds the header block of a station file. All fields are
// set once during parsing and never mutated afterwards.
type StationMetadata struct {
	FormatVersion string    `json:"format_version,omitempty"`
	Cleaning      int       `json:"cleaning"`
	Created       time.Time `json:"created,omitzero"`
	Variable      Variable  `json:"variable"`
	Country       string    `json:"country,omitempty"` // ISO 3166 alpha-2
	ID            string    `json:"id"`
	Name          string    `json:"name,omitempty"`
	Latitude      float64   `json:"latitude"` // decimal degrees, south negative
	Longitude     float64   `json:"longitude"`
	Altitude      float64   `json:"altitude"` // meters above sea level
	StartDate     time.Time `json:"start_date,omitzero"`
	EndDate       time.Time `json:"end_date,omitzero"`
}

// Observation is one daily reading from a station series.
// When Missing is true the source held the -999 sentinel and Value is zero;
// the sentinel never surfaces as a numeric reading.
type Observation struct {
	StationID string    `json:"station_id"` // sub-identifier, prefixed by the header ID
	SourceID  string    `json:"source_id"`  // SOUID column, may be a placeholder
	Date      time.Time `json:"date"`       // UTC midnight
	Value     float64   `json:"value"`
	Missing   bool      `json:"missing,omitempty"`
	QC        QCCode    `json:"qc"`
	EC        ECCode    `json:"ec"`
}

// StationRecord is the result of parsing one station file: the header block
// plus the observations in file order (insertion order, never re-sorted).
type StationRecord struct {
	Metadata     StationMetadata `json:"metadata"`
	Observations []Observation   `json:"observations"`
}
