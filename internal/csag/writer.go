package csag

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/couchcryptid/csag-station-reader/internal/domain"
)

// Write serializes a station record back to the fixed CSAG format. Parsing
// the output yields a record equal to the input, except that a zero CREATED
// stamp is replaced with the current date from the package clock.
func Write(w io.Writer, rec domain.StationRecord) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "FORMAT 1.0")

	meta := rec.Metadata
	created := meta.Created
	if created.IsZero() {
		now := clock.Now().UTC()
		created = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	fmt.Fprintf(bw, "CLEANING | %d\n", meta.Cleaning)
	fmt.Fprintf(bw, "CREATED | %s\n", created.Format(dateLayout))
	fmt.Fprintf(bw, "VARIABLE | %s\n", meta.Variable)
	if meta.Country != "" {
		fmt.Fprintf(bw, "COUNTRY | %s\n", meta.Country)
	}
	fmt.Fprintf(bw, "ID | %s\n", meta.ID)
	if meta.Name != "" {
		fmt.Fprintf(bw, "NAME | %s\n", meta.Name)
	}
	fmt.Fprintf(bw, "LATITUDE | %.2f\n", meta.Latitude)
	fmt.Fprintf(bw, "LONGITUDE | %.2f\n", meta.Longitude)
	fmt.Fprintf(bw, "ALTITUDE | %.2f\n", meta.Altitude)
	if !meta.StartDate.IsZero() {
		fmt.Fprintf(bw, "START_DATE | %s\n", meta.StartDate.Format(dateLayout))
	}
	if !meta.EndDate.IsZero() {
		fmt.Fprintf(bw, "END_DATE | %s\n", meta.EndDate.Format(dateLayout))
	}

	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "%-9s, %8s, %8s, %7s, %2s, %2s\n",
		tableColumns[0], tableColumns[1], tableColumns[2], tableColumns[3], tableColumns[4], tableColumns[5])

	for _, obs := range rec.Observations {
		value := obs.Value
		if obs.Missing {
			value = missingSentinel
		}
		fmt.Fprintf(bw, "%-9s, %8s, %8s, %7.2f, %2s, %2s\n",
			obs.StationID, obs.SourceID, obs.Date.Format(dateLayout), value, obs.QC.Char(), obs.EC.Char())
	}

	return bw.Flush()
}
