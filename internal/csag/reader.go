// Package csag implements the reader and writer for CSAG station exchange
// files. Parsing is a single synchronous pass over one in-memory document;
// callers needing many files parse them independently.
package csag

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/csag-station-reader/internal/domain"
)

const dateLayout = "20060102"

// missingSentinel marks an undefined reading in the VAR column.
const missingSentinel = -999.0

// tableColumns is the required observation table header, in order.
var tableColumns = [...]string{"ID", "SOUID", "DATE", "VAR", "QC", "EC"}

// Reader parses CSAG station files. The zero value is a strict reader: the
// first malformed row aborts the whole parse. With Permissive set, row-level
// failures are collected in RowErrors and the remaining rows are returned;
// header failures are always fatal.
type Reader struct {
	Permissive bool

	// RowErrors holds the *MalformedRowError values collected by the most
	// recent permissive Parse call.
	RowErrors []error
}

// Parse is shorthand for a strict parse of one document.
func Parse(src io.Reader) (domain.StationRecord, error) {
	var r Reader
	return r.Parse(src)
}

// Parse reads a whole station document: header block, table header, then
// data rows in file order.
func (r *Reader) Parse(src io.Reader) (domain.StationRecord, error) {
	r.RowErrors = nil

	lines, err := readLines(src)
	if err != nil {
		return domain.StationRecord{}, fmt.Errorf("read input: %w", err)
	}

	meta, consumed, err := ParseHeader(lines)
	if err != nil {
		return domain.StationRecord{}, err
	}

	rec := domain.StationRecord{Metadata: meta}
	for i := consumed; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		obs, err := ParseRow(line)
		if err != nil {
			setRowLine(err, i+1)
			if r.Permissive {
				r.RowErrors = append(r.RowErrors, err)
				continue
			}
			return domain.StationRecord{}, err
		}
		rec.Observations = append(rec.Observations, obs)
	}

	if len(rec.Observations) == 0 {
		return domain.StationRecord{}, ErrEmptyDataset
	}
	return rec, nil
}

// ParseHeader scans lines until the observation table header row, populating
// metadata from KEY | VALUE lines along the way. It returns the metadata and
// the number of lines consumed, table header included. Comment lines and
// unknown keys are skipped.
func ParseHeader(lines []string) (domain.StationMetadata, int, error) {
	var meta domain.StationMetadata
	seen := make(map[string]bool)

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if isTableHeader(line) {
			if err := checkHeader(meta, seen); err != nil {
				return domain.StationMetadata{}, 0, err
			}
			return meta, i + 1, nil
		}

		key, value, ok := splitMetadataLine(line)
		if !ok {
			continue
		}
		if err := applyMetadata(&meta, key, value); err != nil {
			return domain.StationMetadata{}, 0, &MalformedHeaderError{
				Line:   i + 1,
				Raw:    raw,
				Reason: err.Error(),
			}
		}
		seen[key] = true
	}

	return domain.StationMetadata{}, 0, &MalformedHeaderError{Reason: "observation table header not found"}
}

// ParseRow parses one comma-separated data row with the six fixed fields
// ID, SOUID, DATE, VAR, QC, EC.
func ParseRow(line string) (domain.Observation, error) {
	fields := strings.Split(line, ",")
	if len(fields) != len(tableColumns) {
		return domain.Observation{}, &MalformedRowError{
			Raw:    line,
			Reason: fmt.Sprintf("expected %d fields, got %d", len(tableColumns), len(fields)),
		}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	date, err := time.ParseInLocation(dateLayout, fields[2], time.UTC)
	if err != nil {
		return domain.Observation{}, &MalformedRowError{Raw: line, Reason: fmt.Sprintf("invalid DATE %q", fields[2])}
	}

	value, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return domain.Observation{}, &MalformedRowError{Raw: line, Reason: fmt.Sprintf("invalid VAR %q", fields[3])}
	}
	missing := value == missingSentinel
	if missing {
		value = 0
	}

	qc, err := domain.ParseQCCode(fields[4])
	if err != nil {
		return domain.Observation{}, &MalformedRowError{Raw: line, Reason: err.Error()}
	}
	ec, err := domain.ParseECCode(fields[5])
	if err != nil {
		return domain.Observation{}, &MalformedRowError{Raw: line, Reason: err.Error()}
	}

	return domain.Observation{
		StationID: fields[0],
		SourceID:  fields[1],
		Date:      date,
		Value:     value,
		Missing:   missing,
		QC:        qc,
		EC:        ec,
	}, nil
}

// splitMetadataLine separates a metadata line into key and value. The pipe
// form "KEY | VALUE" is canonical; the whitespace form "FORMAT 1.0" used by
// the first line of the file is accepted as a fallback.
func splitMetadataLine(line string) (key, value string, ok bool) {
	if before, after, found := strings.Cut(line, "|"); found {
		key = strings.TrimSpace(before)
		value = strings.TrimSpace(after)
		return key, value, key != ""
	}
	items := strings.Fields(line)
	if len(items) < 2 {
		return "", "", false
	}
	return items[0], items[len(items)-1], true
}

func applyMetadata(meta *domain.StationMetadata, key, value string) error {
	switch key {
	case "FORMAT":
		if value != "1.0" {
			return fmt.Errorf("unsupported FORMAT %q", value)
		}
		meta.FormatVersion = value
	case "CLEANING":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CLEANING %q", value)
		}
		meta.Cleaning = n
	case "CREATED":
		t, err := time.ParseInLocation(dateLayout, value, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid CREATED %q", value)
		}
		meta.Created = t
	case "VARIABLE":
		v, err := domain.ParseVariable(value)
		if err != nil {
			return err
		}
		meta.Variable = v
	case "COUNTRY":
		meta.Country = value
	case "ID":
		meta.ID = value
	case "NAME":
		meta.Name = value
	case "LATITUDE":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid LATITUDE %q", value)
		}
		meta.Latitude = f
	case "LONGITUDE":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid LONGITUDE %q", value)
		}
		meta.Longitude = f
	case "ALTITUDE":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid ALTITUDE %q", value)
		}
		meta.Altitude = f
	case "START_DATE":
		t, err := time.ParseInLocation(dateLayout, value, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid START_DATE %q", value)
		}
		meta.StartDate = t
	case "END_DATE":
		t, err := time.ParseInLocation(dateLayout, value, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid END_DATE %q", value)
		}
		meta.EndDate = t
	default:
		// Unknown keys are ignored for forward compatibility.
	}
	return nil
}

// checkHeader enforces the required keys and the date-span invariant once the
// table header has been reached.
func checkHeader(meta domain.StationMetadata, seen map[string]bool) error {
	if !seen["ID"] {
		return &MalformedHeaderError{Reason: "required key ID is missing"}
	}
	if !seen["VARIABLE"] {
		return &MalformedHeaderError{Reason: "required key VARIABLE is missing"}
	}
	if !meta.StartDate.IsZero() && !meta.EndDate.IsZero() && meta.EndDate.Before(meta.StartDate) {
		return &MalformedHeaderError{Reason: fmt.Sprintf(
			"START_DATE %s is after END_DATE %s",
			meta.StartDate.Format(dateLayout), meta.EndDate.Format(dateLayout),
		)}
	}
	return nil
}

func isTableHeader(line string) bool {
	fields := strings.Split(line, ",")
	if len(fields) != len(tableColumns) {
		return false
	}
	for i, want := range tableColumns {
		if strings.TrimSpace(fields[i]) != want {
			return false
		}
	}
	return true
}

func setRowLine(err error, line int) {
	var rowErr *MalformedRowError
	if errors.As(err, &rowErr) {
		rowErr.Line = line
	}
}

func readLines(src io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
