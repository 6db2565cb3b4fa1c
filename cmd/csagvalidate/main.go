// Command csagvalidate runs structural integrity checks over CSAG station
// files: parseability, station identity, series continuity, and metadata
// ranges. QC/EC flags are carried through untouched; nothing is re-derived.
//
// Usage:
//
//	go run ./cmd/csagvalidate [-permissive] file.txt [file.txt ...]
//	go run ./cmd/csagvalidate -dir /srv/archive
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/csag-station-reader/internal/csag"
	"github.com/couchcryptid/csag-station-reader/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// parsedFile pairs a path with its parse result for the later phases.
type parsedFile struct {
	path   string
	record domain.StationRecord
}

func main() {
	dir := flag.String("dir", "", "validate every .txt file under this directory")
	permissive := flag.Bool("permissive", false, "skip malformed rows instead of rejecting the file")
	flag.Parse()

	paths := flag.Args()
	if *dir != "" {
		found, err := collectFiles(*dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(1)
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(paths, *permissive))
}

func run(paths []string, permissive bool) int {
	fmt.Println("=== CSAG Station File Validation ===")
	fmt.Println()

	parsePhase := &phase{name: "file parse"}
	var parsed []parsedFile

	for _, path := range paths {
		reader := csag.Reader{Permissive: permissive}
		rec, err := parseFile(&reader, path)
		if err != nil {
			parsePhase.errorf("%s: %v", path, err)
			continue
		}
		for _, rowErr := range reader.RowErrors {
			parsePhase.errorf("%s: skipped: %v", path, rowErr)
		}
		parsed = append(parsed, parsedFile{path: path, record: rec})
	}

	phases := []*phase{
		parsePhase,
		validateIdentity(parsed),
		validateContinuity(parsed),
		validateMetadataRanges(parsed),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-28s %s\n", p.name, status)
	}

	var rows int
	for _, pf := range parsed {
		rows += len(pf.record.Observations)
	}
	fmt.Println()
	fmt.Printf("Files: %d checked, %d parsed, %d rows\n", len(paths), len(parsed), rows)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateIdentity checks that every row belongs to the station declared in
// the header: the row ID must extend the header ID, and SOUID must be set.
func validateIdentity(files []parsedFile) *phase {
	p := &phase{name: "station identity"}
	for _, pf := range files {
		stationID := pf.record.Metadata.ID
		for i, obs := range pf.record.Observations {
			if !strings.HasPrefix(obs.StationID, stationID) {
				p.errorf("%s: row %d: station id %q does not extend header id %q",
					pf.path, i+1, obs.StationID, stationID)
			}
			if obs.SourceID == "" {
				p.errorf("%s: row %d: empty SOUID", pf.path, i+1)
			}
		}
	}
	return p
}

// validateContinuity checks that observation dates strictly increase and stay
// inside the header's START_DATE..END_DATE span when one is declared.
func validateContinuity(files []parsedFile) *phase {
	p := &phase{name: "series continuity"}
	for _, pf := range files {
		meta := pf.record.Metadata
		obs := pf.record.Observations
		for i := 1; i < len(obs); i++ {
			if !obs[i].Date.After(obs[i-1].Date) {
				p.errorf("%s: row %d: date %s does not advance past %s",
					pf.path, i+1, obs[i].Date.Format("20060102"), obs[i-1].Date.Format("20060102"))
			}
		}
		for i, o := range obs {
			if !meta.StartDate.IsZero() && o.Date.Before(meta.StartDate) {
				p.errorf("%s: row %d: date %s precedes START_DATE", pf.path, i+1, o.Date.Format("20060102"))
			}
			if !meta.EndDate.IsZero() && o.Date.After(meta.EndDate) {
				p.errorf("%s: row %d: date %s exceeds END_DATE", pf.path, i+1, o.Date.Format("20060102"))
			}
		}
	}
	return p
}

// validateMetadataRanges checks the physical plausibility of header fields.
func validateMetadataRanges(files []parsedFile) *phase {
	p := &phase{name: "metadata ranges"}
	for _, pf := range files {
		meta := pf.record.Metadata
		if meta.Latitude < -90 || meta.Latitude > 90 {
			p.errorf("%s: latitude %.2f out of range", pf.path, meta.Latitude)
		}
		if meta.Longitude < -180 || meta.Longitude > 180 {
			p.errorf("%s: longitude %.2f out of range", pf.path, meta.Longitude)
		}
		if meta.Altitude < -500 || meta.Altitude > 9000 {
			p.errorf("%s: altitude %.2f out of range", pf.path, meta.Altitude)
		}
		if meta.Cleaning < 0 {
			p.errorf("%s: negative cleaning level %d", pf.path, meta.Cleaning)
		}
	}
	return p
}

func parseFile(reader *csag.Reader, path string) (domain.StationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.StationRecord{}, err
	}
	defer f.Close()
	return reader.Parse(f)
}

func collectFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".txt") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}
