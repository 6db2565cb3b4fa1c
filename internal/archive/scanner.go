// Package archive walks a directory of CSAG station files and parses each
// one in turn. Parsing is deliberately sequential: one file at a time, one
// pass per file.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/csag-station-reader/internal/csag"
	"github.com/couchcryptid/csag-station-reader/internal/domain"
	"github.com/couchcryptid/csag-station-reader/internal/observability"
)

// Options tunes a Scanner.
type Options struct {
	// Interval between scans. Zero means scan once and return.
	Interval time.Duration
	// Permissive skips malformed rows instead of rejecting the whole file.
	Permissive bool
	// IndexPath, when set, receives a JSON summary after every scan.
	IndexPath string
}

// StationEntry is one parsed file's slot in the archive index.
type StationEntry struct {
	Path        string          `json:"path"`
	ID          string          `json:"id"`
	Name        string          `json:"name,omitempty"`
	Variable    domain.Variable `json:"variable"`
	Rows        int             `json:"rows"`
	MissingRows int             `json:"missing_rows"`
	RowErrors   int             `json:"row_errors,omitempty"`
	FirstDate   time.Time       `json:"first_date"`
	LastDate    time.Time       `json:"last_date"`
}

// FileFailure records a file the scan could not parse.
type FileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Summary is the aggregate result of one archive scan.
type Summary struct {
	ScannedAt   time.Time      `json:"scanned_at,omitzero"`
	Duration    time.Duration  `json:"duration_ns"`
	Files       int            `json:"files"`
	FilesFailed int            `json:"files_failed"`
	Rows        int            `json:"rows"`
	MissingRows int            `json:"missing_rows"`
	RowErrors   int            `json:"row_errors"`
	Stations    []StationEntry `json:"stations"`
	Failures    []FileFailure  `json:"failures,omitempty"`
}

// Scanner runs sequential scans over an archive directory.
type Scanner struct {
	dir     string
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics

	ready atomic.Bool

	mu      sync.Mutex
	summary Summary
}

// New creates a Scanner over the given directory.
func New(dir string, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Scanner {
	return &Scanner{
		dir:     dir,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once at least one scan has completed.
func (s *Scanner) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no archive scan has completed yet")
	}
	return nil
}

// Summary returns a snapshot of the most recent scan.
func (s *Scanner) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Run executes scans until the context is cancelled. With a zero interval it
// performs a single scan and returns its error, if any.
func (s *Scanner) Run(ctx context.Context) error {
	s.logger.Info("archive scanner started",
		"dir", s.dir,
		"interval", s.opts.Interval,
		"permissive", s.opts.Permissive,
	)

	for {
		err := s.scanOnce(ctx)
		if ctx.Err() != nil {
			s.logger.Info("archive scanner stopping", "reason", ctx.Err())
			return nil
		}
		if err != nil {
			s.logger.Error("archive scan failed", "error", err)
			if s.opts.Interval == 0 {
				return err
			}
		} else {
			s.ready.Store(true)
		}

		if s.opts.Interval == 0 {
			return nil
		}
		if !sleepWithContext(ctx, s.opts.Interval) {
			return nil
		}
	}
}

// scanOnce walks the archive directory and parses every station file.
func (s *Scanner) scanOnce(ctx context.Context) error {
	start := time.Now()
	s.metrics.ScanRunning.Set(1)
	defer s.metrics.ScanRunning.Set(0)

	summary := Summary{ScannedAt: start.UTC()}

	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		s.scanFile(path, &summary)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", s.dir, err)
	}

	summary.Duration = time.Since(start)
	s.metrics.ScanDuration.Observe(summary.Duration.Seconds())
	s.metrics.LastScanUnix.Set(float64(time.Now().Unix()))

	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()

	s.logger.Info("archive scan complete",
		"files", summary.Files,
		"files_failed", summary.FilesFailed,
		"rows", summary.Rows,
		"missing_rows", summary.MissingRows,
		"row_errors", summary.RowErrors,
		"duration", summary.Duration,
	)

	if s.opts.IndexPath != "" {
		if err := writeIndex(s.opts.IndexPath, summary); err != nil {
			return fmt.Errorf("write index: %w", err)
		}
	}
	return nil
}

// scanFile parses one station file and folds the result into the summary.
func (s *Scanner) scanFile(path string, summary *Summary) {
	reader := csag.Reader{Permissive: s.opts.Permissive}

	rec, err := parseFile(&reader, path)
	if err != nil {
		s.logger.Warn("station file rejected", "path", path, "error", err)
		s.metrics.FilesFailed.Inc()
		summary.FilesFailed++
		summary.Failures = append(summary.Failures, FileFailure{Path: path, Error: err.Error()})
		return
	}

	entry := StationEntry{
		Path:      path,
		ID:        rec.Metadata.ID,
		Name:      rec.Metadata.Name,
		Variable:  rec.Metadata.Variable,
		Rows:      len(rec.Observations),
		RowErrors: len(reader.RowErrors),
		FirstDate: rec.Observations[0].Date,
		LastDate:  rec.Observations[len(rec.Observations)-1].Date,
	}
	for _, obs := range rec.Observations {
		if obs.Missing {
			entry.MissingRows++
		}
	}
	for _, rowErr := range reader.RowErrors {
		s.logger.Warn("malformed row skipped", "path", path, "error", rowErr)
	}

	s.metrics.FilesParsed.Inc()
	s.metrics.RowsParsed.WithLabelValues(string(rec.Metadata.Variable)).Add(float64(entry.Rows))
	s.metrics.RowsMissing.Add(float64(entry.MissingRows))
	s.metrics.RowErrors.Add(float64(entry.RowErrors))
	s.metrics.FileRows.Observe(float64(entry.Rows))

	summary.Files++
	summary.Rows += entry.Rows
	summary.MissingRows += entry.MissingRows
	summary.RowErrors += entry.RowErrors
	summary.Stations = append(summary.Stations, entry)
}

func parseFile(reader *csag.Reader, path string) (domain.StationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.StationRecord{}, err
	}
	defer f.Close()
	return reader.Parse(f)
}

func writeIndex(path string, summary Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
