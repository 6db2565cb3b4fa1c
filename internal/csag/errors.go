package csag

import (
	"errors"
	"fmt"
)

// ErrEmptyDataset is returned when the header parses but no data rows follow.
var ErrEmptyDataset = errors.New("empty dataset: no data rows follow the header")

// MalformedHeaderError reports a header block that violates the format
// contract: a required key is absent or a value is unparsable.
type MalformedHeaderError struct {
	Line   int    // 1-based line number, 0 when no single line is at fault
	Raw    string // offending line, verbatim
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("malformed header: %s", e.Reason)
	}
	return fmt.Sprintf("malformed header at line %d: %s (%q)", e.Line, e.Reason, e.Raw)
}

// MalformedRowError reports a data row with the wrong field count, an
// unparsable date or value, or an unknown QC/EC code.
type MalformedRowError struct {
	Line   int // 1-based line number, 0 when the row was parsed standalone
	Raw    string
	Reason string
}

func (e *MalformedRowError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("malformed row: %s (%q)", e.Reason, e.Raw)
	}
	return fmt.Sprintf("malformed row at line %d: %s (%q)", e.Line, e.Reason, e.Raw)
}
