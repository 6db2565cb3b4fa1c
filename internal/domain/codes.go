package domain

import "fmt"

// Variable identifies the measured quantity of a station series.
type Variable string

const (
	VarPrecipitation Variable = "PPT"
	VarMaxTemp       Variable = "TMAX"
	VarMinTemp       Variable = "TMIN"
)

// ParseVariable validates a VARIABLE header value.
func ParseVariable(s string) (Variable, error) {
	switch v := Variable(s); v {
	case VarPrecipitation, VarMaxTemp, VarMinTemp:
		return v, nil
	default:
		return "", fmt.Errorf("unknown variable code %q", s)
	}
}

// QCCode is the per-observation quality-control flag. The underlying byte is
// the single character used on the wire; `_` means the value passed all checks.
type QCCode byte

const (
	QCValid     QCCode = '_'
	QCSuspect   QCCode = '1'
	QCDisagree  QCCode = '2'
	QCSecondary QCCode = '3'
	QCMissing   QCCode = '9'
)

var qcNames = map[QCCode]string{
	QCValid:     "valid",
	QCSuspect:   "suspect",
	QCDisagree:  "disagree",
	QCSecondary: "secondary",
	QCMissing:   "missing",
}

// ECCode identifies which automated check an observation failed, if any.
// `_` means no check failed. The codes are pass-through metadata: this module
// never re-derives them.
type ECCode byte

const (
	ECNone                  ECCode = '_'
	ECDuplicate             ECCode = 'D'
	ECGap                   ECCode = 'G'
	ECInternalConsistency   ECCode = 'I'
	ECStreak                ECCode = 'K'
	ECMultidayLength        ECCode = 'L'
	ECMegaconsistency       ECCode = 'M'
	ECNaught                ECCode = 'N'
	ECClimatologicalOutlier ECCode = 'O'
	ECLaggedRange           ECCode = 'R'
	ECSpatialConsistency    ECCode = 'S'
	ECTemporalConsistency   ECCode = 'T'
	ECNinetyNineCheck       ECCode = 'W'
	ECBounds                ECCode = 'X'
)

var ecNames = map[ECCode]string{
	ECNone:                  "none",
	ECDuplicate:             "duplicate",
	ECGap:                   "gap",
	ECInternalConsistency:   "internal-consistency",
	ECStreak:                "streak",
	ECMultidayLength:        "multiday-length",
	ECMegaconsistency:       "megaconsistency",
	ECNaught:                "naught",
	ECClimatologicalOutlier: "climatological-outlier",
	ECLaggedRange:           "lagged-range",
	ECSpatialConsistency:    "spatial-consistency",
	ECTemporalConsistency:   "temporal-consistency",
	ECNinetyNineCheck:       "ninety-nine-check",
	ECBounds:                "bounds",
}

// ParseQCCode decodes the single-character QC column value.
func ParseQCCode(s string) (QCCode, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("qc code must be one character, got %q", s)
	}
	c := QCCode(s[0])
	if _, ok := qcNames[c]; !ok {
		return 0, fmt.Errorf("unknown qc code %q", s)
	}
	return c, nil
}

// ParseECCode decodes the single-character EC column value.
func ParseECCode(s string) (ECCode, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("ec code must be one character, got %q", s)
	}
	c := ECCode(s[0])
	if _, ok := ecNames[c]; !ok {
		return 0, fmt.Errorf("unknown ec code %q", s)
	}
	return c, nil
}

func (c QCCode) String() string {
	if name, ok := qcNames[c]; ok {
		return name
	}
	return fmt.Sprintf("qc(%q)", byte(c))
}

func (c ECCode) String() string {
	if name, ok := ecNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ec(%q)", byte(c))
}

// Char returns the wire character for the code.
func (c QCCode) Char() string { return string(byte(c)) }

// Char returns the wire character for the code.
func (c ECCode) Char() string { return string(byte(c)) }

// MarshalText renders the code by name so JSON output reads "valid" rather
// than a raw byte.
func (c QCCode) MarshalText() ([]byte, error) {
	name, ok := qcNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown qc code %q", byte(c))
	}
	return []byte(name), nil
}

func (c *QCCode) UnmarshalText(text []byte) error {
	for code, name := range qcNames {
		if name == string(text) {
			*c = code
			return nil
		}
	}
	return fmt.Errorf("unknown qc code name %q", text)
}

// MarshalText renders the code by name so JSON output reads "none" rather
// than a raw byte.
func (c ECCode) MarshalText() ([]byte, error) {
	name, ok := ecNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown ec code %q", byte(c))
	}
	return []byte(name), nil
}

func (c *ECCode) UnmarshalText(text []byte) error {
	for code, name := range ecNames {
		if name == string(text) {
			*c = code
			return nil
		}
	}
	return fmt.Errorf("unknown ec code name %q", text)
}
