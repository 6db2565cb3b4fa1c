package csag_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/csag-station-reader/internal/csag"
	"github.com/couchcryptid/csag-station-reader/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func loadSample(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "0009084_.txt"))
	require.NoError(t, err)
	return data
}

func TestParse_SampleFile(t *testing.T) {
	rec, err := csag.Parse(bytes.NewReader(loadSample(t)))
	require.NoError(t, err)

	meta := rec.Metadata
	assert.Equal(t, "1.0", meta.FormatVersion)
	assert.Equal(t, 3, meta.Cleaning)
	assert.Equal(t, date(2012, time.June, 20), meta.Created)
	assert.Equal(t, domain.VarPrecipitation, meta.Variable)
	assert.Equal(t, "ZA", meta.Country)
	assert.Equal(t, "0009084_", meta.ID)
	assert.Equal(t, "KLEINDORP_-_POL", meta.Name)
	assert.Equal(t, -36.54, meta.Latitude)
	assert.Equal(t, 22.05, meta.Longitude)
	assert.Equal(t, 153.00, meta.Altitude)
	assert.Equal(t, date(1998, time.March, 1), meta.StartDate)
	assert.Equal(t, date(1998, time.March, 20), meta.EndDate)

	require.Len(t, rec.Observations, 20)

	wantValues := []float64{0, 0, 0, 0, 8.0, 0, 0, 0, 4.4, 1.0, 2.5, 0, 0, 0, 0, 5.3, 12.0, 0, 0, 0}
	for i, obs := range rec.Observations {
		assert.Equal(t, "0009084_7", obs.StationID)
		assert.Equal(t, "0000108", obs.SourceID)
		assert.Equal(t, date(1998, time.March, 1+i), obs.Date, "row %d", i)
		assert.Equal(t, wantValues[i], obs.Value, "row %d", i)
		assert.False(t, obs.Missing, "row %d", i)
		assert.Equal(t, domain.QCValid, obs.QC, "row %d", i)
		assert.Equal(t, domain.ECNone, obs.EC, "row %d", i)
	}
}

func TestParse_Deterministic(t *testing.T) {
	data := loadSample(t)

	first, err := csag.Parse(bytes.NewReader(data))
	require.NoError(t, err)
	second, err := csag.Parse(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

const minimalHeader = `FORMAT 1.0
VARIABLE | PPT
ID | 0001234_

ID, SOUID, DATE, VAR, QC, EC
`

func TestParse_HeaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{
			name:   "missing ID key",
			input:  "FORMAT 1.0\nVARIABLE | PPT\n\nID, SOUID, DATE, VAR, QC, EC\n0001234_7, 0000001, 19980301, 0.00, _, _\n",
			reason: "required key ID is missing",
		},
		{
			name:   "missing VARIABLE key",
			input:  "FORMAT 1.0\nID | 0001234_\n\nID, SOUID, DATE, VAR, QC, EC\n0001234_7, 0000001, 19980301, 0.00, _, _\n",
			reason: "required key VARIABLE is missing",
		},
		{
			name:   "no table header",
			input:  "FORMAT 1.0\nID | 0001234_\nVARIABLE | PPT\n",
			reason: "observation table header not found",
		},
		{
			name:   "unknown variable",
			input:  "FORMAT 1.0\nID | 0001234_\nVARIABLE | WIND\n\nID, SOUID, DATE, VAR, QC, EC\n",
			reason: "unknown variable code",
		},
		{
			name:   "unsupported format version",
			input:  "FORMAT 2.0\nID | 0001234_\nVARIABLE | PPT\n\nID, SOUID, DATE, VAR, QC, EC\n",
			reason: "unsupported FORMAT",
		},
		{
			name:   "start after end",
			input:  "FORMAT 1.0\nID | 0001234_\nVARIABLE | PPT\nSTART_DATE | 19980320\nEND_DATE | 19980301\n\nID, SOUID, DATE, VAR, QC, EC\n",
			reason: "after END_DATE",
		},
		{
			name:   "bad latitude",
			input:  "FORMAT 1.0\nID | 0001234_\nVARIABLE | PPT\nLATITUDE | south\n\nID, SOUID, DATE, VAR, QC, EC\n",
			reason: "invalid LATITUDE",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := csag.Parse(strings.NewReader(tc.input))
			require.Error(t, err)

			var headerErr *csag.MalformedHeaderError
			require.ErrorAs(t, err, &headerErr)
			assert.Contains(t, headerErr.Error(), tc.reason)
		})
	}
}

func TestParse_RowErrors(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		reason string
	}{
		{"five fields", "0001234_7, 0000001, 19980301, 0.00, _", "expected 6 fields, got 5"},
		{"seven fields", "0001234_7, 0000001, 19980301, 0.00, _, _, extra", "expected 6 fields, got 7"},
		{"bad date", "0001234_7, 0000001, 1998031, 0.00, _, _", "invalid DATE"},
		{"bad value", "0001234_7, 0000001, 19980301, wet, _, _", "invalid VAR"},
		{"unknown qc", "0001234_7, 0000001, 19980301, 0.00, 7, _", "unknown qc code"},
		{"unknown ec", "0001234_7, 0000001, 19980301, 0.00, _, Z", "unknown ec code"},
		{"multichar qc", "0001234_7, 0000001, 19980301, 0.00, __, _", "one character"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := csag.Parse(strings.NewReader(minimalHeader + tc.row + "\n"))
			require.Error(t, err)

			var rowErr *csag.MalformedRowError
			require.ErrorAs(t, err, &rowErr)
			assert.Contains(t, rowErr.Error(), tc.reason)
			assert.Equal(t, 6, rowErr.Line, "line number should point at the data row")
			assert.Contains(t, rowErr.Raw, strings.TrimSpace(tc.row))
		})
	}
}

func TestParse_EmptyDataset(t *testing.T) {
	_, err := csag.Parse(strings.NewReader(minimalHeader))
	require.Error(t, err)
	assert.True(t, errors.Is(err, csag.ErrEmptyDataset))
}

func TestParse_MissingSentinel(t *testing.T) {
	t.Run("integer spelling", func(t *testing.T) {
		rec, err := csag.Parse(strings.NewReader(minimalHeader + "0001234_7, 0000001, 19980301, -999, _, _\n"))
		require.NoError(t, err)
		require.Len(t, rec.Observations, 1)
		assert.True(t, rec.Observations[0].Missing)
		assert.Equal(t, 0.0, rec.Observations[0].Value)
	})

	t.Run("decimal spelling", func(t *testing.T) {
		rec, err := csag.Parse(strings.NewReader(minimalHeader + "0001234_7, 0000001, 19980301, -999.00, _, _\n"))
		require.NoError(t, err)
		assert.True(t, rec.Observations[0].Missing)
	})

	t.Run("near-sentinel value is a reading", func(t *testing.T) {
		rec, err := csag.Parse(strings.NewReader(minimalHeader + "0001234_7, 0000001, 19980301, -998.90, _, _\n"))
		require.NoError(t, err)
		assert.False(t, rec.Observations[0].Missing)
		assert.Equal(t, -998.9, rec.Observations[0].Value)
	})
}

func TestParse_QCAndECPassThrough(t *testing.T) {
	input := minimalHeader +
		"0001234_7, 0000001, 19980301, -999.00, 9, G\n" +
		"0001234_7, 0000001, 19980302, 3.20, 1, O\n"

	rec, err := csag.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rec.Observations, 2)

	assert.Equal(t, domain.QCMissing, rec.Observations[0].QC)
	assert.Equal(t, domain.ECGap, rec.Observations[0].EC)
	assert.Equal(t, domain.QCSuspect, rec.Observations[1].QC)
	assert.Equal(t, domain.ECClimatologicalOutlier, rec.Observations[1].EC)
}

func TestParse_Permissive(t *testing.T) {
	input := minimalHeader +
		"0001234_7, 0000001, 19980301, 0.00, _, _\n" +
		"0001234_7, 0000001, 19980302, broken, _, _\n" +
		"0001234_7, 0000001, 19980303, 1.50, _, _\n"

	r := csag.Reader{Permissive: true}
	rec, err := r.Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Len(t, rec.Observations, 2)
	require.Len(t, r.RowErrors, 1)

	var rowErr *csag.MalformedRowError
	require.ErrorAs(t, r.RowErrors[0], &rowErr)
	assert.Equal(t, 7, rowErr.Line)
}

func TestParse_PermissiveStillFailsOnHeader(t *testing.T) {
	r := csag.Reader{Permissive: true}
	_, err := r.Parse(strings.NewReader("FORMAT 1.0\nVARIABLE | PPT\n\nID, SOUID, DATE, VAR, QC, EC\n"))

	var headerErr *csag.MalformedHeaderError
	require.ErrorAs(t, err, &headerErr)
}

func TestParseHeader_UnknownKeysIgnored(t *testing.T) {
	lines := []string{
		"FORMAT 1.0",
		"# comment",
		"ID | 0001234_",
		"VARIABLE | TMAX",
		"SOURCE | CSAG",
		"FUTURE_KEY | whatever",
		"",
		"ID, SOUID, DATE, VAR, QC, EC",
	}

	meta, consumed, err := csag.ParseHeader(lines)
	require.NoError(t, err)
	assert.Equal(t, 8, consumed)
	assert.Equal(t, "0001234_", meta.ID)
	assert.Equal(t, domain.VarMaxTemp, meta.Variable)
}

func TestParseRow_Standalone(t *testing.T) {
	obs, err := csag.ParseRow(" 0009084_7,  0000108, 19980305,    8.00,  _,  _")
	require.NoError(t, err)

	assert.Equal(t, "0009084_7", obs.StationID)
	assert.Equal(t, "0000108", obs.SourceID)
	assert.Equal(t, date(1998, time.March, 5), obs.Date)
	assert.Equal(t, 8.0, obs.Value)
	assert.Equal(t, domain.QCValid, obs.QC)
	assert.Equal(t, domain.ECNone, obs.EC)
}
