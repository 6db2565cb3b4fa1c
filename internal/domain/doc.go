// Package domain models CSAG station exchange data.
//
// # Data Source
//
// Station files originate from the Climate System Analysis Group (CSAG)
// regional climate archive. Each file carries one station's daily series for a
// single variable: a documentation-and-metadata header block followed by a
// comma-separated observation table.
//
// # File Conventions
//
// Header block:
//
//	FORMAT 1.0                  first line, fixed format marker
//	# ...                       comment lines, ignored
//	KEY | VALUE                 metadata, pipe-delimited, whitespace trimmed
//
// Recognized metadata keys: CLEANING, CREATED, VARIABLE, COUNTRY, ID, NAME,
// LATITUDE, LONGITUDE, ALTITUDE, START_DATE, END_DATE. Unknown keys are
// ignored for forward compatibility. ID and VARIABLE are required.
//
// Observation table:
//
//	ID       , SOUID   , DATE    , VAR     , QC , EC
//	0009084_7,  0000108, 19980301,     0.00,  _,  _
//
// Dates are YYYYMMDD. The VAR column holds the reading; the value -999
// (also written -999.00) is the sentinel for a missing or undefined reading
// and never decodes to a numeric value.
//
// # Quality Flags
//
// QC is the per-observation quality verdict:
//
//	_ valid | 1 suspect | 2 disagree | 3 secondary | 9 missing
//
// EC names the specific automated check that failed, `_` when none did:
//
//	D duplicate | G gap | I internal-consistency | K streak
//	L multiday-length | M megaconsistency | N naught
//	O climatological-outlier | R lagged-range | S spatial-consistency
//	T temporal-consistency | W ninety-nine-check | X bounds
//
// Both flags are produced by the archive's cleaning pipeline and carried
// through here untouched; this module never re-runs quality control.
package domain
