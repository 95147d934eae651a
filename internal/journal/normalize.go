package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// NormalizeReport accounts for what a repair pass did.
type NormalizeReport struct {
	Rows      int // data rows kept (header excluded)
	Truncated int // over-wide rows cut to the canonical 4 columns
	Padded    int // under-wide rows padded with empty fields
	Dropped   int // rows unreadable even with lazy quoting, excluded from the rewrite
}

// Changed reports whether the pass had to repair or exclude any row.
func (r NormalizeReport) Changed() bool {
	return r.Truncated > 0 || r.Padded > 0 || r.Dropped > 0
}

// Normalize repairs the journal's row shapes in place: every data row is
// coerced to the canonical 4-column schema (over-wide rows lose their
// extra columns — deliberately lossy, kept for bounded backward
// compatibility; under-wide rows are padded with empty fields and left for
// ReadAll's validation to exclude), the header is rewritten to the
// canonical names, and the whole file is re-emitted with RFC 4180 quoting
// so fields holding delimiters or newlines stay lossless.
//
// The pass is idempotent — running it twice yields the same bytes — and
// atomic: the repaired journal is written to a temporary file and renamed
// over the original, so a crash mid-repair leaves the old file intact.
// Normalize repairs shape only; field values are validated at read time.
// It must be invoked explicitly and is never run as part of Append.
func (s *Store) Normalize() (NormalizeReport, error) {
	var report NormalizeReport

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return report, nil // nothing to repair
		}
		return report, fmt.Errorf("journal: %w: open %s: %w", ErrStorage, s.path, err)
	}

	r := newRowReader(f)
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// Unreadable even with lazy quoting; the row is beyond shape
			// repair, so exclude it from the rewrite and count it.
			report.Dropped++
			continue
		}
		if err != nil {
			// A failing read must not feed a rewrite; leave the file as is.
			f.Close()
			return report, fmt.Errorf("journal: %w: read %s: %w", ErrStorage, s.path, err)
		}
		rows = append(rows, row)
	}
	f.Close()

	if len(rows) > 0 && isHeader(rows[0]) {
		rows = rows[1:]
	}

	out := make([][]string, 0, len(rows)+1)
	out = append(out, canonicalHeader)
	for _, row := range rows {
		switch {
		case len(row) > len(canonicalHeader):
			row = row[:len(canonicalHeader)]
			report.Truncated++
		case len(row) < len(canonicalHeader):
			padded := make([]string, len(canonicalHeader))
			copy(padded, row)
			row = padded
			report.Padded++
		}
		out = append(out, row)
		report.Rows++
	}

	if err := s.replaceWith(out); err != nil {
		return report, err
	}
	return report, nil
}

// replaceWith writes rows to a temporary file beside the journal and
// renames it over the original in one step.
func (s *Store) replaceWith(rows [][]string) error {
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("journal: %w: open %s: %w", ErrStorage, tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("journal: %w: rewrite: %w", ErrStorage, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("journal: %w: close %s: %w", ErrStorage, tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("journal: %w: replace %s: %w", ErrStorage, s.path, err)
	}
	return nil
}
