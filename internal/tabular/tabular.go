// Package tabular is the adapter over spreadsheet-like storage: named
// sheets of string rows, addressed by 1-based row numbers with the header in
// row 1. Backends: an excelize workbook file, a MySQL table and memory.
package tabular

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrRateLimited marks a transient quota error from the backend; Retrying
	// retries on it.
	ErrRateLimited   = errors.New("tabular: rate limited")
	ErrNoSheet       = errors.New("tabular: sheet not found")
	ErrRowOutOfRange = errors.New("tabular: row out of range")
)

// HeaderRow is the row number of the header in every sheet.
const HeaderRow = 1

type Store interface {
	// Read returns all rows of the sheet, header included.
	Read(ctx context.Context, sheet string) ([][]string, error)
	// Append writes row after the last one and returns its row number.
	Append(ctx context.Context, sheet string, row []string) (int, error)
	// Update rewrites the whole row in place.
	Update(ctx context.Context, sheet string, rowNum int, row []string) error
	// Delete removes the row; subsequent rows shift up by one.
	Delete(ctx context.Context, sheet string, rowNum int) error
	// CreateSheet creates an empty sheet. It is a no-op when it exists.
	CreateSheet(ctx context.Context, sheet string) error
}

// EnsureSchema creates the sheet if needed and makes sure the header row has
// every column of the schema. Missing columns are appended to the right so
// existing data never moves.
func EnsureSchema(ctx context.Context, s Store, schema Schema) error {
	const op = "tabular.EnsureSchema"

	if err := s.CreateSheet(ctx, schema.Sheet); err != nil {
		return fmt.Errorf("%s: create sheet %q: %w", op, schema.Sheet, err)
	}

	rows, err := s.Read(ctx, schema.Sheet)
	if err != nil {
		return fmt.Errorf("%s: read sheet %q: %w", op, schema.Sheet, err)
	}

	if len(rows) == 0 {
		if _, err := s.Append(ctx, schema.Sheet, schema.Header()); err != nil {
			return fmt.Errorf("%s: write header %q: %w", op, schema.Sheet, err)
		}
		return nil
	}

	header := rows[0]
	cm := NewColumnMap(header, schema)
	missing := cm.Missing()
	if len(missing) == 0 {
		return nil
	}

	merged := append(append([]string{}, header...), missing...)
	if err := s.Update(ctx, schema.Sheet, HeaderRow, merged); err != nil {
		return fmt.Errorf("%s: extend header %q: %w", op, schema.Sheet, err)
	}

	return nil
}

func checkRow(rowNum, rows int) error {
	if rowNum < HeaderRow || rowNum > rows {
		return fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, rowNum, rows)
	}
	return nil
}
