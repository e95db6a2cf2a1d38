package tabular

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Workbook stores every sheet as a worksheet of one xlsx file. Each write is
// flushed to disk before returning.
type Workbook struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

func OpenWorkbook(path string) (*Workbook, error) {
	const op = "tabular.OpenWorkbook"

	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: open %s: %w", op, path, err)
		}
		return &Workbook{path: path, file: f}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: stat %s: %w", op, path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: create dir: %w", op, err)
		}
	}

	f := excelize.NewFile()
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("%s: create %s: %w", op, path, err)
	}

	return &Workbook{path: path, file: f}, nil
}

func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *Workbook) hasSheet(sheet string) bool {
	idx, err := w.file.GetSheetIndex(sheet)
	return err == nil && idx != -1
}

func (w *Workbook) rows(sheet string) ([][]string, error) {
	if !w.hasSheet(sheet) {
		return nil, fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}
	return w.file.GetRows(sheet)
}

func (w *Workbook) setRow(sheet string, rowNum int, row []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	return w.file.SetSheetRow(sheet, cell, &values)
}

func (w *Workbook) Read(_ context.Context, sheet string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("tabular.Workbook.Read: %w", err)
	}
	return rows, nil
}

func (w *Workbook) Append(_ context.Context, sheet string, row []string) (int, error) {
	const op = "tabular.Workbook.Append"

	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.rows(sheet)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	rowNum := len(rows) + 1
	if err := w.setRow(sheet, rowNum, row); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := w.file.Save(); err != nil {
		return 0, fmt.Errorf("%s: save: %w", op, err)
	}

	return rowNum, nil
}

func (w *Workbook) Update(_ context.Context, sheet string, rowNum int, row []string) error {
	const op = "tabular.Workbook.Update"

	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.rows(sheet)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := checkRow(rowNum, len(rows)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Pad so stale trailing cells of the old row are cleared.
	padded := row
	if old := rows[rowNum-1]; len(old) > len(row) {
		padded = make([]string, len(old))
		copy(padded, row)
	}

	if err := w.setRow(sheet, rowNum, padded); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("%s: save: %w", op, err)
	}

	return nil
}

func (w *Workbook) Delete(_ context.Context, sheet string, rowNum int) error {
	const op = "tabular.Workbook.Delete"

	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.rows(sheet)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := checkRow(rowNum, len(rows)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := w.file.RemoveRow(sheet, rowNum); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("%s: save: %w", op, err)
	}

	return nil
}

func (w *Workbook) CreateSheet(_ context.Context, sheet string) error {
	const op = "tabular.Workbook.CreateSheet"

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.hasSheet(sheet) {
		return nil
	}

	if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("%s: save: %w", op, err)
	}

	return nil
}
