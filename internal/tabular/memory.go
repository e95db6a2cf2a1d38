package tabular

import (
	"context"
	"fmt"
	"sync"
)

// Memory keeps sheets in process memory. Used by tests and the "memory"
// storage driver.
type Memory struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][][]string)}
}

func copyRow(row []string) []string {
	return append([]string(nil), row...)
}

func (m *Memory) Read(_ context.Context, sheet string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, ok := m.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}

	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = copyRow(r)
	}
	return out, nil
}

func (m *Memory) Append(_ context.Context, sheet string, row []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.sheets[sheet]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}

	m.sheets[sheet] = append(rows, copyRow(row))
	return len(rows) + 1, nil
}

func (m *Memory) Update(_ context.Context, sheet string, rowNum int, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}
	if err := checkRow(rowNum, len(rows)); err != nil {
		return err
	}

	rows[rowNum-1] = copyRow(row)
	return nil
}

func (m *Memory) Delete(_ context.Context, sheet string, rowNum int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}
	if err := checkRow(rowNum, len(rows)); err != nil {
		return err
	}

	m.sheets[sheet] = append(rows[:rowNum-1], rows[rowNum:]...)
	return nil
}

func (m *Memory) CreateSheet(_ context.Context, sheet string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[sheet]; !ok {
		m.sheets[sheet] = [][]string{}
	}
	return nil
}
