package tabular

import (
	"strconv"
	"strings"
)

// Column is a canonical column name plus the legacy header spellings that
// should be read as the same column.
type Column struct {
	Name    string
	Aliases []string
}

type Schema struct {
	Sheet   string
	Columns []Column
}

func (s Schema) Header() []string {
	header := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c.Name
	}
	return header
}

// ColumnMap resolves canonical column names to positions in a concrete
// header row. It is built once per read, so inserted or reordered columns
// never misalign fields.
type ColumnMap struct {
	index   map[string]int
	width   int
	missing []string
}

func headerKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func NewColumnMap(header []string, schema Schema) ColumnMap {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := headerKey(h)
		if key == "" {
			continue
		}
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	cm := ColumnMap{index: make(map[string]int, len(schema.Columns)), width: len(header)}
	for _, c := range schema.Columns {
		idx, ok := positions[headerKey(c.Name)]
		if !ok {
			for _, alias := range c.Aliases {
				if idx, ok = positions[headerKey(alias)]; ok {
					break
				}
			}
		}
		if !ok {
			cm.missing = append(cm.missing, c.Name)
			continue
		}
		cm.index[c.Name] = idx
	}

	return cm
}

// Missing lists schema columns absent from the header.
func (m ColumnMap) Missing() []string { return m.missing }

func (m ColumnMap) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

func (m ColumnMap) Index(name string) (int, bool) {
	idx, ok := m.index[name]
	return idx, ok
}

func (m ColumnMap) Width() int { return m.width }

// Row lays values out in header order. Columns unknown to the header are
// dropped.
func (m ColumnMap) Row(values map[string]string) []string {
	row := make([]string, m.width)
	for name, v := range values {
		if idx, ok := m.index[name]; ok {
			row[idx] = v
		}
	}
	return row
}

// Merge overlays values on an existing row, keeping cells of columns the
// schema does not know about.
func (m ColumnMap) Merge(existing []string, values map[string]string) []string {
	row := make([]string, m.width)
	copy(row, existing)
	for name, v := range values {
		if idx, ok := m.index[name]; ok {
			row[idx] = v
		}
	}
	return row
}

func (m ColumnMap) Record(row []string) Record {
	return Record{m: m, row: row}
}

// Record is a read view over one data row.
type Record struct {
	m   ColumnMap
	row []string
}

func (r Record) String(name string) string {
	idx, ok := r.m.index[name]
	if !ok || idx >= len(r.row) {
		return ""
	}
	return strings.TrimSpace(r.row[idx])
}

var numberCleaner = strings.NewReplacer("$", "", ",", "", " ", "", "MXN", "")

// Float parses numeric cells, tolerating currency formatting. Empty or
// malformed cells read as 0.
func (r Record) Float(name string) float64 {
	s := numberCleaner.Replace(r.String(name))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func (r Record) Int(name string) int {
	return int(r.Float(name))
}

func (r Record) Bool(name string) bool {
	switch strings.ToLower(r.String(name)) {
	case "true", "1", "yes", "si", "sí", "x":
		return true
	}
	return false
}

// OptBool distinguishes an empty cell (nil) from false.
func (r Record) OptBool(name string) *bool {
	if r.String(name) == "" {
		return nil
	}
	v := r.Bool(name)
	return &v
}

func (r Record) OptInt(name string) *int {
	if r.String(name) == "" {
		return nil
	}
	v := r.Int(name)
	return &v
}

func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func FormatBool(v bool) string {
	return strconv.FormatBool(v)
}

func FormatOptBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func FormatOptInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
