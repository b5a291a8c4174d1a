package network

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"arcrun/internal/system"
)

// Row is one component record, keyed by column name. The index column is
// "name".
type Row map[string]string

// Table is one component table (generators.csv, links.csv, ...). Columns
// are preserved in file order so a load/transform/save cycle does not
// reshuffle the framework's files.
type Table struct {
	Component string
	Columns   []string
	Rows      []Row
}

// NewTable creates an empty table with the given columns.
func NewTable(component string, columns ...string) *Table {
	if len(columns) == 0 || columns[0] != "name" {
		columns = append([]string{"name"}, columns...)
	}
	return &Table{Component: component, Columns: columns}
}

// Has reports whether a row with the given name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.Get(name)
	return ok
}

// Get returns the row with the given name.
func (t *Table) Get(name string) (Row, bool) {
	for _, r := range t.Rows {
		if r["name"] == name {
			return r, true
		}
	}
	return nil, false
}

// Append adds a row, extending the column set with any new keys.
func (t *Table) Append(row Row) {
	known := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		known[c] = true
	}
	for k := range row {
		if !known[k] {
			t.Columns = append(t.Columns, k)
			known[k] = true
		}
	}
	t.Rows = append(t.Rows, row)
}

// RemoveWhere deletes all rows matching pred and returns how many went.
func (t *Table) RemoveWhere(pred func(Row) bool) int {
	kept := t.Rows[:0]
	removed := 0
	for _, r := range t.Rows {
		if pred(r) {
			removed++
		} else {
			kept = append(kept, r)
		}
	}
	t.Rows = kept
	return removed
}

// Float reads a numeric cell; missing or empty cells report !ok.
func (r Row) Float(col string) (float64, bool) {
	s, exists := r[col]
	if !exists || s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Network is an on-disk PyPSA-style network folder loaded into memory.
// Transformations mutate the tables in place; Save writes them back.
type Network struct {
	Buses        *Table
	Generators   *Table
	StorageUnits *Table
	Links        *Table
	Stores       *Table
	Carriers     *Table
}

// componentFiles maps component tables to their CSV files. Only components
// the transformations touch are loaded; the framework's other files are
// left alone on disk.
var componentFiles = []struct {
	file    string
	columns []string
	field   func(*Network) **Table
}{
	{"buses.csv", []string{"x", "y", "country", "carrier", "sub_network"}, func(n *Network) **Table { return &n.Buses }},
	{"generators.csv", []string{"bus", "carrier", "p_nom", "p_nom_extendable"}, func(n *Network) **Table { return &n.Generators }},
	{"storage_units.csv", []string{"bus", "carrier", "p_nom"}, func(n *Network) **Table { return &n.StorageUnits }},
	{"links.csv", []string{"bus0", "bus1", "carrier", "efficiency", "p_nom_extendable"}, func(n *Network) **Table { return &n.Links }},
	{"stores.csv", []string{"bus", "carrier", "e_nom_extendable"}, func(n *Network) **Table { return &n.Stores }},
	{"carriers.csv", nil, func(n *Network) **Table { return &n.Carriers }},
}

// Load reads a network folder. Missing component files yield empty tables
// so transformations can create them.
func Load(fsys system.FileSystem, dir string) (*Network, error) {
	n := &Network{}
	for _, cf := range componentFiles {
		component := cf.file[:len(cf.file)-len(".csv")]
		path := filepath.Join(dir, cf.file)

		raw, err := fsys.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				*cf.field(n) = NewTable(component, cf.columns...)
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		table, err := parseTable(component, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		*cf.field(n) = table
	}
	return n, nil
}

// Save writes every component table back to dir.
func (n *Network) Save(fsys system.FileSystem, dir string) error {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create network directory: %w", err)
	}
	for _, cf := range componentFiles {
		table := *cf.field(n)
		if table == nil {
			continue
		}
		data, err := renderTable(table)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", cf.file, err)
		}
		if err := fsys.WriteFile(filepath.Join(dir, cf.file), data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", cf.file, err)
		}
	}
	return nil
}

// EnsureCarrier adds a carrier row if it does not already exist.
func (n *Network) EnsureCarrier(name string) {
	if n.Carriers.Has(name) {
		return
	}
	n.Carriers.Append(Row{"name": name})
}

func parseTable(component string, raw []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return NewTable(component), nil
	}

	columns := records[0]
	if len(columns) == 0 || columns[0] != "name" {
		return nil, fmt.Errorf("first column must be the name index, got %v", columns)
	}

	t := &Table{Component: component, Columns: columns}
	for _, rec := range records[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func renderTable(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
