package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// textColumns are never parsed as numbers even when their values look
// numeric (an LAD code such as "06000001" must keep its leading zero).
var textColumns = map[string]bool{
	ColLADCode: true,
	ColLADName: true,
	"region":   true,
}

// ReadCSV parses a header-first delimited table. Empty cells become
// missing; the year column parses as integer; known descriptive columns
// stay text; everything else parses as float when it can and stays text
// otherwise.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	t := New(header...)

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i >= len(rec) {
				break
			}
			row[col] = parseCell(col, rec[i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func parseCell(col, raw string) Cell {
	if raw == "" {
		return MissingCell()
	}
	if textColumns[col] {
		return TextCell(raw)
	}
	if col == ColYear {
		if y, err := strconv.Atoi(raw); err == nil {
			return IntCell(y)
		}
		return TextCell(raw)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return FloatCell(f)
	}
	return TextCell(raw)
}

// ReadCSVFile reads a table from disk.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes the table with a header row. Missing cells render as
// empty fields. Output is deterministic: column order and row order are
// exactly as stored.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			rec[i] = row[col].String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes a table to disk, creating parent directories.
func WriteCSVFile(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for table: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating table file: %w", err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteJSONFile writes a diagnostics record to disk as indented JSON.
func WriteJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for report: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
