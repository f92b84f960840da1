// Package ict reads and writes ICARTT-style (.ict) data files: a counted
// block of free-form header lines whose last line names the columns,
// followed by comma-separated numeric rows. The -9999 missing flag maps to
// NaN in memory.
package ict

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// MissingFlag is the on-disk missing value.
const MissingFlag = -9999.0

// Table is one parsed .ict file.
type Table struct {
	// Header holds the free-form header lines, excluding the leading
	// count line and the trailing column-names line.
	Header  []string
	Columns []string
	Rows    [][]float64 // NaN where the file had the missing flag
}

// Read parses an .ict file. Malformed files fail hard: the caller treats
// raw input errors as fatal to the run.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	nHeader, err := parseHeaderCount(scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// Header lines 2..nHeader; the last one names the columns.
	var header []string
	for i := 2; i <= nHeader; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("%s: truncated header (expected %d lines)", path, nHeader)
		}
		header = append(header, scanner.Text())
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("%s: header declares no column line", path)
	}
	columnsLine := header[len(header)-1]
	header = header[:len(header)-1]

	columns := splitFields(columnsLine)
	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: no columns declared", path)
	}

	t := &Table{Header: header, Columns: columns}
	lineNo := nHeader
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := splitFields(line)
		if len(fields) != len(columns) {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d",
				path, lineNo, len(columns), len(fields))
		}
		row := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid value %q: %w", path, lineNo, field, err)
			}
			if v == MissingFlag {
				v = math.NaN()
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// ColumnIndex returns the index of a named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column extracts one named column.
func (t *Table) Column(name string) ([]float64, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not present", name)
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Write emits the table to path, restoring the -9999 missing flag.
func Write(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	nHeader := len(t.Header) + 2 // count line + free lines + column line
	fmt.Fprintf(w, "%d, 1001\n", nHeader)
	for _, line := range t.Header {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, strings.Join(t.Columns, ","))

	for _, row := range t.Rows {
		for i, v := range row {
			if i > 0 {
				w.WriteByte(',')
			}
			if math.IsNaN(v) {
				w.WriteString("-9999")
			} else {
				w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func parseHeaderCount(line string) (int, error) {
	fields := splitFields(line)
	if len(fields) == 0 {
		return 0, fmt.Errorf("missing header count line")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 2 {
		return 0, fmt.Errorf("invalid header count %q", fields[0])
	}
	return n, nil
}

func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
