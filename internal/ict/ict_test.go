package ict

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ict")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadBasic(t *testing.T) {
	path := writeTemp(t, `4, 1001
WISPER test file
units: s, ppmv
Start_UTC,h2o_tot2
36000,15000
36001,-9999
`)

	table, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Start_UTC", "h2o_tot2"}, table.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0][1] != 15000 {
		t.Errorf("row 0 h2o = %v, want 15000", table.Rows[0][1])
	}
	if !math.IsNaN(table.Rows[1][1]) {
		t.Errorf("missing flag should read as NaN, got %v", table.Rows[1][1])
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"bad count", "x, 1001\nStart_UTC\n"},
		{"truncated header", "5, 1001\nonly one line\n"},
		{"ragged row", "2, 1001\na,b\n1,2\n3\n"},
		{"non numeric", "2, 1001\na,b\n1,oops\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(writeTemp(t, tt.content)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	orig := &Table{
		Header:  []string{"WISPER calibrated data", "missing: -9999"},
		Columns: []string{"Start_UTC", "h2o_tot2", "dD_tot2"},
		Rows: [][]float64{
			{36000, 15234.5, -70.25},
			{36001, math.NaN(), math.NaN()},
		},
	}

	path := filepath.Join(t.TempDir(), "rt.ict")
	if err := Write(path, orig); err != nil {
		t.Fatal(err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(orig, got, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestColumn(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "b"},
		Rows:    [][]float64{{1, 2}, {3, 4}},
	}
	b, err := table.Column("b")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{2, 4}, b); diff != "" {
		t.Errorf("column mismatch (-want +got):\n%s", diff)
	}
	if _, err := table.Column("missing"); err == nil {
		t.Error("expected error for unknown column")
	}
}
