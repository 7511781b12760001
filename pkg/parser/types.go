// Package parser reads OceanPack log files into time-indexed tables.
package parser

import "time"

// Reserved markers of the log file format.
const (
	MarkerName   = "@NAME"
	MarkerUnit   = "@UNIT"
	MarkerSensor = "@SENSOR"
	MarkerRate   = "@RATE"
	MarkerStream = "@STREAM"

	// DefaultDataMarker is the row-type value of a data line.
	DefaultDataMarker = "DATA"

	// MaxHeaderLines bounds the header search.
	MaxHeaderLines = 15
)

const (
	columnDate = "DATE"
	columnTime = "TIME"
)

// LogHeader describes the columns of a log file.
type LogHeader struct {
	// Names are the column names with "/" replaced by "_".
	Names []string
	// RawNames are the column names as written in the file.
	RawNames []string
	// Units is parallel to Names.
	Units []string
	// Sensors is parallel to Names.
	Sensors []string
	// RowOffset is the number of lines preceding the data region.
	RowOffset int
	// DataMarker is the row marker declared by a @STREAM line, if any.
	DataMarker string
}

// Has reports whether the header declares the named column.
func (h *LogHeader) Has(name string) bool {
	return h.index(name) >= 0
}

func (h *LogHeader) index(name string) int {
	for i, n := range h.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// ColumnMeta is one row of the metadata table returned by a reader.
type ColumnMeta struct {
	Name     string
	LongName string
	Unit     string
	Device   string
}

// Table is the raw content of one or more log files.
// Rows[i] holds the fields of Columns at Index[i]; a zero Index entry is a
// timestamp that could not be parsed.
type Table struct {
	// Source is the file the table was read from (empty for merged tables).
	Source string
	// Header is nil when the file had no header within MaxHeaderLines.
	Header  *LogHeader
	Index   []time.Time
	Columns []string
	Rows    [][]string
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Index)
}

// Column returns the position of a column or -1.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
