package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ErrNoHeader is returned when no @RATE line appears within MaxHeaderLines
// or the header declares no columns.
var ErrNoHeader = errors.New("no header found")

// ReadHeader scans the header section of a log file. On success the reader
// is positioned at the first line of the data region.
func ReadHeader(r *bufio.Reader) (*LogHeader, error) {
	h := &LogHeader{}
	for lines := 1; lines <= MaxHeaderLines; lines++ {
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case strings.HasPrefix(line, MarkerRate):
			h.RowOffset = lines
			if len(h.Names) == 0 {
				return nil, ErrNoHeader
			}
			h.Units = fitFields(h.Units, len(h.Names))
			h.Sensors = fitFields(h.Sensors, len(h.Names))
			return h, nil
		case strings.HasPrefix(line, MarkerName):
			h.RawNames = trimTrailingEmpty(splitFields(line))
			h.Names = make([]string, len(h.RawNames))
			for i, n := range h.RawNames {
				h.Names[i] = strings.ReplaceAll(n, "/", "_")
			}
		case strings.HasPrefix(line, MarkerUnit):
			h.Units = splitFields(line)
		case strings.HasPrefix(line, MarkerSensor):
			h.Sensors = splitFields(line)
		case strings.HasPrefix(line, MarkerStream):
			fields := splitFields(line)
			if len(fields) > 1 && fields[1] != "" {
				h.DataMarker = fields[1]
			} else {
				h.DataMarker = DefaultDataMarker
			}
		}

		if err == io.EOF {
			break
		}
	}
	return nil, ErrNoHeader
}

// ReadHeaderFile reads only the header of the file at path.
func ReadHeaderFile(path string) (*LogHeader, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	return ReadHeader(newLogReader(f))
}

// newLogReader decodes the Windows-1252 text the instrument writes.
func newLogReader(r io.Reader) *bufio.Reader {
	return bufio.NewReader(charmap.Windows1252.NewDecoder().Reader(r))
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// trimTrailingEmpty drops the empty names produced by a trailing delimiter.
func trimTrailingEmpty(fields []string) []string {
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

func fitFields(fields []string, n int) []string {
	out := make([]string, n)
	copy(out, fields)
	return out
}
