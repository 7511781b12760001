package parser

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleHeader = "OceanPack log\r\n" +
	"@SENSOR,,,ANALYZER,ANALYZER,SBE45,GPS\r\n" +
	"@NAME,DATE,TIME,CO2,CellPress,SBE45Temp,Lat/Lon,\r\n" +
	"@UNIT,,,ppm,hPa,\xb0C,deg\r\n" +
	"@RATE,1\r\n" +
	"DATA,2024-01-15,10:00:00,410.2,1013.1,12.5,5412.3\r\n"

func TestReadHeader(t *testing.T) {
	r := newLogReader(strings.NewReader(sampleHeader))

	h, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}

	wantNames := []string{"@NAME", "DATE", "TIME", "CO2", "CellPress", "SBE45Temp", "Lat_Lon"}
	if diff := cmp.Diff(wantNames, h.Names); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
	if h.RawNames[6] != "Lat/Lon" {
		t.Errorf("RawNames[6] = %q, want %q", h.RawNames[6], "Lat/Lon")
	}
	if len(h.Units) != len(h.Names) || len(h.Sensors) != len(h.Names) {
		t.Errorf("len(Units)=%d len(Sensors)=%d, want %d", len(h.Units), len(h.Sensors), len(h.Names))
	}
	if h.Units[5] != "°C" {
		t.Errorf("Units[5] = %q, want °C (Windows-1252 decoding)", h.Units[5])
	}
	if h.Sensors[3] != "ANALYZER" {
		t.Errorf("Sensors[3] = %q, want ANALYZER", h.Sensors[3])
	}
	if h.RowOffset != 5 {
		t.Errorf("RowOffset = %d, want 5", h.RowOffset)
	}

	// The reader must be positioned at the data region.
	line, _ := r.ReadString('\n')
	if !strings.HasPrefix(line, "DATA,") {
		t.Errorf("next line = %q, want data line", line)
	}
}

func TestReadHeader_NotFound(t *testing.T) {
	var b strings.Builder
	b.WriteString("@NAME,DATE,TIME,CO2\n")
	for i := 0; i < MaxHeaderLines; i++ {
		b.WriteString("comment line\n")
	}
	b.WriteString("@RATE,1\n")

	_, err := ReadHeader(bufio.NewReader(strings.NewReader(b.String())))
	if !errors.Is(err, ErrNoHeader) {
		t.Errorf("ReadHeader() error = %v, want ErrNoHeader", err)
	}
}

func TestReadHeader_Variants(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantErr    error
		wantMarker string
	}{
		{
			name:    "empty input",
			content: "",
			wantErr: ErrNoHeader,
		},
		{
			name:    "rate without names",
			content: "@UNIT,,,ppm\n@RATE,1\n",
			wantErr: ErrNoHeader,
		},
		{
			name:    "rate on last line without newline",
			content: "@NAME,DATE,TIME,CO2\n@RATE,1",
		},
		{
			name:       "stream marker",
			content:    "@STREAM,GPS\n@NAME,DATE,TIME,Latitude\n@RATE,1\n",
			wantMarker: "GPS",
		},
		{
			name:       "stream marker without value",
			content:    "@STREAM\n@NAME,DATE,TIME,Latitude\n@RATE,1\n",
			wantMarker: DefaultDataMarker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ReadHeader(bufio.NewReader(strings.NewReader(tt.content)))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ReadHeader() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadHeader() error = %v", err)
			}
			if h.DataMarker != tt.wantMarker {
				t.Errorf("DataMarker = %q, want %q", h.DataMarker, tt.wantMarker)
			}
		})
	}
}
