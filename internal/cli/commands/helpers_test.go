package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const analyzerHeader = "@SENSOR,,,ANALYZER,ANALYZER,ANALYZER,ANALYZER,SBE45,SBE45,GPS,GPS,ANALYZER\n" +
	"@NAME,DATE,TIME,CO2,CellPress,DPressInt,waterTemp,SBE45Temp,SBE45Cond,Latitude,Longitude,STATUS\n" +
	"@UNIT,,,ppm,hPa,hPa,degC,degC,mS/cm,DDMM.MMMM,DDMM.MMMM,\n" +
	"@RATE,60\n"

// fixtureStatus puts the analyzer in a non-operating phase at minutes 3 and 4.
var fixtureStatus = []int{5, 5, 5, 1, 1, 5, 5, 5, 5, 5}

// analyzerLog returns a log with one row per minute from 10:00 and every
// channel the processing stages use.
func analyzerLog() string {
	var b strings.Builder
	b.WriteString(analyzerHeader)
	for i, st := range fixtureStatus {
		fmt.Fprintf(&b, "DATA,2024-01-15,10:%02d:00,400.0,1013.25,0.0,20.0,25.0,52.0,4623.4231,-1230.0,%d\n", i, st)
	}
	return b.String()
}

// netdiLog returns a position log offset by 20s from analyzerLog.
func netdiLog() string {
	var b strings.Builder
	b.WriteString("@SENSOR,,,NetDI,NetDI,NetDI\n" +
		"@NAME,DATE,TIME,Speed,Course,AIN1_V\n" +
		"@UNIT,,,kn,deg,V\n" +
		"@RATE,60\n")
	for i := range fixtureStatus {
		fmt.Fprintf(&b, "DATA,2024-01-15,10:%02d:20,10.5,270,%d.5\n", i, i)
	}
	return b.String()
}

func writeFixture(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// run executes cmd with args and returns its output. ExitCode is reset first.
func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// convertFixture converts analyzerLog into dir/raw.opds.
func convertFixture(t *testing.T, dir string) string {
	t.Helper()
	writeFixture(t, filepath.Join(dir, "logs", "2024-01-15.log"), analyzerLog())
	out := filepath.Join(dir, "raw.opds")
	_, err := run(t, NewConvertCommand(&Globals{}), filepath.Join(dir, "logs"), "-o", out)
	require.NoError(t, err)
	return out
}
