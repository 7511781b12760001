// OceanPack - underway CO2 log reduction
//
// OceanPack converts the raw logs of an OceanPack underway CO2 system into
// time-indexed datasets and derives pCO2 and fCO2 from them.
package main

import (
	"os"

	"github.com/ccollicutt/oceanpack/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
