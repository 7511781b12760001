package export

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ccollicutt/oceanpack/pkg/dataset"
)

// SheetName is the worksheet holding the data.
const SheetName = "data"

// XLSXWriter writes a spreadsheet with a header row of variable names, a
// units row, then one row per timestamp. Missing values are empty cells.
type XLSXWriter struct {
	logger *zap.Logger
}

// Format returns the format name.
func (w *XLSXWriter) Format() string {
	return FormatXLSX
}

// Write writes ds atomically to path.
func (w *XLSXWriter) Write(ctx context.Context, ds *dataset.Dataset, path string) error {
	if ds.Len()+2 > excelize.TotalRows {
		return fmt.Errorf("dataset has %d rows, a sheet holds at most %d", ds.Len(), excelize.TotalRows-2)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}

	names := ds.Names()
	vars := make([]*dataset.Variable, len(names))
	header := []interface{}{"time"}
	unitRow := []interface{}{"UTC"}
	for i, name := range names {
		vars[i], _ = ds.Var(name)
		header = append(header, name)
		unitRow = append(unitRow, vars[i].Unit())
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	if err := sw.SetRow("A2", unitRow); err != nil {
		return err
	}

	for r, t := range ds.Time {
		if r%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		row := make([]interface{}, len(vars)+1)
		row[0] = t.UTC().Format(time.RFC3339Nano)
		for i, v := range vars {
			row[i+1] = cellValue(v, r)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+3)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	err = writeAtomic(path, func(out *os.File) error {
		return f.Write(out)
	})
	if err != nil {
		return err
	}
	w.logger.Info("wrote dataset",
		zap.String("path", path),
		zap.String("format", FormatXLSX),
		zap.Int("rows", ds.Len()),
		zap.Int("variables", len(names)))
	return nil
}

func cellValue(v *dataset.Variable, i int) interface{} {
	if v.IsText() {
		if v.Text[i] == "" {
			return nil
		}
		return v.Text[i]
	}
	if math.IsNaN(v.Data[i]) || math.IsInf(v.Data[i], 0) {
		return nil
	}
	return v.Data[i]
}
