package simulate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// timestampLayout is sortable lexicographically.
const timestampLayout = "2006-01-02 15:04:05"

// WriteCSV serialises the dataset as a comma-delimited file with a header
// row. The dataset must be rounded first so file values match the declared
// two-decimal precision.
func (d *Dataset) WriteCSV(w io.Writer) error {
	if !d.rounded {
		return fmt.Errorf("dataset must be rounded before writing")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	cols := d.numericColumns()
	record := make([]string, 1+len(cols))
	for i := 0; i < d.Len(); i++ {
		record[0] = d.Timestamps[i].Format(timestampLayout)
		for c, col := range cols {
			record[c+1] = strconv.FormatFloat(col.values[i], 'f', 2, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile rounds the dataset and persists it at path.
func (d *Dataset) WriteFile(path string) error {
	d.Round()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := d.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
