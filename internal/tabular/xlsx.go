package tabular

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fatecdata/internal"
)

func ReadXLSX(r io.Reader, opts Options) (internal.RecordSet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return internal.RecordSet{}, err
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return internal.RecordSet{}, nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return internal.RecordSet{}, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return fromRows(rows)
}

func WriteXLSX(path string, set internal.RecordSet, opts WriteOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if opts.Sheet != "" && opts.Sheet != sheet {
		if err := f.SetSheetName(sheet, opts.Sheet); err != nil {
			return err
		}
		sheet = opts.Sheet
	}

	for i, h := range set.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, rec := range set.Records {
		for c, value := range toRow(set, rec) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if len(set.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(set.Columns), 1)
		if err := f.AutoFilter(sheet, "A1:"+last, nil); err != nil {
			return err
		}
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
