package export

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/induparts/catalog/internal/domain"
)

// MatrixXLSX renders a built comparison matrix as a spreadsheet: one header
// row of product names, then one row per attribute with its labeled cells.
func MatrixXLSX(m *domain.CompareMatrix) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	if err := set(1, 1, "Attribute"); err != nil {
		return nil, err
	}
	for j, p := range m.Products {
		name := p.Name
		if p.Brand != "" {
			name = p.Brand + " " + p.Name
		}
		if err := set(j+2, 1, name); err != nil {
			return nil, err
		}
	}

	for i, row := range m.Attributes {
		name := row.Name
		if row.Group != "" {
			name = row.Group + " / " + row.Name
		}
		if err := set(1, i+2, name); err != nil {
			return nil, err
		}
		for j := range m.Products {
			if err := set(j+2, i+2, m.Products[j].Values[i].Label); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
