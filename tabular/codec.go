package tabular

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is the in-memory form of one dataset file: an ordered set of named
// tables, one per sheet.
type Workbook struct {
	Tables []*Table
}

func (w *Workbook) Table(name string) *Table {
	for _, t := range w.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Replace swaps the table with the same name, or appends it as a new sheet.
func (w *Workbook) Replace(t *Table) {
	for i, existing := range w.Tables {
		if existing.Name == t.Name {
			w.Tables[i] = t
			return
		}
	}
	w.Tables = append(w.Tables, t)
}

// Decode parses workbook bytes into tables. Any structural defect (not a
// workbook, missing header, unknown kind, bad cell) fails with ErrFormat so
// callers never observe partial data.
func Decode(b []byte) (*Workbook, error) {

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFormat, err.Error())
	}
	defer f.Close()

	workbook := &Workbook{}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet '%s': %s", ErrFormat, sheet, err.Error())
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: sheet '%s' has no header row", ErrFormat, sheet)
		}

		schema, err := parseHeader(sheet, rows[0])
		if err != nil {
			return nil, err
		}

		table := &Table{
			Name:   sheet,
			Schema: schema,
			Rows:   []Row{},
		}

		for i, cells := range rows[1:] {
			row := Row{}
			for j, column := range schema.Columns {
				cell := ""
				if j < len(cells) {
					cell = cells[j]
				}
				value, err := ParseCell(cell, column.Kind)
				if err != nil {
					return nil, fmt.Errorf("%w (sheet '%s', row %d, column '%s')", err, sheet, i+2, column.Name)
				}
				row[column.Name] = value
			}
			table.Rows = append(table.Rows, row)
		}

		workbook.Tables = append(workbook.Tables, table)
	}

	if len(workbook.Tables) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrFormat)
	}

	return workbook, nil
}

// Encode renders tables to workbook bytes. Encode(t) and Decode round-trip.
func Encode(workbook *Workbook) ([]byte, error) {

	if len(workbook.Tables) == 0 {
		return nil, fmt.Errorf("%w: workbook has no tables", ErrSchema)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, table := range workbook.Tables {
		err := table.Schema.Validate()
		if err != nil {
			return nil, err
		}

		if i == 0 {
			err = f.SetSheetName("Sheet1", table.Name)
		} else {
			_, err = f.NewSheet(table.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("create sheet '%s': %w", table.Name, err)
		}

		header := make([]any, len(table.Schema.Columns))
		for j, column := range table.Schema.Columns {
			header[j] = column.Name + ":" + column.Kind.String()
		}
		err = f.SetSheetRow(table.Name, "A1", &header)
		if err != nil {
			return nil, fmt.Errorf("write header of '%s': %w", table.Name, err)
		}

		for r, row := range table.Rows {
			cells := make([]any, len(table.Schema.Columns))
			for j, column := range table.Schema.Columns {
				value, exists := row[column.Name]
				if !exists {
					return nil, fmt.Errorf("%w: row %d is missing column '%s'", ErrSchema, r, column.Name)
				}
				cell, err := Format(value, column.Kind)
				if err != nil {
					return nil, fmt.Errorf("%w (row %d)", err, r)
				}
				cells[j] = cell
			}
			err = f.SetSheetRow(table.Name, fmt.Sprintf("A%d", r+2), &cells)
			if err != nil {
				return nil, fmt.Errorf("write row %d of '%s': %w", r, table.Name, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func parseHeader(sheet string, cells []string) (Schema, error) {

	schema := Schema{}

	for _, cell := range cells {
		name, kindName, found := strings.Cut(cell, ":")
		if !found || name == "" {
			return Schema{}, fmt.Errorf("%w: sheet '%s' header cell '%s' is not name:kind", ErrFormat, sheet, cell)
		}
		kind, err := ParseKind(kindName)
		if err != nil {
			return Schema{}, fmt.Errorf("%w: sheet '%s' header cell '%s': unknown kind", ErrFormat, sheet, cell)
		}
		schema.Columns = append(schema.Columns, Column{Name: name, Kind: kind})
	}

	err := schema.Validate()
	if err != nil {
		return Schema{}, fmt.Errorf("%w: sheet '%s': %s", ErrFormat, sheet, err.Error())
	}

	return schema, nil
}
