package tabular

import (
	"errors"
	"testing"
	"time"

	. "github.com/fulldump/biff"
	"github.com/xuri/excelize/v2"
)

func fleetTable() *Table {
	return &Table{
		Name: "vehicles",
		Schema: Schema{
			Columns: []Column{
				{Name: "id", Kind: KindText},
				{Name: "make", Kind: KindText},
				{Name: "year", Kind: KindInteger},
				{Name: "rate", Kind: KindDecimal},
				{Name: "acquired_on", Kind: KindDate},
				{Name: "active", Kind: KindBoolean},
			},
		},
		Rows: []Row{
			{
				"id":          "V-100",
				"make":        "Ford",
				"year":        int64(2020),
				"rate":        0.35,
				"acquired_on": time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC),
				"active":      true,
			},
			{
				"id":          "V-101",
				"make":        "Toyota",
				"year":        int64(2018),
				"rate":        0.4,
				"acquired_on": time.Time{},
				"active":      false,
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {

	workbook := &Workbook{Tables: []*Table{fleetTable()}}

	encoded, err := Encode(workbook)
	AssertNil(err)

	decoded, err := Decode(encoded)
	AssertNil(err)

	AssertEqual(len(decoded.Tables), 1)
	AssertEqual(decoded.Tables[0], workbook.Tables[0])
}

func TestRoundTripMultipleSheets(t *testing.T) {

	costs := &Table{
		Name: "parameters",
		Schema: Schema{
			Columns: []Column{
				{Name: "name", Kind: KindText},
				{Name: "value", Kind: KindDecimal},
			},
		},
		Rows: []Row{
			{"name": "fuel_price", "value": 1.82},
		},
	}
	workbook := &Workbook{Tables: []*Table{fleetTable(), costs}}

	encoded, err := Encode(workbook)
	AssertNil(err)

	decoded, err := Decode(encoded)
	AssertNil(err)

	AssertEqual(len(decoded.Tables), 2)
	AssertEqual(decoded.Tables[0].Name, "vehicles")
	AssertEqual(decoded.Tables[1].Name, "parameters")
	AssertEqual(decoded.Table("parameters"), costs)
}

func TestDecodeDeterministic(t *testing.T) {

	encoded, err := Encode(&Workbook{Tables: []*Table{fleetTable()}})
	AssertNil(err)

	first, err := Decode(encoded)
	AssertNil(err)
	second, err := Decode(encoded)
	AssertNil(err)

	AssertEqual(first, second)
}

func TestDecodeTruncated(t *testing.T) {

	encoded, err := Encode(&Workbook{Tables: []*Table{fleetTable()}})
	AssertNil(err)

	_, err = Decode(encoded[:len(encoded)/2])
	AssertNotNil(err)
	AssertEqual(errors.Is(err, ErrFormat), true)
}

func TestDecodeNotAWorkbook(t *testing.T) {

	_, err := Decode([]byte("this is not a workbook"))
	AssertNotNil(err)
	AssertEqual(errors.Is(err, ErrFormat), true)
}

func TestDecodeBadHeader(t *testing.T) {

	table := fleetTable()
	table.Schema.Columns[0].Name = "" // forces an invalid header cell
	_, err := Encode(&Workbook{Tables: []*Table{table}})
	AssertNotNil(err)
	AssertEqual(errors.Is(err, ErrSchema), true)
}

func TestDecodeBadCell(t *testing.T) {

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "vehicles")
	f.SetSheetRow("vehicles", "A1", &[]any{"id:text", "year:integer"})
	f.SetSheetRow("vehicles", "A2", &[]any{"V-100", "twenty-twenty"})
	buf, err := f.WriteToBuffer()
	AssertNil(err)

	_, err = Decode(buf.Bytes())
	AssertNotNil(err)
	AssertEqual(errors.Is(err, ErrFormat), true)
}

func TestDecodeUnknownKind(t *testing.T) {

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "vehicles")
	f.SetSheetRow("vehicles", "A1", &[]any{"id:text", "year:season"})
	buf, err := f.WriteToBuffer()
	AssertNil(err)

	_, err = Decode(buf.Bytes())
	AssertNotNil(err)
	AssertEqual(errors.Is(err, ErrFormat), true)
}

func TestReplace(t *testing.T) {

	workbook := &Workbook{Tables: []*Table{fleetTable()}}

	replacement := fleetTable()
	replacement.Rows = replacement.Rows[:1]
	workbook.Replace(replacement)

	AssertEqual(len(workbook.Tables), 1)
	AssertEqual(len(workbook.Table("vehicles").Rows), 1)

	other := &Table{
		Name:   "extras",
		Schema: Schema{Columns: []Column{{Name: "k", Kind: KindText}}},
	}
	workbook.Replace(other)
	AssertEqual(len(workbook.Tables), 2)
}
