package tabular

import (
	"testing"
	"time"

	. "github.com/fulldump/biff"
)

func TestCoerceInteger(t *testing.T) {

	value, err := Coerce(float64(2020), KindInteger)
	AssertNil(err)
	AssertEqual(value, int64(2020))

	value, err = Coerce("2020", KindInteger)
	AssertNil(err)
	AssertEqual(value, int64(2020))

	_, err = Coerce(20.5, KindInteger)
	AssertNotNil(err)

	_, err = Coerce("twenty", KindInteger)
	AssertNotNil(err)
}

func TestCoerceDecimal(t *testing.T) {

	value, err := Coerce(int64(3), KindDecimal)
	AssertNil(err)
	AssertEqual(value, float64(3))

	value, err = Coerce("0.35", KindDecimal)
	AssertNil(err)
	AssertEqual(value, 0.35)
}

func TestCoerceDate(t *testing.T) {

	value, err := Coerce("2021-06-15", KindDate)
	AssertNil(err)
	AssertEqual(value, time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC))

	// RFC3339 inputs are accepted and truncated to the day.
	value, err = Coerce("2021-06-15T13:45:00Z", KindDate)
	AssertNil(err)
	AssertEqual(value, time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC))

	_, err = Coerce("junio 15", KindDate)
	AssertNotNil(err)
}

func TestCoerceBoolean(t *testing.T) {

	value, err := Coerce("true", KindBoolean)
	AssertNil(err)
	AssertEqual(value, true)

	_, err = Coerce("yes", KindBoolean)
	AssertNotNil(err)
}

func TestCoerceText(t *testing.T) {

	value, err := Coerce(float64(42), KindText)
	AssertNil(err)
	AssertEqual(value, "42")

	value, err = Coerce(true, KindText)
	AssertNil(err)
	AssertEqual(value, "true")
}

func TestCoerceEmptyString(t *testing.T) {

	value, err := Coerce("", KindInteger)
	AssertNil(err)
	AssertEqual(value, int64(0))

	value, err = Coerce("", KindDate)
	AssertNil(err)
	AssertEqual(value, time.Time{})
}

func TestFormatParseCellRoundTrip(t *testing.T) {

	cases := []struct {
		value any
		kind  Kind
	}{
		{"Ford", KindText},
		{int64(2020), KindInteger},
		{0.35, KindDecimal},
		{time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), KindDate},
		{time.Time{}, KindDate},
		{true, KindBoolean},
		{false, KindBoolean},
	}

	for _, c := range cases {
		cell, err := Format(c.value, c.kind)
		AssertNil(err)

		parsed, err := ParseCell(cell, c.kind)
		AssertNil(err)
		AssertEqual(parsed, c.value)
	}
}
