package tabular

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrFormat = errors.New("workbook format invalid")
	ErrSchema = errors.New("schema mismatch")
)

type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindDecimal
	KindDate
	KindBoolean
)

var kindNames = map[Kind]string{
	KindText:    "text",
	KindInteger: "integer",
	KindDecimal: "decimal",
	KindDate:    "date",
	KindBoolean: "boolean",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return name
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown column kind '%s'", ErrSchema, s)
}

func (k Kind) MarshalJSON() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("%w: unknown column kind %d", ErrSchema, int(k))
	}
	return json.Marshal(name)
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	var name string
	err := json.Unmarshal(b, &name)
	if err != nil {
		return err
	}
	kind, err := ParseKind(name)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Schema is an ordered set of typed columns. The first column is the row key.
type Schema struct {
	Columns []Column `json:"columns"`
}

func (s Schema) Key() string {
	if len(s.Columns) == 0 {
		return ""
	}
	return s.Columns[0].Name
}

func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (s Schema) Equal(other Schema) bool {
	if len(s.Columns) != len(other.Columns) {
		return false
	}
	for i, c := range s.Columns {
		if c != other.Columns[i] {
			return false
		}
	}
	return true
}

func (s Schema) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("%w: schema has no columns", ErrSchema)
	}
	seen := map[string]bool{}
	for _, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("%w: empty column name", ErrSchema)
		}
		if _, ok := kindNames[c.Kind]; !ok {
			return fmt.Errorf("%w: column '%s' has unknown kind", ErrSchema, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicated column '%s'", ErrSchema, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// Row maps column names to typed values: string, int64, float64, time.Time
// or bool, matching the column kind.
type Row map[string]any

// Table is a named, schema-bound, insertion-ordered sequence of rows.
type Table struct {
	Name   string `json:"name"`
	Schema Schema `json:"schema"`
	Rows   []Row  `json:"rows"`
}

func (t *Table) Clone() *Table {
	clone := &Table{
		Name:   t.Name,
		Schema: Schema{Columns: append([]Column{}, t.Schema.Columns...)},
		Rows:   make([]Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		r := Row{}
		for k, v := range row {
			r[k] = v
		}
		clone.Rows = append(clone.Rows, r)
	}
	return clone
}

// KeyOf returns the canonical string form of a row's key cell.
func (t *Table) KeyOf(row Row) (string, error) {
	column := t.Schema.Columns[0]
	value, exists := row[column.Name]
	if !exists {
		return "", fmt.Errorf("%w: missing key column '%s'", ErrSchema, column.Name)
	}
	return Format(value, column.Kind)
}

// FindRow returns the position of the row whose key cell formats to key, or -1.
func (t *Table) FindRow(key string) int {
	for i, row := range t.Rows {
		rowKey, err := t.KeyOf(row)
		if err != nil {
			continue
		}
		if rowKey == key {
			return i
		}
	}
	return -1
}

// CoerceRows rewrites every cell into its canonical typed value; used after
// unmarshalling a table from JSON, where numbers arrive as float64 and dates
// as strings.
func (t *Table) CoerceRows() error {
	err := t.Schema.Validate()
	if err != nil {
		return err
	}
	for i, row := range t.Rows {
		for _, c := range t.Schema.Columns {
			value, exists := row[c.Name]
			if !exists {
				return fmt.Errorf("%w: row %d is missing column '%s'", ErrSchema, i, c.Name)
			}
			coerced, err := Coerce(value, c.Kind)
			if err != nil {
				return fmt.Errorf("%w (row %d, column '%s')", err, i, c.Name)
			}
			row[c.Name] = coerced
		}
	}
	return nil
}

// Validate checks schema well-formedness, row shape and row key uniqueness.
func (t *Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: table has no name", ErrSchema)
	}
	err := t.Schema.Validate()
	if err != nil {
		return err
	}

	keys := map[string]bool{}
	for i, row := range t.Rows {
		if len(row) != len(t.Schema.Columns) {
			return fmt.Errorf("%w: row %d has %d cells, schema has %d columns", ErrSchema, i, len(row), len(t.Schema.Columns))
		}
		for _, c := range t.Schema.Columns {
			value, exists := row[c.Name]
			if !exists {
				return fmt.Errorf("%w: row %d is missing column '%s'", ErrSchema, i, c.Name)
			}
			if !kindMatches(value, c.Kind) {
				return fmt.Errorf("%w: row %d column '%s' is not a %s", ErrSchema, i, c.Name, c.Kind)
			}
		}
		key, err := t.KeyOf(row)
		if err != nil {
			return err
		}
		if keys[key] {
			return fmt.Errorf("%w: duplicated row key '%s'", ErrSchema, key)
		}
		keys[key] = true
	}

	return nil
}
