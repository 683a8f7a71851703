package service

import (
	"time"

	"github.com/flotilladb/flotilla/tabular"
)

type Vehicle struct {
	ID         string `json:"id" validate:"required"`
	Make       string `json:"make" validate:"required"`
	Model      string `json:"model" validate:"required"`
	Year       int64  `json:"year" validate:"gte=1900,lte=2100"`
	Mileage    int64  `json:"mileage" validate:"gte=0"`
	Status     string `json:"status" validate:"oneof=active maintenance retired"`
	AcquiredOn string `json:"acquired_on" validate:"omitempty,datetime=2006-01-02"`
}

var vehicleSchema = tabular.Schema{
	Columns: []tabular.Column{
		{Name: "id", Kind: tabular.KindText},
		{Name: "make", Kind: tabular.KindText},
		{Name: "model", Kind: tabular.KindText},
		{Name: "year", Kind: tabular.KindInteger},
		{Name: "mileage", Kind: tabular.KindInteger},
		{Name: "status", Kind: tabular.KindText},
		{Name: "acquired_on", Kind: tabular.KindDate},
	},
}

func (v *Vehicle) input() map[string]any {
	return map[string]any{
		"id":          v.ID,
		"make":        v.Make,
		"model":       v.Model,
		"year":        v.Year,
		"mileage":     v.Mileage,
		"status":      v.Status,
		"acquired_on": v.AcquiredOn,
	}
}

func rowToVehicle(row tabular.Row) *Vehicle {
	v := &Vehicle{}
	v.ID, _ = row["id"].(string)
	v.Make, _ = row["make"].(string)
	v.Model, _ = row["model"].(string)
	v.Year, _ = row["year"].(int64)
	v.Mileage, _ = row["mileage"].(int64)
	v.Status, _ = row["status"].(string)
	if t, ok := row["acquired_on"].(time.Time); ok && !t.IsZero() {
		v.AcquiredOn = t.Format(tabular.DateLayout)
	}
	return v
}

type CostParameter struct {
	Name      string  `json:"name" validate:"required"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit" validate:"required"`
	UpdatedOn string  `json:"updated_on" validate:"omitempty,datetime=2006-01-02"`
}

var costParameterSchema = tabular.Schema{
	Columns: []tabular.Column{
		{Name: "name", Kind: tabular.KindText},
		{Name: "value", Kind: tabular.KindDecimal},
		{Name: "unit", Kind: tabular.KindText},
		{Name: "updated_on", Kind: tabular.KindDate},
	},
}

func (p *CostParameter) input() map[string]any {
	return map[string]any{
		"name":       p.Name,
		"value":      p.Value,
		"unit":       p.Unit,
		"updated_on": p.UpdatedOn,
	}
}

func rowToCostParameter(row tabular.Row) *CostParameter {
	p := &CostParameter{}
	p.Name, _ = row["name"].(string)
	p.Value, _ = row["value"].(float64)
	p.Unit, _ = row["unit"].(string)
	if t, ok := row["updated_on"].(time.Time); ok && !t.IsZero() {
		p.UpdatedOn = t.Format(tabular.DateLayout)
	}
	return p
}

var auditSchema = tabular.Schema{
	Columns: []tabular.Column{
		{Name: "id", Kind: tabular.KindText},
		{Name: "action", Kind: tabular.KindText},
		{Name: "dataset", Kind: tabular.KindText},
		{Name: "table", Kind: tabular.KindText},
		{Name: "row_key", Kind: tabular.KindText},
		{Name: "at", Kind: tabular.KindText},
	},
}
