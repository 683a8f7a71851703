package service

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/fulldump/biff"

	"github.com/flotilladb/flotilla/store"
	"github.com/flotilladb/flotilla/tabular"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	engine, err := store.NewEngine(&store.Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	s := NewService(engine)
	if err := s.Setup(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

func testVehicle(id string) *Vehicle {
	return &Vehicle{
		ID:         id,
		Make:       "Ford",
		Model:      "Transit",
		Year:       2020,
		Mileage:    42000,
		Status:     "active",
		AcquiredOn: "2020-03-15",
	}
}

func TestRegisterAndGetVehicle(t *testing.T) {

	s := newTestService(t)
	ctx := context.Background()

	registered, err := s.RegisterVehicle(ctx, testVehicle("V-100"))
	AssertNil(err)
	AssertEqual(registered.ID, "V-100")
	AssertEqual(registered.Status, "active")
	AssertEqual(registered.AcquiredOn, "2020-03-15")

	vehicle, err := s.GetVehicle(ctx, "V-100")
	AssertNil(err)
	AssertEqual(vehicle, registered)

	_, err = s.GetVehicle(ctx, "V-404")
	AssertEqual(errors.Is(err, ErrVehicleNotFound), true)
}

func TestRegisterVehicleDefaultsStatus(t *testing.T) {

	s := newTestService(t)

	vehicle := testVehicle("V-100")
	vehicle.Status = ""

	registered, err := s.RegisterVehicle(context.Background(), vehicle)
	AssertNil(err)
	AssertEqual(registered.Status, "active")
}

func TestRegisterVehicleValidation(t *testing.T) {

	s := newTestService(t)
	ctx := context.Background()

	missingMake := testVehicle("V-100")
	missingMake.Make = ""
	_, err := s.RegisterVehicle(ctx, missingMake)
	AssertEqual(errors.Is(err, ErrInvalidInput), true)

	badStatus := testVehicle("V-101")
	badStatus.Status = "scrapped"
	_, err = s.RegisterVehicle(ctx, badStatus)
	AssertEqual(errors.Is(err, ErrInvalidInput), true)

	badDate := testVehicle("V-102")
	badDate.AcquiredOn = "15/03/2020"
	_, err = s.RegisterVehicle(ctx, badDate)
	AssertEqual(errors.Is(err, ErrInvalidInput), true)

	vehicles, err := s.ListVehicles(ctx, nil)
	AssertNil(err)
	AssertEqual(len(vehicles), 0)
}

func TestRegisterVehicleDuplicate(t *testing.T) {

	s := newTestService(t)
	ctx := context.Background()

	_, err := s.RegisterVehicle(ctx, testVehicle("V-100"))
	AssertNil(err)

	_, err = s.RegisterVehicle(ctx, testVehicle("V-100"))
	AssertEqual(errors.Is(err, store.ErrDuplicateKey), true)
}

func TestListVehiclesFilter(t *testing.T) {

	s := newTestService(t)
	ctx := context.Background()

	ford := testVehicle("V-100")
	toyota := testVehicle("V-101")
	toyota.Make = "Toyota"
	retired := testVehicle("V-102")
	retired.Status = "retired"

	for _, v := range []*Vehicle{ford, toyota, retired} {
		_, err := s.RegisterVehicle(ctx, v)
		AssertNil(err)
	}

	all, err := s.ListVehicles(ctx, nil)
	AssertNil(err)
	AssertEqual(len(all), 3)
	AssertEqual(all[0].ID, "V-100") // insertion order

	active, err := s.ListVehicles(ctx, map[string]any{"status": "active"})
	AssertNil(err)
	AssertEqual(len(active), 2)

	toyotas, err := s.ListVehicles(ctx, map[string]any{"make": "Toyota"})
	AssertNil(err)
	AssertEqual(len(toyotas), 1)
	AssertEqual(toyotas[0].ID, "V-101")

	none, err := s.ListVehicles(ctx, map[string]any{"make": "Fiat"})
	AssertNil(err)
	AssertEqual(len(none), 0)
}

func TestPatchVehicle(t *testing.T) {

	s := newTestService(t)
	ctx := context.Background()

	_, err := s.RegisterVehicle(ctx, testVehicle("V-100"))
	AssertNil(err)

	patched, err := s.PatchVehicle(ctx, "V-100", map[string]any{
		"mileage": 50000,
		"status":  "maintenance",
	})
	AssertNil(err)
	AssertEqual(patched.Mileage, int64(50000))
	AssertEqual(patched.Status, "maintenance")
	AssertEqual(patched.Make, "Ford")

	_, err = s.PatchVehicle(ctx, "V-404", map[string]any{"mileage": 1})
	AssertEqual(errors.Is(err, ErrVehicleNotFound), true)
}

func TestRemoveVehicle(t *testing.T) {

	s := newTestService(t)
	ctx := context.Background()

	_, err := s.RegisterVehicle(ctx, testVehicle("V-100"))
	AssertNil(err)

	AssertNil(s.RemoveVehicle(ctx, "V-100"))

	err = s.RemoveVehicle(ctx, "V-100")
	AssertEqual(errors.Is(err, ErrVehicleNotFound), true)

	_, err = s.GetVehicle(ctx, "V-100")
	AssertEqual(errors.Is(err, ErrVehicleNotFound), true)
}

func TestSetCostParameterUpsert(t *testing.T) {

	s := newTestService(t)
	ctx := context.Background()

	created, err := s.SetCostParameter(ctx, &CostParameter{
		Name:  "fuel_price",
		Value: 1.62,
		Unit:  "eur/l",
	})
	AssertNil(err)
	AssertEqual(created.Value, 1.62)
	AssertEqual(created.UpdatedOn, time.Now().UTC().Format(tabular.DateLayout))

	updated, err := s.SetCostParameter(ctx, &CostParameter{
		Name:      "fuel_price",
		Value:     1.7,
		Unit:      "eur/l",
		UpdatedOn: "2026-01-31",
	})
	AssertNil(err)
	AssertEqual(updated.Value, 1.7)
	AssertEqual(updated.UpdatedOn, "2026-01-31")

	parameters, err := s.ListCostParameters(ctx)
	AssertNil(err)
	AssertEqual(len(parameters), 1)
	AssertEqual(parameters[0].Value, 1.7)
}

func TestSetCostParameterValidation(t *testing.T) {

	s := newTestService(t)

	_, err := s.SetCostParameter(context.Background(), &CostParameter{
		Name: "fuel_price",
	})
	AssertEqual(errors.Is(err, ErrInvalidInput), true)
}

func TestExportImportTable(t *testing.T) {

	s := newTestService(t)
	ctx := context.Background()

	_, err := s.RegisterVehicle(ctx, testVehicle("V-100"))
	AssertNil(err)

	exported, err := s.ExportTable(ctx, "fleet", "vehicles")
	AssertNil(err)
	AssertEqual(len(exported.Rows), 1)

	// mimic a JSON upload: integers arrive as float64, dates as strings
	exported.Rows = append(exported.Rows, tabular.Row{
		"id":          "V-101",
		"make":        "Toyota",
		"model":       "Hilux",
		"year":        float64(2018),
		"mileage":     float64(90000),
		"status":      "active",
		"acquired_on": "2018-06-01",
	})
	AssertNil(s.ImportTable(ctx, "fleet", exported))

	vehicles, err := s.ListVehicles(ctx, nil)
	AssertNil(err)
	AssertEqual(len(vehicles), 2)
	AssertEqual(vehicles[1].Year, int64(2018))
}

func TestImportTableRejectsBadRows(t *testing.T) {

	s := newTestService(t)
	ctx := context.Background()

	table := &tabular.Table{
		Name: "vehicles",
		Schema: tabular.Schema{
			Columns: []tabular.Column{
				{Name: "id", Kind: tabular.KindText},
				{Name: "year", Kind: tabular.KindInteger},
			},
		},
		Rows: []tabular.Row{
			{"id": "V-100", "year": "twenty-twenty"},
		},
	}

	err := s.ImportTable(ctx, "fleet", table)
	AssertEqual(errors.Is(err, tabular.ErrSchema), true)
}

func TestRestoreDataset(t *testing.T) {

	s := newTestService(t)
	ctx := context.Background()

	_, err := s.RegisterVehicle(ctx, testVehicle("V-100"))
	AssertNil(err)

	err = s.RestoreDataset(ctx, "fleet")
	AssertEqual(errors.Is(err, store.ErrNoSnapshot), true)
}

func TestListDatasets(t *testing.T) {

	s := newTestService(t)

	datasets, err := s.ListDatasets(context.Background())
	AssertNil(err)
	AssertEqual(datasets, []string{"audit", "costs", "fleet"})
}

func TestAuditTrail(t *testing.T) {

	s := newTestService(t)
	ctx := context.Background()

	_, err := s.RegisterVehicle(ctx, testVehicle("V-100"))
	AssertNil(err)
	_, err = s.PatchVehicle(ctx, "V-100", map[string]any{"mileage": 1000})
	AssertNil(err)
	AssertNil(s.RemoveVehicle(ctx, "V-100"))

	events, err := s.ExportTable(ctx, "audit", "events")
	AssertNil(err)
	AssertEqual(len(events.Rows), 3)
	AssertEqual(events.Rows[0]["action"], "register_vehicle")
	AssertEqual(events.Rows[1]["action"], "patch_vehicle")
	AssertEqual(events.Rows[2]["action"], "remove_vehicle")
	AssertEqual(events.Rows[0]["row_key"], "V-100")
}
