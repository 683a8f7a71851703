package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SierraSoftworks/connor"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flotilladb/flotilla/gologger"
	"github.com/flotilladb/flotilla/store"
	"github.com/flotilladb/flotilla/tabular"
	"github.com/flotilladb/flotilla/utils"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrInvalidInput    = errors.New("invalid input")
)

var (
	vehiclesKey = store.Key{Dataset: "fleet", Table: "vehicles"}
	costsKey    = store.Key{Dataset: "costs", Table: "parameters"}
	auditKey    = store.Key{Dataset: "audit", Table: "events"}
)

type Service struct {
	engine   *store.Engine
	validate *validator.Validate
	log      zerolog.Logger
}

func NewService(engine *store.Engine) *Service {
	return &Service{
		engine:   engine,
		validate: validator.New(),
		log:      gologger.NewLogger().With().Str("component", "service").Logger(),
	}
}

// Setup creates the fleet datasets that do not exist yet.
func (s *Service) Setup(ctx context.Context) error {

	bootstrap := []struct {
		key    store.Key
		schema tabular.Schema
	}{
		{vehiclesKey, vehicleSchema},
		{costsKey, costParameterSchema},
		{auditKey, auditSchema},
	}

	for _, b := range bootstrap {
		_, err := s.engine.Read(ctx, b.key)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		err = s.engine.Write(ctx, b.key, &tabular.Table{
			Name:   b.key.Table,
			Schema: b.schema,
			Rows:   []tabular.Row{},
		})
		if err != nil {
			return err
		}
		s.log.Info().Str("dataset", b.key.Dataset).Str("table", b.key.Table).Msg("created dataset table")
	}

	return nil
}

func (s *Service) RegisterVehicle(ctx context.Context, vehicle *Vehicle) (*Vehicle, error) {

	if vehicle.Status == "" {
		vehicle.Status = "active"
	}
	err := s.validate.Struct(vehicle)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	row, err := s.engine.Append(ctx, vehiclesKey, vehicle.input())
	if err != nil {
		return nil, err
	}

	s.audit(ctx, "register_vehicle", vehiclesKey, vehicle.ID)

	return rowToVehicle(row), nil
}

func (s *Service) GetVehicle(ctx context.Context, id string) (*Vehicle, error) {

	table, err := s.engine.Read(ctx, vehiclesKey)
	if err != nil {
		return nil, err
	}

	i := table.FindRow(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrVehicleNotFound, id)
	}

	return rowToVehicle(table.Rows[i]), nil
}

// ListVehicles returns all vehicles matching filter, in insertion order. An
// empty filter matches everything.
func (s *Service) ListVehicles(ctx context.Context, filter map[string]any) ([]*Vehicle, error) {

	table, err := s.engine.Read(ctx, vehiclesKey)
	if err != nil {
		return nil, err
	}

	hasFilter := len(filter) > 0

	vehicles := []*Vehicle{}
	for _, row := range table.Rows {
		vehicle := rowToVehicle(row)

		if hasFilter {
			rowData := map[string]interface{}{}
			err = utils.Remarshal(vehicle, &rowData)
			if err != nil {
				return nil, err
			}
			match, err := connor.Match(filter, rowData)
			if err != nil {
				return nil, fmt.Errorf("match: %w", err)
			}
			if !match {
				continue
			}
		}

		vehicles = append(vehicles, vehicle)
	}

	return vehicles, nil
}

func (s *Service) PatchVehicle(ctx context.Context, id string, patch map[string]any) (*Vehicle, error) {

	row, err := s.engine.Update(ctx, vehiclesKey, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: '%s'", ErrVehicleNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	s.audit(ctx, "patch_vehicle", vehiclesKey, id)

	return rowToVehicle(row), nil
}

func (s *Service) RemoveVehicle(ctx context.Context, id string) error {

	err := s.engine.Delete(ctx, vehiclesKey, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: '%s'", ErrVehicleNotFound, id)
	}
	if err != nil {
		return err
	}

	s.audit(ctx, "remove_vehicle", vehiclesKey, id)

	return nil
}

func (s *Service) ListCostParameters(ctx context.Context) ([]*CostParameter, error) {

	table, err := s.engine.Read(ctx, costsKey)
	if err != nil {
		return nil, err
	}

	parameters := []*CostParameter{}
	for _, row := range table.Rows {
		parameters = append(parameters, rowToCostParameter(row))
	}

	return parameters, nil
}

// SetCostParameter inserts the parameter or updates it when already present.
func (s *Service) SetCostParameter(ctx context.Context, parameter *CostParameter) (*CostParameter, error) {

	if parameter.UpdatedOn == "" {
		parameter.UpdatedOn = time.Now().UTC().Format(tabular.DateLayout)
	}
	err := s.validate.Struct(parameter)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	row, err := s.engine.Append(ctx, costsKey, parameter.input())
	if errors.Is(err, store.ErrDuplicateKey) {
		patch := parameter.input()
		delete(patch, "name")
		row, err = s.engine.Update(ctx, costsKey, parameter.Name, patch)
	}
	if err != nil {
		return nil, err
	}

	s.audit(ctx, "set_cost_parameter", costsKey, parameter.Name)

	return rowToCostParameter(row), nil
}

// ExportTable returns the complete table for report generation and download.
func (s *Service) ExportTable(ctx context.Context, dataset, table string) (*tabular.Table, error) {
	return s.engine.Read(ctx, store.Key{Dataset: dataset, Table: table})
}

// ImportTable persists a complete replacement table, the file-upload path.
func (s *Service) ImportTable(ctx context.Context, dataset string, table *tabular.Table) error {

	err := table.CoerceRows()
	if err != nil {
		return err
	}

	key := store.Key{Dataset: dataset, Table: table.Name}
	err = s.engine.Write(ctx, key, table)
	if err != nil {
		return err
	}

	s.audit(ctx, "import_table", key, "")

	return nil
}

// RestoreDataset is the explicit administrative recovery operation, invoked
// when a caller reports corruption after a format error.
func (s *Service) RestoreDataset(ctx context.Context, dataset string) error {

	err := s.engine.Restore(ctx, dataset)
	if err != nil {
		return err
	}

	s.audit(ctx, "restore_dataset", store.Key{Dataset: dataset}, "")

	return nil
}

func (s *Service) ListDatasets(ctx context.Context) ([]string, error) {
	return s.engine.Datasets()
}

// audit appends the event to the audit trail. Best effort: a failed audit
// write is logged, it never fails the operation it describes.
func (s *Service) audit(ctx context.Context, action string, key store.Key, rowKey string) {
	_, err := s.engine.Append(ctx, auditKey, map[string]any{
		"id":      uuid.New().String(),
		"action":  action,
		"dataset": key.Dataset,
		"table":   key.Table,
		"row_key": rowKey,
		"at":      time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("audit append failed")
	}
}
