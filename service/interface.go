package service

import (
	"context"

	"github.com/flotilladb/flotilla/tabular"
)

type Servicer interface {
	RegisterVehicle(ctx context.Context, vehicle *Vehicle) (*Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*Vehicle, error)
	ListVehicles(ctx context.Context, filter map[string]any) ([]*Vehicle, error)
	PatchVehicle(ctx context.Context, id string, patch map[string]any) (*Vehicle, error)
	RemoveVehicle(ctx context.Context, id string) error
	ListCostParameters(ctx context.Context) ([]*CostParameter, error)
	SetCostParameter(ctx context.Context, parameter *CostParameter) (*CostParameter, error)
	ExportTable(ctx context.Context, dataset, table string) (*tabular.Table, error)
	ImportTable(ctx context.Context, dataset string, table *tabular.Table) error
	RestoreDataset(ctx context.Context, dataset string) error
	ListDatasets(ctx context.Context) ([]string, error)
}
