package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"

	"github.com/flotilladb/flotilla/service"
)

func Build(s service.Servicer, version string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	v1.WithInterceptors(injectServicer(s))

	v1.Resource("/vehicles").
		WithActions(
			box.Get(listVehicles),
			box.Post(registerVehicle),
		)

	v1.Resource("/vehicles/{vehicleId}").
		WithActions(
			box.Get(getVehicle),
			box.ActionPost(patchVehicle),
			box.ActionPost(removeVehicle),
		)

	v1.Resource("/costs").
		WithActions(
			box.Get(listCostParameters),
			box.Post(setCostParameter),
		)

	v1.Resource("/datasets").
		WithActions(
			box.Get(listDatasets),
		)

	v1.Resource("/datasets/{datasetName}").
		WithActions(
			box.ActionPost(restoreDataset),
		)

	v1.Resource("/datasets/{datasetName}/tables/{tableName}").
		WithActions(
			box.Get(exportTable),
			box.ActionPost(importTable),
		)

	b.Resource("/metrics").
		WithActions(
			box.Get(metrics),
		)

	b.Resource("/version").
		WithActions(
			box.Get(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return json.NewEncoder(w).Encode(map[string]string{"version": version})
			}).WithName("version"),
		)

	return b
}

type servicerKey struct{}

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, servicerKey{}, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	s, _ := ctx.Value(servicerKey{}).(service.Servicer)
	return s
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(SetServicer(ctx, s))
		}
	}
}
