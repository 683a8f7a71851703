package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/flotilladb/flotilla/service"
)

func registerVehicle(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	vehicle := &service.Vehicle{}
	err := json.NewDecoder(r.Body).Decode(vehicle)
	if err != nil {
		return err
	}

	created, err := GetServicer(ctx).RegisterVehicle(ctx, vehicle)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(created)
}
