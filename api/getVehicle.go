package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"
)

func getVehicle(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	id := box.GetUrlParameter(ctx, "vehicleId")

	vehicle, err := GetServicer(ctx).GetVehicle(ctx, id)
	if err != nil {
		return err
	}

	return json.NewEncoder(w).Encode(vehicle)
}
