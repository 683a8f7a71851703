package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"
)

func patchVehicle(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	id := box.GetUrlParameter(ctx, "vehicleId")

	patch := map[string]any{}
	err := json.NewDecoder(r.Body).Decode(&patch)
	if err != nil {
		return err
	}

	vehicle, err := GetServicer(ctx).PatchVehicle(ctx, id, patch)
	if err != nil {
		return err
	}

	return json.NewEncoder(w).Encode(vehicle)
}
