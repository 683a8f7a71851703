package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"
)

func removeVehicle(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	id := box.GetUrlParameter(ctx, "vehicleId")

	err := GetServicer(ctx).RemoveVehicle(ctx, id)
	if err != nil {
		return err
	}

	return json.NewEncoder(w).Encode(map[string]any{
		"removed": id,
	})
}
