package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// listVehicles returns the fleet, optionally narrowed by a JSON filter in the
// `filter` query parameter, e.g. ?filter={"status":"active"}.
func listVehicles(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	filter := map[string]any{}
	if raw := r.URL.Query().Get("filter"); raw != "" {
		err := json.Unmarshal([]byte(raw), &filter)
		if err != nil {
			return fmt.Errorf("parse filter: %w", err)
		}
	}

	vehicles, err := GetServicer(ctx).ListVehicles(ctx, filter)
	if err != nil {
		return err
	}

	return json.NewEncoder(w).Encode(vehicles)
}
