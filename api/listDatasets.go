package api

import (
	"context"
	"encoding/json"
	"net/http"
)

func listDatasets(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	datasets, err := GetServicer(ctx).ListDatasets(ctx)
	if err != nil {
		return err
	}

	return json.NewEncoder(w).Encode(datasets)
}
