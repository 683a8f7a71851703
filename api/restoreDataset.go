package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"
)

// restoreDataset overwrites a dataset file with its retained pre-write
// snapshot. Administrative operation, to be invoked by an operator after a
// caller reported a suspected corruption.
func restoreDataset(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	dataset := box.GetUrlParameter(ctx, "datasetName")

	err := GetServicer(ctx).RestoreDataset(ctx, dataset)
	if err != nil {
		return err
	}

	return json.NewEncoder(w).Encode(map[string]any{
		"restored": dataset,
	})
}
