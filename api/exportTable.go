package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	json2 "github.com/go-json-experiment/json"
)

// exportTable streams the full table as JSON, the report-generation and
// download path.
func exportTable(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	dataset := box.GetUrlParameter(ctx, "datasetName")
	tableName := box.GetUrlParameter(ctx, "tableName")

	table, err := GetServicer(ctx).ExportTable(ctx, dataset, tableName)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json2.MarshalWrite(w, table)
}
