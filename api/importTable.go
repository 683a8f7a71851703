package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fulldump/box"
	json2 "github.com/go-json-experiment/json"

	"github.com/flotilladb/flotilla/tabular"
)

// importTable replaces a whole table from an uploaded JSON body, the bulk
// import path.
func importTable(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	dataset := box.GetUrlParameter(ctx, "datasetName")
	tableName := box.GetUrlParameter(ctx, "tableName")

	table := &tabular.Table{}
	err := json2.UnmarshalRead(r.Body, table)
	if err != nil {
		return fmt.Errorf("%w: %s", tabular.ErrSchema, err.Error())
	}
	if table.Name == "" {
		table.Name = tableName
	}
	if table.Name != tableName {
		return fmt.Errorf("%w: body is table '%s', url says '%s'", tabular.ErrSchema, table.Name, tableName)
	}

	err = GetServicer(ctx).ImportTable(ctx, dataset, table)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusCreated)
	return json2.MarshalWrite(w, map[string]any{
		"dataset": dataset,
		"table":   tableName,
		"rows":    len(table.Rows),
	})
}
