package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/flotilladb/flotilla/service"
)

func listCostParameters(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	parameters, err := GetServicer(ctx).ListCostParameters(ctx)
	if err != nil {
		return err
	}

	return json.NewEncoder(w).Encode(parameters)
}

func setCostParameter(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	parameter := &service.CostParameter{}
	err := json.NewDecoder(r.Body).Decode(parameter)
	if err != nil {
		return err
	}

	saved, err := GetServicer(ctx).SetCostParameter(ctx, parameter)
	if err != nil {
		return err
	}

	return json.NewEncoder(w).Encode(saved)
}
