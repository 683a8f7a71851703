package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func metrics(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	promhttp.Handler().ServeHTTP(w, r)
	return nil
}
