package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fulldump/box"
	"github.com/rs/zerolog"

	"github.com/flotilladb/flotilla/service"
	"github.com/flotilladb/flotilla/store"
	"github.com/flotilladb/flotilla/tabular"
)

func RecoverFromPanic(next box.H) box.H {
	return func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				debug.PrintStack()
				box.GetResponse(ctx).WriteHeader(http.StatusInternalServerError)
			}
		}()
		next(ctx)
	}
}

func AccessLog(l zerolog.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			now := time.Now()
			defer func() {
				l.Info().
					Str("remote", formatRemoteAddr(r)).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Dur("elapsed", time.Since(now)).
					Msg("access")
			}()

			next(ctx)
		}
	}
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	i := strings.LastIndex(r.RemoteAddr, ":")
	if i < 0 {
		return r.RemoteAddr
	}
	return r.RemoteAddr[0:i]
}

// PrettyErrorInterceptor maps the store error taxonomy to HTTP statuses and a
// consistent error body.
func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		switch {
		case errors.Is(err, store.ErrNotFound) || errors.Is(err, service.ErrVehicleNotFound):
			writeError(w, http.StatusNotFound, err, "resource not found")

		case errors.Is(err, store.ErrDuplicateKey):
			writeError(w, http.StatusConflict, err, "row key already exists, no mutation was applied")

		case errors.Is(err, tabular.ErrSchema) || errors.Is(err, service.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err, "input does not match the table schema")

		case errors.Is(err, tabular.ErrFormat):
			writeError(w, http.StatusInternalServerError, err, "on-disk table is unreadable; an operator may restore the dataset from its snapshot")

		case errors.Is(err, store.ErrLockTimeout):
			writeError(w, http.StatusServiceUnavailable, err, "table is busy, retry later")

		case errors.Is(err, store.ErrNoSnapshot):
			writeError(w, http.StatusConflict, err, "no snapshot is retained for this dataset")

		case errors.Is(err, box.ErrResourceNotFound):
			writeError(w, http.StatusNotFound, err, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String()))

		case errors.Is(err, box.ErrMethodNotAllowed):
			writeError(w, http.StatusMethodNotAllowed, err, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method))

		default:
			var syntaxError *json.SyntaxError
			if errors.As(err, &syntaxError) {
				writeError(w, http.StatusBadRequest, err, "malformed JSON")
				return
			}
			writeError(w, http.StatusInternalServerError, err, "unexpected error")
		}
	}
}

func writeError(w http.ResponseWriter, status int, err error, description string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"message":     err.Error(),
			"description": description,
		},
	})
}
