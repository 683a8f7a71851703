package api

import (
	"context"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"

	"github.com/flotilladb/flotilla/service"
	"github.com/flotilladb/flotilla/store"
)

func TestAcceptance(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		engine, err := store.NewEngine(&store.Config{
			Dir: t.TempDir(),
		})
		biff.AssertNil(err)

		s := service.NewService(engine)
		biff.AssertNil(s.Setup(context.Background()))

		b := Build(s, "test")
		b.WithInterceptors(
			RecoverFromPanic,
			PrettyErrorInterceptor,
		)

		api := apitest.NewWithHandler(b)

		service.Acceptance(a, func(method, path string) *apitest.Request {
			return api.Request(method, "/v1"+path)
		})

		a.Alternative("Version", func(a *biff.A) {
			resp := api.Request("GET", "/version").Do()

			biff.AssertEqualJson(resp.BodyJson(), map[string]any{"version": "test"})
		})
	})
}
