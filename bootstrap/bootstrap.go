package bootstrap

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fulldump/box"

	"github.com/flotilladb/flotilla/api"
	"github.com/flotilladb/flotilla/configuration"
	"github.com/flotilladb/flotilla/gologger"
	"github.com/flotilladb/flotilla/service"
	"github.com/flotilladb/flotilla/store"
)

var VERSION = "dev"

func Bootstrap(c *configuration.Configuration) (start, stop func()) {

	log := gologger.NewLogger()

	lockTimeout, err := time.ParseDuration(c.LockTimeout)
	if err != nil {
		log.Fatal().Err(err).Str("value", c.LockTimeout).Msg("invalid lock timeout")
	}

	engine, err := store.NewEngine(&store.Config{
		Dir:          c.Dir,
		LockTimeout:  lockTimeout,
		CacheEntries: c.CacheEntries,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("open storage engine")
	}

	s := service.NewService(engine)
	err = s.Setup(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("setup fleet datasets")
	}

	b := api.Build(s, VERSION)
	b.WithInterceptors(
		api.AccessLog(log),
		api.RecoverFromPanic,
		api.PrettyErrorInterceptor,
	)

	server := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", c.HttpAddr).Msg("listen")
	}
	log.Info().Str("addr", c.HttpAddr).Msg("listening")

	stop = func() {
		engine.Stop()
		server.Shutdown(context.Background())
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for {
			sig := <-signalChan
			fmt.Println("Signal received", sig.String())
			stop()
		}
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := server.Serve(ln)
			if err != nil && err != http.ErrServerClosed {
				fmt.Println(err.Error())
			}
		}()

		wg.Wait()
	}

	return
}
