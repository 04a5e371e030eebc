package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"yunion.io/x/log"
	"yunion.io/x/pkg/errors"

	"github.com/zexi/app-hook/pkg/appstate"
	"github.com/zexi/app-hook/pkg/config"
	"github.com/zexi/app-hook/pkg/handlers"
)

var flags *config.Flags

func init() {
	flags = config.BindFlags(flag.CommandLine)
	flag.Parse()
}

func setupRlimits(hard, soft uint64) error {
	l := &syscall.Rlimit{
		Max: hard,
		Cur: soft,
	}
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, l); err != nil {
		return errors.Wrap(err, "syscall.Setrlimit")
	}
	log.Infof("set ulimit nofile hard %d soft %d", l.Max, l.Cur)
	return nil
}

func main() {
	log.Infof("============= APP HOOK ==========")
	cfg, err := config.Resolve(flags)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := setupRlimits(uint64(cfg.Server.UlimitNofileHard), uint64(cfg.Server.UlimitNofileSoft)); err != nil {
		log.Warningf("setup ulimit nofile: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	state := appstate.NewAppSingleton(cfg.Server.Value)
	serverState := handlers.NewServerState()

	srv := &http.Server{
		Handler: handlers.NewRouter(handlers.RouterOptions{
			Route:       cfg.Server.Route,
			State:       state,
			ServerState: serverState,
			Registry:    reg,
			Shutdown:    cancel,
			StopDelay:   2 * time.Second,
		}),
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Addr, cfg.Server.Port),
		WriteTimeout: cfg.Server.WriteTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		serverState.Set(handlers.STATE_STOPPED)
		log.Infof("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("Listening on %s, serving value on GET %s", srv.Addr, cfg.Server.Route)
	serverState.Set(handlers.STATE_RUNNING)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		serverState.Set(handlers.STATE_ERROR)
		log.Fatalf("listen and serve: %v", err)
	}
	<-stopped
	log.Infof("Server stopped")
}
