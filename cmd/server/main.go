// Command server exposes the event-sourced demo domains over HTTP: a
// single command endpoint plus projection reads per domain, backed by a
// pluggable event store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	es "github.com/genesisdb/eventsourcing-demo"
	"github.com/genesisdb/eventsourcing-demo/cart"
	"github.com/genesisdb/eventsourcing-demo/eventstore/disk"
	"github.com/genesisdb/eventsourcing-demo/eventstore/genesisdb"
	"github.com/genesisdb/eventsourcing-demo/eventstore/memory"
	"github.com/genesisdb/eventsourcing-demo/inventory"
	"github.com/genesisdb/eventsourcing-demo/library"
	"github.com/genesisdb/eventsourcing-demo/logging"
	"github.com/genesisdb/eventsourcing-demo/todo"
)

type config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	Backend  string `env:"EVENTSTORE_BACKEND" envDefault:"memory"`
	DataDir  string `env:"EVENTSTORE_DIR" envDefault:"./data"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.WithError(err).Fatal("parse configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("parse log level")
	}
	log.SetLevel(level)

	es.MustInit()

	store, err := openStore(cfg)
	if err != nil {
		log.WithError(err).Fatal("open event store")
	}
	defer store.Close()

	reg := es.NewRegistry(log, logging.CommandLogging(log))
	cart.Register(reg, store)
	inventory.Register(reg, store)
	library.Register(reg, store)
	todo.Register(reg, store)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: newServer(log, reg, store),
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":     cfg.Addr,
			"backend":  cfg.Backend,
			"commands": len(reg.Types()),
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	log.Info("server stopped")
}

func openStore(cfg config) (es.Store, error) {
	switch cfg.Backend {
	case "memory":
		return memory.NewStore(), nil
	case "disk":
		return disk.NewFilesStore(cfg.DataDir)
	case "genesisdb":
		gcfg, err := genesisdb.ConfigFromEnv()
		if err != nil {
			return nil, err
		}
		return genesisdb.NewClient(gcfg)
	default:
		return nil, fmt.Errorf("unknown event store backend %q", cfg.Backend)
	}
}
