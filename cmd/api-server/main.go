package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/go-co-op/gocron"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	cfgwatch "github.com/faciam-dev/listdash/internal/config"
	"github.com/faciam-dev/listdash/internal/dashboard"
	"github.com/faciam-dev/listdash/internal/events"
	"github.com/faciam-dev/listdash/internal/logger"
	"github.com/faciam-dev/listdash/internal/notify"
	"github.com/faciam-dev/listdash/internal/server"
	"github.com/faciam-dev/listdash/internal/store/memstore"
	"github.com/faciam-dev/listdash/internal/store/mongostore"
	"github.com/faciam-dev/listdash/internal/store/sqlstore"
	"github.com/faciam-dev/listdash/pkg/config"
	"github.com/faciam-dev/listdash/pkg/store"
)

func main() {
	cfgPath := flag.String("config", "dashboard.yaml", "dashboard configuration file")
	dsn := flag.String("dsn", "", "database DSN")
	driver := flag.String("driver", "postgres", "database driver (postgres|mysql|sqlite3)")
	backend := flag.String("store", "memory", "record backend (sql|mongo|memory)")
	mongoDB := flag.String("mongo-db", "listdash", "mongo database name")
	addr := flag.String("addr", ":8080", "listen address")
	eventsPath := flag.String("events", os.Getenv("LD_EVENTS_CONFIG"), "events sink configuration file")
	refreshCron := flag.String("refresh-cron", "", "cron spec for scheduled working-set refresh")
	watch := flag.Bool("watch", false, "reload the dashboard configuration on change")
	openapi := flag.String("openapi", "", "write OpenAPI JSON and exit")
	flag.Parse()

	logger.Set(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.L.Error("load config", "path", *cfgPath, "err", err)
		os.Exit(1)
	}

	var db *sql.DB
	var st store.Store
	switch *backend {
	case "sql":
		db, err = sql.Open(*driver, *dsn)
		if err != nil {
			logger.L.Error("db open", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		st = sqlstore.New(db, *driver)
	case "mongo":
		cli, err := mongo.Connect(context.Background(), options.Client().ApplyURI(*dsn))
		if err != nil {
			logger.L.Error("mongo connect", "err", err)
			os.Exit(1)
		}
		defer cli.Disconnect(context.Background())
		st = mongostore.New(cli.Database(*mongoDB))
	case "memory":
		st = memstore.New()
	default:
		logger.L.Error("unknown store backend", "store", *backend)
		os.Exit(1)
	}

	evtConf, err := events.LoadConfig(*eventsPath)
	if err != nil {
		logger.L.Error("load events configuration", "err", err)
		os.Exit(1)
	}
	var dlq events.DLQ = events.LogDLQ{}
	if db != nil {
		dlq = &events.SQLDLQ{DB: db, Driver: *driver}
	}
	dispatcher, err := events.Build(evtConf, dlq)
	if err != nil {
		logger.L.Error("build event sinks", "err", err)
		os.Exit(1)
	}

	orc := dashboard.New(cfg, st, notify.Log{}, dashboard.ContextConfirmer{})
	orc.Load(context.Background())

	api, _ := server.New(server.Deps{Orc: orc, Store: st, Events: dispatcher})

	if *openapi != "" {
		data, err := json.MarshalIndent(api.OpenAPI(), "", "  ")
		if err != nil {
			logger.L.Error("marshal openapi", "err", err)
			os.Exit(1)
		}
		p := filepath.Clean(*openapi)
		if err := os.WriteFile(p, data, 0o600); err != nil {
			logger.L.Error("write openapi", "err", err)
			os.Exit(1)
		}
		return
	}

	if *refreshCron != "" {
		s := gocron.NewScheduler(time.UTC)
		if _, err := s.Cron(*refreshCron).Do(func() {
			orc.Refresh(context.Background())
		}); err != nil {
			logger.L.Error("schedule refresh", "err", err)
		}
		s.StartAsync()
	}

	if *watch {
		go func() {
			err := cfgwatch.Watch(context.Background(), *cfgPath, func(next *config.Config) {
				orc.Reconfigure(context.Background(), next)
			})
			if err != nil && err != context.Canceled {
				logger.L.Error("config watcher stopped", "err", err)
			}
		}()
	}

	logger.L.Info("listening", "addr", *addr, "list", cfg.ListName)
	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.Adapter(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.L.Error("server error", "err", err)
		os.Exit(1)
	}
}
