package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"github.com/no-memory/hsbc-homework/internal/pkg/pkgconfig"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkglog"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgrouter"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgroutine"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkguid"
)

func (a *App) initConfig() {
	pkglog.InitLogging("info")

	cfg, err := pkgconfig.NewViper(a.configPath)
	if err != nil {
		slog.Error("failed to init config", "path", a.configPath, "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	pkglog.InitLogging(cfg.GetString("log.level"))

	a.config = cfg
	a.addCloser("Config", func(context.Context) error {
		return a.config.Close()
	})
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(pkgconfig.IntOr(a.config, "goroutine.max", 100))
	a.uuid = pkguid.NewUUID()

	sf, err := pkguid.NewSnowflake(a.config.GetInt("snowflake.node"))
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.eventID = sf
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: pkgconfig.DurationOr(a.config, "server.read_header_timeout", 10*time.Second),
	}
}
