package app

import (
	"context"
	"net/http"

	"github.com/no-memory/hsbc-homework/internal/pkg/pkgconfig"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgrouter"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgroutine"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	configPath string
	config     pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	eventID   pkguid.NumberID
	goroutine *pkgroutine.Manager

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	closers []closer
}

func New(configPath string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:        ctx,
		cancel:     cancel,
		configPath: configPath,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()

	return app
}
