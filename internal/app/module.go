package app

import (
	"log/slog"
	"os"

	"github.com/no-memory/hsbc-homework/internal/ledger"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.ledger.enabled") {
		closeFn, err := ledger.New(ledger.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			EventID:   a.eventID,
		})
		if err != nil {
			slog.Error("failed to init module ledger", "error", err)
			os.Exit(1)
		}
		if closeFn != nil {
			a.addCloser("Ledger", closeFn)
		}
	}
}
