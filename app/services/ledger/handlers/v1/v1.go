// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/forkchain/app/services/ledger/handlers/v1/ledgergrp"
	"github.com/ardanlabs/forkchain/foundation/blockchain/state"
	"github.com/ardanlabs/forkchain/foundation/events"
	"github.com/ardanlabs/forkchain/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	lgh := ledgergrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", lgh.Events)
	app.Handle(http.MethodGet, version, "/genesis", lgh.Genesis)
	app.Handle(http.MethodGet, version, "/nodes", lgh.QueryNodes)
	app.Handle(http.MethodGet, version, "/nodes/:id/chain", lgh.QueryChain)
	app.Handle(http.MethodGet, version, "/nodes/:id/validate", lgh.QueryValidate)
	app.Handle(http.MethodGet, version, "/nodes/:id/mempool", lgh.QueryMempool)
	app.Handle(http.MethodPost, version, "/nodes/:id/append", lgh.Append)
	app.Handle(http.MethodPost, version, "/nodes/:id/mine", lgh.Mine)
	app.Handle(http.MethodPost, version, "/nodes/:id/submit", lgh.Submit)
	app.Handle(http.MethodPost, version, "/nodes/:id/broadcast", lgh.Broadcast)
	app.Handle(http.MethodPost, version, "/network/reconcile", lgh.Reconcile)
}
