// Package ledgergrp maintains the group of handlers for inspecting and
// driving the nodes of the network.
package ledgergrp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ardanlabs/forkchain/business/web/errs"
	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/forkchain/foundation/blockchain/network"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
	"github.com/ardanlabs/forkchain/foundation/blockchain/state"
	"github.com/ardanlabs/forkchain/foundation/blockchain/worker"
	"github.com/ardanlabs/forkchain/foundation/events"
	"github.com/ardanlabs/forkchain/foundation/validate"
	"github.com/ardanlabs/forkchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Subscribe()
	defer h.Evts.Unsubscribe(id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis settings the nodes were started with.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Genesis(), http.StatusOK)
}

// QueryNodes returns the status of every node.
func (h Handlers) QueryNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.QueryNodes(), http.StatusOK)
}

// QueryChain returns the blocks held by a node.
func (h Handlers) QueryChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := web.Param(r, "id")

	c, err := h.State.QueryChain(id)
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, toChain(id, c), http.StatusOK)
}

// QueryValidate reports whether a node's chain is valid.
func (h Handlers) QueryValidate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := h.State.QueryValidate(web.Param(r, "id"))
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, v, http.StatusOK)
}

// QueryMempool returns the payloads waiting to be mined by a node.
func (h Handlers) QueryMempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	entries, err := h.State.QueryMempool(web.Param(r, "id"))
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, entries, http.StatusOK)
}

// Append adds a block to a node's chain without proof of work.
func (h Handlers) Append(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var np newPayload
	if err := decode(r, &np); err != nil {
		return err
	}

	block, err := h.State.Append(web.Param(r, "id"), np.Payload)
	if err != nil {
		return toTrusted(err)
	}

	h.Log.Infow("append", "traceid", web.GetTraceID(ctx), "block", block)

	return web.Respond(ctx, w, block, http.StatusCreated)
}

// Mine performs the proof of work for a payload on a node and waits for
// the block. Closing the request cancels the work.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var np newPayload
	if err := decode(r, &np); err != nil {
		return err
	}

	t := time.Now()
	block, err := h.State.Mine(ctx, web.Param(r, "id"), np.Payload)
	if err != nil {
		return toTrusted(err)
	}

	resp := mined{
		Block:   block,
		Elapsed: time.Since(t).String(),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Submit queues a payload for a node's worker to mine in the background.
func (h Handlers) Submit(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var np newPayload
	if err := decode(r, &np); err != nil {
		return err
	}

	entry, err := h.State.Submit(web.Param(r, "id"), np.Payload)
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, entry, http.StatusAccepted)
}

// Broadcast shares a node's chain with every other node.
func (h Handlers) Broadcast(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.State.Broadcast(web.Param(r, "id")); err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, status{Status: "chain broadcast"}, http.StatusOK)
}

// Reconcile has every node adopt the longest chain in the network.
func (h Handlers) Reconcile(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	winner, err := h.State.Reconcile()
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, toChain("", winner), http.StatusOK)
}

// =============================================================================

// toTrusted maps the errors of the ledger to the HTTP status the client
// should see. Unknown errors pass through as internal errors.
func toTrusted(err error) error {
	switch {
	case errors.Is(err, network.ErrNodeNotFound):
		return errs.NewTrusted(err, http.StatusNotFound)

	case errors.Is(err, state.ErrEmptyPayload), errors.Is(err, mempool.ErrEmptyPayload):
		return errs.NewTrusted(err, http.StatusBadRequest)

	case errors.Is(err, node.ErrMiningInProgress),
		errors.Is(err, node.ErrMiningCancelled),
		errors.Is(err, node.ErrStaleTip):
		return errs.NewTrusted(err, http.StatusConflict)

	case errors.Is(err, database.ErrMaxAttempts):
		return errs.NewTrusted(err, http.StatusUnprocessableEntity)

	case errors.Is(err, worker.ErrShutdown):
		return errs.NewTrusted(err, http.StatusServiceUnavailable)

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errs.NewTrusted(err, http.StatusRequestTimeout)
	}

	return err
}

// decode reads the request payload. Validation failures are returned as is
// so the field errors reach the client.
func decode(r *http.Request, val any) error {
	if err := web.Decode(r, val); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}
	return nil
}
