package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/forkchain/app/services/ledger/handlers"
	"github.com/ardanlabs/forkchain/business/web/errs"
	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
	"github.com/ardanlabs/forkchain/foundation/blockchain/state"
	"github.com/ardanlabs/forkchain/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type chainResponse struct {
	Length uint64           `json:"length"`
	Blocks []database.Block `json:"blocks"`
}

type apiTest struct {
	t   *testing.T
	app http.Handler
}

func newAPITest(t *testing.T) (*apiTest, []node.Status) {
	gen := genesis.Default()
	gen.Difficulty = 1

	st, err := state.New(state.Config{
		NodeNames: []string{"Node1", "Node2", "Node3"},
		Genesis:   gen,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}
	t.Cleanup(st.Shutdown)

	app := handlers.APIMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		Evts:     events.New(0),
	})

	return &apiTest{t: t, app: app}, st.QueryNodes()
}

func (at *apiTest) do(method string, path string, body string, status int, resp any) {
	at.t.Helper()

	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	at.app.ServeHTTP(w, r)

	if w.Code != status {
		at.t.Logf("%s", w.Body.String())
		at.t.Fatalf("\t%s\tShould receive a status code of %d for %s %s, got %d.", failed, status, method, path, w.Code)
	}
	at.t.Logf("\t%s\tShould receive a status code of %d for %s %s.", success, status, method, path)

	if resp != nil {
		if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
			at.t.Fatalf("\t%s\tShould be able to unmarshal the response: %v", failed, err)
		}
	}
}

// =============================================================================

func Test_Ledger(t *testing.T) {
	at, nodes := newAPITest(t)
	node1, node2, node3 := nodes[0].ID, nodes[1].ID, nodes[2].ID

	t.Log("Given the need to drive a fork and its resolution over the API.")
	{
		var status []node.Status
		at.do(http.MethodGet, "/v1/nodes", "", http.StatusOK, &status)
		if len(status) != 3 || status[0].Name != "Node1" || status[0].Length != 1 {
			t.Fatalf("\t%s\tShould list every node at genesis.", failed)
		}

		at.do(http.MethodPost, "/v1/nodes/"+node1+"/append", `{"payload":"Block 1"}`, http.StatusCreated, nil)
		at.do(http.MethodPost, "/v1/nodes/"+node1+"/broadcast", "", http.StatusOK, nil)

		var mined struct {
			Block database.Block `json:"block"`
		}
		at.do(http.MethodPost, "/v1/nodes/"+node2+"/mine", `{"payload":"X"}`, http.StatusCreated, &mined)
		if mined.Block.Index != 2 || !database.IsHashSolved(1, mined.Block.Hash) {
			t.Fatalf("\t%s\tShould mine a block at the requested difficulty.", failed)
		}
		at.do(http.MethodPost, "/v1/nodes/"+node3+"/append", `{"payload":"Y"}`, http.StatusCreated, nil)

		var winner chainResponse
		at.do(http.MethodPost, "/v1/network/reconcile", "", http.StatusOK, &winner)
		if winner.Length != 3 || winner.Blocks[2].Payload != "X" {
			t.Fatalf("\t%s\tShould choose the first longest chain.", failed)
		}

		var c chainResponse
		at.do(http.MethodGet, "/v1/nodes/"+node3+"/chain", "", http.StatusOK, &c)
		if c.Length != 3 || c.Blocks[2].Hash != mined.Block.Hash {
			t.Fatalf("\t%s\tShould have every node adopt the winner.", failed)
		}
		t.Logf("\t%s\tShould have every node adopt the winner.", success)

		var v state.Validation
		at.do(http.MethodGet, "/v1/nodes/"+node3+"/validate", "", http.StatusOK, &v)
		if !v.Valid {
			t.Fatalf("\t%s\tShould report a valid chain.", failed)
		}
	}
}

func Test_Errors(t *testing.T) {
	at, nodes := newAPITest(t)
	node1 := nodes[0].ID

	t.Log("Given the need to report bad requests.")
	{
		var er errs.Response
		at.do(http.MethodPost, "/v1/nodes/"+node1+"/append", `{}`, http.StatusBadRequest, &er)
		if er.Fields["payload"] == "" {
			t.Fatalf("\t%s\tShould report the missing payload field.", failed)
		}
		t.Logf("\t%s\tShould report the missing payload field.", success)

		at.do(http.MethodPost, "/v1/nodes/"+node1+"/append", `{"payload":`, http.StatusBadRequest, nil)
		at.do(http.MethodGet, "/v1/nodes/missing/chain", "", http.StatusNotFound, nil)
		at.do(http.MethodPost, "/v1/nodes/missing/broadcast", "", http.StatusNotFound, nil)
		at.do(http.MethodPost, "/v1/nodes/missing/submit", `{"payload":"a"}`, http.StatusNotFound, nil)
	}
}
