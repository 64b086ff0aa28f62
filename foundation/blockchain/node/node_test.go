package node_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/blockchain/database/databasetest"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
	"github.com/ardanlabs/forkchain/foundation/blockchain/signature"
	"github.com/ardanlabs/forkchain/foundation/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newNode(t *testing.T, name string, difficulty uint) *node.Node {
	t.Helper()

	n, err := node.New(node.Config{
		Name:       name,
		Difficulty: difficulty,
		EvHandler: func(v string, args ...any) {
			t.Logf(v, args...)
		},
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct node %s: %v", failed, name, err)
	}

	return n
}

// =============================================================================

func Test_NewConfig(t *testing.T) {
	type table struct {
		name string
		cfg  node.Config
		ok   bool
	}

	tt := []table{
		{name: "good", cfg: node.Config{Name: "Node1", Difficulty: 4}, ok: true},
		{name: "max-difficulty", cfg: node.Config{Name: "Node1", Difficulty: database.MaxDifficulty}, ok: true},
		{name: "too-difficult", cfg: node.Config{Name: "Node1", Difficulty: database.MaxDifficulty + 1}},
		{name: "no-name", cfg: node.Config{Difficulty: 1}},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			n, err := node.New(tst.cfg)

			if !tst.ok {
				if !validate.IsFieldErrors(err) {
					t.Fatalf("\t%s\tTest %s:\tShould reject the config, got %v.", failed, tst.name, err)
				}
				t.Logf("\t%s\tTest %s:\tShould reject the config.", success, tst.name)
				return
			}

			if err != nil {
				t.Fatalf("\t%s\tTest %s:\tShould accept the config: %v", failed, tst.name, err)
			}

			if n.ID() == "" || n.Length() != 1 {
				t.Fatalf("\t%s\tTest %s:\tShould start with an id and a genesis chain.", failed, tst.name)
			}

			if n.LatestBlock().Payload != node.DefaultGenesisPayload {
				t.Fatalf("\t%s\tTest %s:\tShould use the default genesis payload.", failed, tst.name)
			}
			t.Logf("\t%s\tTest %s:\tShould start with an id and a genesis chain.", success, tst.name)
		}

		t.Run(tst.name, f)
	}
}

func Test_ChainIsReadOnly(t *testing.T) {
	n := newNode(t, "Node1", 0)
	n.Append("one")

	chain := n.Chain()
	chain.Append("two")
	databasetest.Tamper(&chain, 1, databasetest.SetPayload("evil"), false)

	if n.Length() != 2 || !n.Validate() {
		t.Fatalf("\t%s\tShould not be affected by changes to the returned chain.", failed)
	}
	t.Logf("\t%s\tShould not be affected by changes to the returned chain.", success)
}

func Test_Mine(t *testing.T) {
	n := newNode(t, "Miner 1", 2)

	t.Log("Given the need to mine blocks onto a node's chain.")
	{
		for _, payload := range []string{"Transaction 1", "Transaction 2"} {
			block, err := n.Mine(context.Background(), payload)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to mine %q: %v", failed, payload, err)
			}
			t.Logf("\t%s\tShould be able to mine %q.", success, payload)

			if !strings.HasPrefix(signature.Digits(block.Hash), "00") {
				t.Fatalf("\t%s\tShould have two leading zeros: %s", failed, block.Hash)
			}
			t.Logf("\t%s\tShould have two leading zeros.", success)

			if n.LatestBlock().Hash != block.Hash {
				t.Fatalf("\t%s\tShould append the mined block.", failed)
			}
			t.Logf("\t%s\tShould append the mined block.", success)
		}

		if n.Length() != 3 || !n.Validate() {
			t.Fatalf("\t%s\tShould hold a valid chain of 3 blocks.", failed)
		}
		t.Logf("\t%s\tShould hold a valid chain of 3 blocks.", success)

		if n.IsMining() {
			t.Fatalf("\t%s\tShould not be mining once done.", failed)
		}
	}
}

func Test_MineCancelledByLongerChain(t *testing.T) {
	miner := newNode(t, "Hard Miner", database.MaxDifficulty)
	peer := newNode(t, "Peer", 0)
	peer.Append("one")
	peer.Append("two")

	result := make(chan error, 1)
	go func() {
		_, err := miner.Mine(context.Background(), "never solved")
		result <- err
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !miner.IsMining() {
		if time.Now().After(deadline) {
			t.Fatalf("\t%s\tShould start mining.", failed)
		}
		time.Sleep(time.Millisecond)
	}

	if !miner.Update(peer.Chain()) {
		t.Fatalf("\t%s\tShould adopt the longer chain.", failed)
	}

	select {
	case err := <-result:
		if !errors.Is(err, node.ErrMiningCancelled) {
			t.Fatalf("\t%s\tShould report the mining was cancelled, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould report the mining was cancelled.", success)

	case <-time.After(5 * time.Second):
		t.Fatalf("\t%s\tShould stop mining after adopting a longer chain.", failed)
	}

	if miner.LatestBlock().Hash != peer.LatestBlock().Hash {
		t.Fatalf("\t%s\tShould hold the peer's chain.", failed)
	}
	t.Logf("\t%s\tShould hold the peer's chain.", success)
}

func Test_MineInProgress(t *testing.T) {
	miner := newNode(t, "Hard Miner", database.MaxDifficulty)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		_, err := miner.Mine(ctx, "never solved")
		result <- err
	}()

	for !miner.IsMining() {
		time.Sleep(time.Millisecond)
	}

	if _, err := miner.Mine(context.Background(), "second"); !errors.Is(err, node.ErrMiningInProgress) {
		t.Fatalf("\t%s\tShould refuse a second mining operation, got %v.", failed, err)
	}
	t.Logf("\t%s\tShould refuse a second mining operation.", success)

	cancel()
	if err := <-result; !errors.Is(err, context.Canceled) {
		t.Fatalf("\t%s\tShould stop when the caller cancels, got %v.", failed, err)
	}
	t.Logf("\t%s\tShould stop when the caller cancels.", success)

	if miner.Length() != 1 {
		t.Fatalf("\t%s\tShould not append after cancellation.", failed)
	}
}

func Test_MineMaxAttempts(t *testing.T) {
	n, err := node.New(node.Config{Name: "Bounded", Difficulty: database.MaxDifficulty, MaxAttempts: 100})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct node: %v", failed, err)
	}

	if _, err := n.Mine(context.Background(), "x"); !errors.Is(err, database.ErrMaxAttempts) {
		t.Fatalf("\t%s\tShould give up after the attempts run out, got %v.", failed, err)
	}
	t.Logf("\t%s\tShould give up after the attempts run out.", success)
}

func Test_Update(t *testing.T) {
	n := newNode(t, "Node1", 0)
	n.Append("a")

	shorter := newNode(t, "Short", 0)
	longer := newNode(t, "Long", 0)
	longer.Append("x")
	longer.Append("y")

	if n.Update(shorter.Chain()) {
		t.Fatalf("\t%s\tShould reject a shorter chain.", failed)
	}
	t.Logf("\t%s\tShould reject a shorter chain.", success)

	if !n.Update(longer.Chain()) || n.LatestBlock().Hash != longer.LatestBlock().Hash {
		t.Fatalf("\t%s\tShould accept a longer chain.", failed)
	}
	t.Logf("\t%s\tShould accept a longer chain.", success)

	if n.Update(longer.Chain()) {
		t.Fatalf("\t%s\tShould reject an equal chain.", failed)
	}
	t.Logf("\t%s\tShould reject an equal chain.", success)
}

func Test_UpdateValidateCandidates(t *testing.T) {
	strict, err := node.New(node.Config{Name: "Strict", ValidateCandidates: true})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct node: %v", failed, err)
	}
	lenient := newNode(t, "Lenient", 0)

	forged := database.NewChain(node.DefaultGenesisPayload)
	forged.Append("a")
	forged.Append("b")
	databasetest.Tamper(&forged, 1, databasetest.SetPayload("forged"), false)

	if strict.Update(forged) || strict.Adopt(forged) {
		t.Fatalf("\t%s\tShould reject an invalid candidate when validating.", failed)
	}
	t.Logf("\t%s\tShould reject an invalid candidate when validating.", success)

	if !lenient.Update(forged) || lenient.Validate() {
		t.Fatalf("\t%s\tShould accept an invalid candidate when not validating.", failed)
	}
	t.Logf("\t%s\tShould accept an invalid candidate when not validating.", success)
}

func Test_Adopt(t *testing.T) {
	n := newNode(t, "Node1", 0)
	n.Append("a")
	n.Append("b")

	other := newNode(t, "Node2", 0)
	other.Append("c")
	other.Append("d")

	if !n.Adopt(other.Chain()) || n.LatestBlock().Hash != other.LatestBlock().Hash {
		t.Fatalf("\t%s\tShould adopt a chain of equal length.", failed)
	}
	t.Logf("\t%s\tShould adopt a chain of equal length.", success)

	if n.Adopt(other.Chain()) {
		t.Fatalf("\t%s\tShould report nothing changed for the same chain.", failed)
	}
	t.Logf("\t%s\tShould report nothing changed for the same chain.", success)

	short := newNode(t, "Node3", 0)
	short.Append("e")

	n.Append("f")
	tip := n.LatestBlock().Hash

	if n.Adopt(short.Chain()) || n.Length() != 4 || n.LatestBlock().Hash != tip {
		t.Fatalf("\t%s\tShould refuse a shorter chain and keep its own blocks.", failed)
	}
	t.Logf("\t%s\tShould refuse a shorter chain and keep its own blocks.", success)
}

func Test_Inbox(t *testing.T) {
	n := newNode(t, "Node1", 0)

	build := func(length int) database.Chain {
		peer := newNode(t, "Peer", 0)
		for i := 1; i < length; i++ {
			peer.Append("p")
		}
		return peer.Chain()
	}

	n.Deliver(build(3))
	n.Deliver(build(2))
	n.Deliver(build(5))

	if n.InboxLength() != 3 {
		t.Fatalf("\t%s\tShould hold every delivered candidate, got %d.", failed, n.InboxLength())
	}
	t.Logf("\t%s\tShould hold every delivered candidate.", success)

	select {
	case <-n.InboxSignal():
		t.Logf("\t%s\tShould signal the delivery.", success)
	default:
		t.Fatalf("\t%s\tShould signal the delivery.", failed)
	}

	considered, replaced := n.DrainInbox()
	if considered != 3 || replaced != 2 {
		t.Fatalf("\t%s\tShould consider 3 and replace 2, got %d and %d.", failed, considered, replaced)
	}
	t.Logf("\t%s\tShould consider every candidate in order.", success)

	if n.Length() != 5 || n.InboxLength() != 0 {
		t.Fatalf("\t%s\tShould end with the longest candidate and an empty inbox.", failed)
	}
	t.Logf("\t%s\tShould end with the longest candidate and an empty inbox.", success)
}
