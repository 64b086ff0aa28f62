package report_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/forkchain/business/report"
	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
	"github.com/ardanlabs/forkchain/foundation/blockchain/profile"
	"github.com/ardanlabs/forkchain/foundation/blockchain/selector"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func chain() database.Chain {
	ts := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	c := database.NewChainAt("First Block", ts)
	c.Append("Block 1 Data")
	return c
}

func contains(t *testing.T, out string, lines ...string) {
	t.Helper()

	for _, line := range lines {
		if !strings.Contains(out, line) {
			t.Logf("%s", out)
			t.Fatalf("\t%s\tShould contain %q.", failed, line)
		}
	}
}

// =============================================================================

func TestPlainChain(t *testing.T) {
	var buf bytes.Buffer
	p := report.NewPlain(&buf)

	c := chain()
	genesis, _ := c.Block(0)

	p.Chain("Blockchain", c)
	p.Valid("Is the chain valid", c.Verify())
	p.Valid("Is the chain valid after tampering", errors.New("hash mismatch"))

	out := buf.String()
	contains(t, out,
		"\nBlockchain:\n"+strings.Repeat("=", 50)+"\n",
		"\nBlock #0\nTime: 2024-03-01 12:00:00 UTC\nData: First Block\nPrevious Hash: 0\nHash: "+genesis.Hash+"\nNonce: 0\n"+strings.Repeat("-", 50)+"\n",
		"Block #1\n",
		"Data: Block 1 Data\n",
		"Previous Hash: "+genesis.Hash+"\n",
		"Is the chain valid? true\n",
		"Is the chain valid after tampering? false (hash mismatch)\n",
	)
	t.Logf("\t%s\tShould print every block field on its own line.", success)

	if strings.Count(out, strings.Repeat("-", 50)) != 2 {
		t.Fatalf("\t%s\tShould separate every block with a divider.", failed)
	}
	t.Logf("\t%s\tShould separate every block with a divider.", success)
}

func TestPlainNetwork(t *testing.T) {
	var buf bytes.Buffer
	p := report.NewPlain(&buf)

	n, err := node.New(node.Config{Name: "Node1"})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a node: %v", failed, err)
	}
	n.Append("X")

	p.Network(report.Nodes([]*node.Node{n}))
	p.Mined(report.Mining{
		Miner:   "Miner1",
		Block:   n.LatestBlock(),
		Elapsed: 1500 * time.Millisecond,
	})

	contains(t, buf.String(),
		"Node Node1 has blockchain length: 2\n",
		"Block 0: Genesis Block\n",
		"Block 1: X\n",
		"Miner Miner1 mined block 1\n",
		"Mining time: 1.50 seconds\n",
	)
	t.Logf("\t%s\tShould print the chain held by every node.", success)
}

func TestPlainRound(t *testing.T) {
	var buf bytes.Buffer
	p := report.NewPlain(&buf)

	p.Round(selector.Round{
		Strategy: selector.StrategyPOW,
		Candidates: []selector.Candidate{
			selector.ProofOfWork{Validator: "MinerA", Power: 12},
			selector.ProofOfWork{Validator: "MinerB", Power: 88},
		},
		Winner: selector.ProofOfWork{Validator: "MinerB", Power: 88},
	})
	p.Round(selector.Round{
		Strategy: selector.StrategyDPOS,
		Ballots: []selector.Ballot{
			{Voter: "Voter1", Delegate: "DelegateA"},
		},
		Winner: selector.DelegatedProofOfStake{Delegate: "DelegateA", Votes: 1},
	})
	p.Profile([]profile.Sample{{Difficulty: 2, Runs: 4, MeanAttempts: 250}})

	contains(t, buf.String(),
		"--- POW selection ---\n",
		"MinerA has power: 12\n",
		"Selected Validator: MinerB (Highest power: 88)\n",
		"Voter1 votes for DelegateA\n",
		"Selected Validator: DelegateA (Highest votes: 1)\n",
		"250.0",
	)
	t.Logf("\t%s\tShould print the candidates and the winner.", success)
}

func TestStyled(t *testing.T) {
	var buf bytes.Buffer
	var p report.Printer = report.NewStyled(&buf)

	c := chain()
	p.Chain("Blockchain", c)
	p.Valid("Is the chain valid", nil)
	p.Round(selector.Round{
		Strategy:   selector.StrategyPOS,
		Candidates: []selector.Candidate{selector.ProofOfStake{Validator: "StakerA", Stake: 7}},
		Winner:     selector.ProofOfStake{Validator: "StakerA", Stake: 7},
	})
	p.Profile([]profile.Sample{{Difficulty: 1, Runs: 3, MeanAttempts: 16}})

	contains(t, buf.String(), "First Block", "Block 1 Data", c.LatestBlock().Hash, "StakerA", "16.0")
	t.Logf("\t%s\tShould render the blocks for a terminal.", success)
}
