package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/blockchain/profile"
	"github.com/ardanlabs/forkchain/foundation/blockchain/selector"
)

var (
	heavy = strings.Repeat("=", 50)
	light = strings.Repeat("-", 50)
)

// Plain writes reports as plain text.
type Plain struct {
	w io.Writer
}

// NewPlain constructs a plain text printer writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w}
}

// Chain prints every block of the chain, one field per line, with the
// blocks separated by a divider.
func (p *Plain) Chain(title string, chain database.Chain) {
	fmt.Fprintf(p.w, "\n%s:\n%s\n", title, heavy)
	for _, b := range chain.Blocks() {
		p.block(b)
		fmt.Fprintln(p.w, light)
	}
}

// Valid prints whether a chain passed validation.
func (p *Plain) Valid(label string, err error) {
	if err != nil {
		fmt.Fprintf(p.w, "\n%s? false (%s)\n", label, err)
		return
	}
	fmt.Fprintf(p.w, "\n%s? true\n", label)
}

// Mined prints the outcome of a mining operation.
func (p *Plain) Mined(m Mining) {
	fmt.Fprintf(p.w, "\nMiner %s mined block %d\n", m.Miner, m.Block.Index)
	fmt.Fprintf(p.w, "Block mined! Hash: %s\n", m.Block.Hash)
	fmt.Fprintf(p.w, "Mining time: %.2f seconds\n", m.Elapsed.Seconds())
	fmt.Fprintf(p.w, "Nonce: %d\n", m.Block.Nonce)
}

// Network prints the length of each node's chain and the payload of
// every block it holds.
func (p *Plain) Network(nodes []NodeChain) {
	for _, nc := range nodes {
		fmt.Fprintf(p.w, "\nNode %s has blockchain length: %d\n", nc.Status.Name, nc.Status.Length)
		for _, b := range nc.Chain.Blocks() {
			fmt.Fprintf(p.w, "Block %d: %s\n", b.Index, b.Payload)
		}
	}
}

// Round prints the candidates of a selection round and the winner.
func (p *Plain) Round(r selector.Round) {
	fmt.Fprintf(p.w, "\n--- %s selection ---\n", strings.ToUpper(r.Strategy))

	if len(r.Ballots) > 0 {
		for _, b := range r.Ballots {
			fmt.Fprintf(p.w, "%s votes for %s\n", b.Voter, b.Delegate)
		}
	} else {
		for _, c := range r.Candidates {
			fmt.Fprintf(p.w, "%s has %s: %d\n", c.Name(), c.Attribute(), c.Weight())
		}
	}

	if r.Winner != nil {
		fmt.Fprintf(p.w, "Selected Validator: %s (Highest %s: %d)\n", r.Winner.Name(), r.Winner.Attribute(), r.Winner.Weight())
	}
}

// Profile prints the attempts taken at each difficulty.
func (p *Plain) Profile(samples []profile.Sample) {
	fmt.Fprintf(p.w, "\n%-10s %6s %14s %14s %12s %12s\n", "difficulty", "runs", "mean", "expected", "stddev", "duration")
	for _, s := range samples {
		fmt.Fprintf(p.w, "%-10d %6d %14.1f %14.0f %12.1f %12v\n", s.Difficulty, s.Runs, s.MeanAttempts, s.Expected(), s.StdDev, s.MeanDuration)
	}
}

func (p *Plain) block(b database.Block) {
	fmt.Fprintf(p.w, "\nBlock #%d\n", b.Index)
	fmt.Fprintf(p.w, "Time: %s\n", b.Time().Format(timeFormat))
	fmt.Fprintf(p.w, "Data: %s\n", b.Payload)
	fmt.Fprintf(p.w, "Previous Hash: %s\n", b.PrevBlockHash)
	fmt.Fprintf(p.w, "Hash: %s\n", b.Hash)
	fmt.Fprintf(p.w, "Nonce: %d\n", b.Nonce)
}
