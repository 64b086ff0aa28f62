package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/blockchain/profile"
	"github.com/ardanlabs/forkchain/foundation/blockchain/selector"
	"github.com/pterm/pterm"
)

// Styled writes reports decorated for a terminal.
type Styled struct {
	w io.Writer
}

// NewStyled constructs a terminal printer writing to w.
func NewStyled(w io.Writer) *Styled {
	return &Styled{w: w}
}

// Chain prints every block of the chain in its own box.
func (s *Styled) Chain(title string, chain database.Chain) {
	fmt.Fprintln(s.w, pterm.LightCyan(fmt.Sprintf("\n%s (%d blocks)", title, chain.Length())))

	for _, b := range chain.Blocks() {
		var sb strings.Builder
		sb.WriteString(pterm.Sprintfln("Time: %s", b.Time().Format(timeFormat)))
		sb.WriteString(pterm.Sprintfln("Data: %s", b.Payload))
		sb.WriteString(pterm.Sprintfln("Previous Hash: %s", b.PrevBlockHash))
		sb.WriteString(pterm.Sprintfln("Hash: %s", b.Hash))
		sb.WriteString(pterm.Sprintf("Nonce: %d", b.Nonce))

		box := pterm.DefaultBox.WithHorizontalPadding(2).WithTitle(pterm.LightYellow(fmt.Sprintf("|BLOCK #%d|", b.Index))).WithTitleTopLeft()
		fmt.Fprintln(s.w, box.Sprint(sb.String()))
	}
}

// Valid prints whether a chain passed validation.
func (s *Styled) Valid(label string, err error) {
	if err != nil {
		fmt.Fprintln(s.w, pterm.LightRed(fmt.Sprintf("%s? false (%s)", label, err)))
		return
	}
	fmt.Fprintln(s.w, pterm.LightGreen(fmt.Sprintf("%s? true", label)))
}

// Mined prints the outcome of a mining operation.
func (s *Styled) Mined(m Mining) {
	body := pterm.Sprintfln("Hash: %s", m.Block.Hash) +
		pterm.Sprintfln("Mining time: %.2f seconds", m.Elapsed.Seconds()) +
		pterm.Sprintf("Nonce: %d", m.Block.Nonce)

	box := pterm.DefaultBox.WithHorizontalPadding(2).WithTitle(pterm.LightGreen(fmt.Sprintf("|%s MINED BLOCK %d|", m.Miner, m.Block.Index))).WithTitleTopCenter()
	fmt.Fprintln(s.w, box.Sprint(body))
}

// Network prints each node's chain as a list of payloads.
func (s *Styled) Network(nodes []NodeChain) {
	for _, nc := range nodes {
		var sb strings.Builder
		for _, b := range nc.Chain.Blocks() {
			sb.WriteString(pterm.Sprintfln("Block %d: %s", b.Index, b.Payload))
		}

		state := pterm.LightGreen("valid")
		if !nc.Status.Valid {
			state = pterm.LightRed("invalid")
		}

		title := fmt.Sprintf("|%s length %d %s|", nc.Status.Name, nc.Status.Length, state)
		box := pterm.DefaultBox.WithHorizontalPadding(2).WithTitle(pterm.LightCyan(title)).WithTitleTopLeft()
		fmt.Fprintln(s.w, box.Sprint(strings.TrimSuffix(sb.String(), "\n")))
	}
}

// Round prints the candidates of a selection round and highlights the
// winner.
func (s *Styled) Round(r selector.Round) {
	var sb strings.Builder
	for _, b := range r.Ballots {
		sb.WriteString(pterm.Sprintfln("%s votes for %s", b.Voter, pterm.LightCyan(b.Delegate)))
	}
	for _, c := range r.Candidates {
		name := c.Name()
		if r.Winner != nil && c.Name() == r.Winner.Name() {
			name = pterm.LightGreen(name)
		}
		sb.WriteString(pterm.Sprintfln("%s has %s: %d", name, c.Attribute(), c.Weight()))
	}

	box := pterm.DefaultBox.WithHorizontalPadding(2).WithTitle(pterm.LightYellow(fmt.Sprintf("|%s|", strings.ToUpper(r.Strategy)))).WithTitleTopCenter()
	fmt.Fprintln(s.w, box.Sprint(strings.TrimSuffix(sb.String(), "\n")))

	if r.Winner != nil {
		fmt.Fprintln(s.w, pterm.BgGreen.Sprint(fmt.Sprintf(" Selected Validator: %s ", r.Winner.Name())))
	}
}

// Profile prints the attempts taken at each difficulty as a table.
func (s *Styled) Profile(samples []profile.Sample) {
	data := pterm.TableData{
		{"difficulty", "runs", "mean", "expected", "stddev", "duration"},
	}
	for _, smp := range samples {
		data = append(data, []string{
			fmt.Sprint(smp.Difficulty),
			fmt.Sprint(smp.Runs),
			fmt.Sprintf("%.1f", smp.MeanAttempts),
			fmt.Sprintf("%.0f", smp.Expected()),
			fmt.Sprintf("%.1f", smp.StdDev),
			smp.MeanDuration.String(),
		})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		fmt.Fprintln(s.w, pterm.LightRed(err.Error()))
		return
	}
	fmt.Fprintln(s.w, out)
}
