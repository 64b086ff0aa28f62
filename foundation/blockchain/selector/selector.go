// Package selector provides the validator selection rules used by the
// different consensus mechanisms.
package selector

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// List of different select strategies.
const (
	StrategyPOW  = "pow"
	StrategyPOS  = "pos"
	StrategyDPOS = "dpos"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyPOW:  powSelect,
	StrategyPOS:  posSelect,
	StrategyDPOS: dposSelect,
}

// Set of errors returned by selection.
var (
	ErrNoCandidates = errors.New("no candidates to select from")
	ErrNoVoters     = errors.New("no voters to cast ballots")
)

// Func defines a function that runs a single selection round for the
// participants using the specified source of randomness.
type Func func(rng *rand.Rand, p Participants) (Round, error)

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// Strategies returns the names of the registered strategies.
func Strategies() []string {
	return []string{StrategyPOW, StrategyPOS, StrategyDPOS}
}

// NewRand constructs a source of randomness. The same seed always produces
// the same selections.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// =============================================================================

// Participants represents who takes part in a selection round. Voters are
// only used by delegated proof of stake.
type Participants struct {
	Validators []string
	Voters     []string
}

// Round represents the outcome of a selection round.
type Round struct {
	Strategy   string
	Candidates []Candidate
	Ballots    []Ballot
	Winner     Candidate
}

// Candidate represents a validator that can be selected to add the next
// block. The candidate with the greatest weight wins.
type Candidate interface {
	Name() string
	Weight() uint64
	Attribute() string
}

// ProofOfWork is a miner competing with computational power.
type ProofOfWork struct {
	Validator string `json:"name"`
	Power     uint64 `json:"power"`
}

// Name returns the name of the miner.
func (pow ProofOfWork) Name() string { return pow.Validator }

// Weight returns the power of the miner.
func (pow ProofOfWork) Weight() uint64 { return pow.Power }

// Attribute names the field that decides selection.
func (ProofOfWork) Attribute() string { return "power" }

// ProofOfStake is a validator competing with coins staked.
type ProofOfStake struct {
	Validator string `json:"name"`
	Stake     uint64 `json:"stake"`
}

// Name returns the name of the validator.
func (pos ProofOfStake) Name() string { return pos.Validator }

// Weight returns the stake of the validator.
func (pos ProofOfStake) Weight() uint64 { return pos.Stake }

// Attribute names the field that decides selection.
func (ProofOfStake) Attribute() string { return "stake" }

// DelegatedProofOfStake is a delegate competing with votes received.
type DelegatedProofOfStake struct {
	Delegate string `json:"name"`
	Votes    uint64 `json:"votes"`
}

// Name returns the name of the delegate.
func (dpos DelegatedProofOfStake) Name() string { return dpos.Delegate }

// Weight returns the votes of the delegate.
func (dpos DelegatedProofOfStake) Weight() uint64 { return dpos.Votes }

// Attribute names the field that decides selection.
func (DelegatedProofOfStake) Attribute() string { return "votes" }

// =============================================================================

// Maxima returns every candidate sharing the greatest weight, in the order
// they were provided.
func Maxima[C Candidate](candidates []C) []C {
	var maxima []C
	for _, c := range candidates {
		switch {
		case len(maxima) == 0 || c.Weight() > maxima[0].Weight():
			maxima = append(maxima[:0], c)
		case c.Weight() == maxima[0].Weight():
			maxima = append(maxima, c)
		}
	}
	return maxima
}

// Select returns the candidate with the greatest weight. When several
// candidates share the greatest weight one of them is chosen uniformly at
// random.
func Select[C Candidate](rng *rand.Rand, candidates []C) (C, error) {
	maxima := Maxima(candidates)

	switch len(maxima) {
	case 0:
		var zero C
		return zero, ErrNoCandidates
	case 1:
		return maxima[0], nil
	}

	return maxima[intN(rng, len(maxima))], nil
}

// RandomPower assigns each miner a power between 1 and 100.
func RandomPower(rng *rand.Rand, names []string) []ProofOfWork {
	miners := make([]ProofOfWork, len(names))
	for i, name := range names {
		miners[i] = ProofOfWork{Validator: name, Power: uint64(intN(rng, 100) + 1)}
	}
	return miners
}

// RandomStake assigns each validator a stake between 1 and 100.
func RandomStake(rng *rand.Rand, names []string) []ProofOfStake {
	validators := make([]ProofOfStake, len(names))
	for i, name := range names {
		validators[i] = ProofOfStake{Validator: name, Stake: uint64(intN(rng, 100) + 1)}
	}
	return validators
}

// intN draws from the provided source, falling back to the global source
// when none is provided.
func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}
