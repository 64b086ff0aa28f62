package selector

import "math/rand/v2"

// Ballot records the delegate a voter chose.
type Ballot struct {
	Voter    string `json:"voter"`
	Delegate string `json:"delegate"`
}

// Vote has every voter choose one of the delegates uniformly at random and
// returns the ballots cast along with the tally per delegate, in the order
// the delegates were provided.
func Vote(rng *rand.Rand, delegates []string, voters []string) ([]Ballot, []DelegatedProofOfStake, error) {
	if len(delegates) == 0 {
		return nil, nil, ErrNoCandidates
	}
	if len(voters) == 0 {
		return nil, nil, ErrNoVoters
	}

	tally := make([]DelegatedProofOfStake, len(delegates))
	for i, d := range delegates {
		tally[i] = DelegatedProofOfStake{Delegate: d}
	}

	ballots := make([]Ballot, len(voters))
	for i, voter := range voters {
		choice := intN(rng, len(delegates))
		tally[choice].Votes++
		ballots[i] = Ballot{Voter: voter, Delegate: delegates[choice]}
	}

	return ballots, tally, nil
}

// =============================================================================

func powSelect(rng *rand.Rand, p Participants) (Round, error) {
	miners := RandomPower(rng, p.Validators)

	winner, err := Select(rng, miners)
	if err != nil {
		return Round{}, err
	}

	return Round{
		Strategy:   StrategyPOW,
		Candidates: candidates(miners),
		Winner:     winner,
	}, nil
}

func posSelect(rng *rand.Rand, p Participants) (Round, error) {
	validators := RandomStake(rng, p.Validators)

	winner, err := Select(rng, validators)
	if err != nil {
		return Round{}, err
	}

	return Round{
		Strategy:   StrategyPOS,
		Candidates: candidates(validators),
		Winner:     winner,
	}, nil
}

func dposSelect(rng *rand.Rand, p Participants) (Round, error) {
	ballots, tally, err := Vote(rng, p.Validators, p.Voters)
	if err != nil {
		return Round{}, err
	}

	winner, err := Select(rng, tally)
	if err != nil {
		return Round{}, err
	}

	return Round{
		Strategy:   StrategyDPOS,
		Candidates: candidates(tally),
		Ballots:    ballots,
		Winner:     winner,
	}, nil
}

func candidates[C Candidate](cs []C) []Candidate {
	list := make([]Candidate, len(cs))
	for i, c := range cs {
		list[i] = c
	}
	return list
}
