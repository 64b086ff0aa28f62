package selector_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/forkchain/foundation/blockchain/selector"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestSelect(t *testing.T) {
	type table struct {
		name       string
		candidates []selector.Candidate
		winners    []string
	}

	tt := []table{
		{
			name: "pow",
			candidates: []selector.Candidate{
				selector.ProofOfWork{Validator: "MinerA", Power: 40},
				selector.ProofOfWork{Validator: "MinerB", Power: 90},
				selector.ProofOfWork{Validator: "MinerC", Power: 12},
			},
			winners: []string{"MinerB"},
		},
		{
			name: "pos",
			candidates: []selector.Candidate{
				selector.ProofOfStake{Validator: "StakerA", Stake: 100},
				selector.ProofOfStake{Validator: "StakerB", Stake: 1},
			},
			winners: []string{"StakerA"},
		},
		{
			name: "tie",
			candidates: []selector.Candidate{
				selector.DelegatedProofOfStake{Delegate: "DelegateA", Votes: 1},
				selector.DelegatedProofOfStake{Delegate: "DelegateB", Votes: 1},
				selector.DelegatedProofOfStake{Delegate: "DelegateC", Votes: 1},
			},
			winners: []string{"DelegateA", "DelegateB", "DelegateC"},
		},
	}

	t.Log("Given the need to select the validator with the greatest weight.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling %s candidates.", testID, tst.name)
			{
				f := func(t *testing.T) {
					rng := selector.NewRand(uint64(testID))

					maxima := selector.Maxima(tst.candidates)
					if len(maxima) != len(tst.winners) {
						t.Fatalf("\t%s\tTest %d:\tShould find %d maxima, got %d.", failed, testID, len(tst.winners), len(maxima))
					}
					t.Logf("\t%s\tTest %d:\tShould find every maximal candidate.", success, testID)

					seen := make(map[string]bool)
					for range 300 {
						winner, err := selector.Select(rng, tst.candidates)
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to select: %v", failed, testID, err)
						}
						seen[winner.Name()] = true
					}

					if len(seen) != len(tst.winners) {
						t.Fatalf("\t%s\tTest %d:\tShould select among exactly the maxima, got %v.", failed, testID, seen)
					}
					for _, name := range tst.winners {
						if !seen[name] {
							t.Fatalf("\t%s\tTest %d:\tShould have selected %s.", failed, testID, name)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould select among exactly the maxima.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestSelectEmpty(t *testing.T) {
	if _, err := selector.Select[selector.ProofOfWork](nil, nil); !errors.Is(err, selector.ErrNoCandidates) {
		t.Fatalf("\t%s\tShould not select from no candidates, got %v.", failed, err)
	}
	t.Logf("\t%s\tShould not select from no candidates.", success)
}

func TestRandomAttributes(t *testing.T) {
	rng := selector.NewRand(7)
	names := []string{"A", "B", "C"}

	for range 100 {
		for _, m := range selector.RandomPower(rng, names) {
			if m.Power < 1 || m.Power > 100 {
				t.Fatalf("\t%s\tShould assign power between 1 and 100, got %d.", failed, m.Power)
			}
		}
		for _, v := range selector.RandomStake(rng, names) {
			if v.Stake < 1 || v.Stake > 100 {
				t.Fatalf("\t%s\tShould assign stake between 1 and 100, got %d.", failed, v.Stake)
			}
		}
	}
	t.Logf("\t%s\tShould assign attributes between 1 and 100.", success)
}

func TestVote(t *testing.T) {
	delegates := []string{"DelegateA", "DelegateB", "DelegateC"}
	voters := []string{"Voter1", "Voter2", "Voter3"}

	ballots, tally, err := selector.Vote(selector.NewRand(1), delegates, voters)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to vote: %v", failed, err)
	}

	var total uint64
	for i, d := range tally {
		if d.Delegate != delegates[i] {
			t.Fatalf("\t%s\tShould tally delegates in order.", failed)
		}
		total += d.Votes
	}
	if total != uint64(len(voters)) || len(ballots) != len(voters) {
		t.Fatalf("\t%s\tShould count one vote per voter.", failed)
	}
	t.Logf("\t%s\tShould count one vote per voter.", success)

	if _, _, err := selector.Vote(nil, delegates, nil); !errors.Is(err, selector.ErrNoVoters) {
		t.Fatalf("\t%s\tShould require voters, got %v.", failed, err)
	}
	t.Logf("\t%s\tShould require voters.", success)
}

func TestRetrieve(t *testing.T) {
	p := selector.Participants{
		Validators: []string{"A", "B", "C"},
		Voters:     []string{"Voter1", "Voter2", "Voter3", "Voter4"},
	}

	for _, strategy := range selector.Strategies() {
		fn, err := selector.Retrieve(strategy)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve %s: %v", failed, strategy, err)
		}

		r1, err := fn(selector.NewRand(42), p)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to run %s: %v", failed, strategy, err)
		}
		r2, _ := fn(selector.NewRand(42), p)

		if r1.Winner.Name() != r2.Winner.Name() || len(r1.Candidates) != 3 {
			t.Fatalf("\t%s\tShould reproduce %s rounds from the same seed.", failed, strategy)
		}

		for _, c := range selector.Maxima(r1.Candidates) {
			if c.Weight() != r1.Winner.Weight() {
				t.Fatalf("\t%s\tShould pick a maximal %s candidate.", failed, strategy)
			}
		}
		t.Logf("\t%s\tShould run a reproducible %s round.", success, strategy)
	}

	if _, err := selector.Retrieve("poa"); err == nil {
		t.Fatalf("\t%s\tShould not retrieve an unknown strategy.", failed)
	}
	t.Logf("\t%s\tShould not retrieve an unknown strategy.", success)
}
