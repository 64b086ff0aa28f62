package cmd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ardanlabs/forkchain/app/tooling/ledgerctl/cmd"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var buf bytes.Buffer
	root := cmd.NewRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		t.Logf("%s", buf.String())
		t.Fatalf("\t%s\tShould be able to run %v: %v", failed, args, err)
	}

	return buf.String()
}

func TestCommands(t *testing.T) {
	type table struct {
		name     string
		args     []string
		contains []string
	}

	tt := []table{
		{
			name: "tamper",
			args: []string{"tamper"},
			contains: []string{
				"Data: First Block",
				"Is the chain valid? true",
				"Data: Tampered Data",
				"Is the chain valid after tampering? false",
			},
		},
		{
			name: "tamper-rehash",
			args: []string{"tamper", "--index", "1", "--payload", "Rewritten", "--rehash"},
			contains: []string{
				"Data: Rewritten",
				"Is the chain valid after tampering? false",
			},
		},
		{
			name: "mine",
			args: []string{"mine", "--miners", "Miner1", "--blocks", "2", "--difficulty", "1", "--hard", "2"},
			contains: []string{
				"Miner Miner1 mined block 2",
				"Blockchain for Miner Miner1:",
				"Miner HardMiner mined block 1",
				"Hash: 0x00",
			},
		},
		{
			name: "fork",
			args: []string{"fork"},
			contains: []string{
				"Node Node3 has blockchain length: 3",
				"Block 3: Y",
				"Node Node3 has blockchain length: 4",
				"Converged: true",
			},
		},
		{
			name: "select",
			args: []string{"select", "dpos", "--seed", "9"},
			contains: []string{
				"--- DPOS selection ---",
				"Voter1 votes for Delegate",
				"Selected Validator: Delegate",
				"seed: 9",
			},
		},
		{
			name: "profile",
			args: []string{"profile", "--difficulties", "0,1", "--runs", "3"},
			contains: []string{
				"difficulty",
				"1.0",
			},
		},
		{
			name: "styled",
			args: []string{"tamper", "--styled"},
			contains: []string{
				"Block 2 Data",
				"Tampered Data",
			},
		},
	}

	t.Log("Given the need to run the ledger demonstrations.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen running %v.", testID, tst.args)
			{
				f := func(t *testing.T) {
					out := run(t, tst.args...)

					for _, s := range tst.contains {
						if !strings.Contains(out, s) {
							t.Logf("%s", out)
							t.Fatalf("\t%s\tTest %d:\tShould output %q.", failed, testID, s)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould output the expected report.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestSelectIsReproducible(t *testing.T) {
	first := run(t, "select", "pow", "--seed", "42")
	second := run(t, "select", "pow", "--seed", "42")

	if first != second {
		t.Fatalf("\t%s\tShould select the same validator from the same seed.", failed)
	}
	t.Logf("\t%s\tShould select the same validator from the same seed.", success)
}

func TestSelectUnknownStrategy(t *testing.T) {
	var buf bytes.Buffer
	root := cmd.NewRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"select", "poa"})

	if err := root.Execute(); err == nil {
		t.Fatalf("\t%s\tShould reject an unknown strategy.", failed)
	}
	t.Logf("\t%s\tShould reject an unknown strategy.", success)
}

func TestTamperOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	root := cmd.NewRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"tamper", "--index", "9"})

	if err := root.Execute(); err == nil {
		t.Fatalf("\t%s\tShould not tamper with a block past the tip.", failed)
	}
	t.Logf("\t%s\tShould not tamper with a block past the tip.", success)
}
