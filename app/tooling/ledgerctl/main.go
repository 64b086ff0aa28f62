// This program demonstrates the ledger: tampering, mining, forks and
// validator selection.
package main

import "github.com/ardanlabs/forkchain/app/tooling/ledgerctl/cmd"

func main() {
	cmd.Execute()
}
