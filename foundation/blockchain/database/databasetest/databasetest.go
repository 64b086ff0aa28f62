// Package databasetest provides support for corrupting chains so tests can
// exercise tamper detection. Nothing outside of tests should import it.
package databasetest

import (
	"fmt"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
)

// Mutation changes a block in place.
type Mutation func(b *database.Block)

// Tamper applies the mutation directly to the block at the specified index
// of the chain, bypassing Append and mining. When rehash is true the block's
// own hash is recomputed, leaving it self consistent while the successor's
// link is left untouched.
func Tamper(chain *database.Chain, index uint64, mutate Mutation, rehash bool) error {
	blocks := chain.Blocks()
	if index >= uint64(len(blocks)) {
		return fmt.Errorf("tamper: index %d out of range, length %d", index, len(blocks))
	}

	mutate(&blocks[index])
	if rehash {
		blocks[index].Hash = blocks[index].CalculateHash()
	}

	*chain = database.ChainFrom(blocks)

	return nil
}

// SetPayload returns a mutation that replaces the payload.
func SetPayload(payload string) Mutation {
	return func(b *database.Block) {
		b.Payload = payload
	}
}

// SetPrevBlockHash returns a mutation that replaces the previous hash.
func SetPrevBlockHash(hash string) Mutation {
	return func(b *database.Block) {
		b.PrevBlockHash = hash
	}
}

// SetNonce returns a mutation that replaces the nonce.
func SetNonce(nonce uint64) Mutation {
	return func(b *database.Block) {
		b.Nonce = nonce
	}
}
