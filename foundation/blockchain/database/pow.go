package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/forkchain/foundation/blockchain/signature"
)

// MaxDifficulty is the largest difficulty that can be solved since a hash
// only carries this many hex digits.
const MaxDifficulty = signature.HashLength

// Set of errors returned by the proof of work.
var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrMaxAttempts       = errors.New("mining attempts exhausted")
)

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	Difficulty  uint
	PrevBlock   Block
	Payload     string
	MaxAttempts uint64    // Zero means the search is only bounded by the context.
	TimeStamp   time.Time // Zero means the current time.
	EvHandler   func(v string, args ...any)
}

// POW constructs a new block on top of the previous block and performs the
// work to find a nonce that solves the cryptographic POW puzzle. The number
// of hashes computed is returned with the block.
func POW(ctx context.Context, args POWArgs) (Block, uint64, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	if args.Difficulty > MaxDifficulty {
		return Block{}, 0, fmt.Errorf("%w: %d is greater than %d", ErrInvalidDifficulty, args.Difficulty, MaxDifficulty)
	}

	ts := args.TimeStamp
	if ts.IsZero() {
		ts = time.Now()
	}

	// Construct the block to be mined. The nonce starts at zero.
	nb := NewBlockAt(args.PrevBlock.Index+1, args.Payload, args.PrevBlock.Hash, ts)

	attempts, err := nb.performPOW(ctx, args.Difficulty, args.MaxAttempts, ev)
	if err != nil {
		return Block{}, attempts, err
	}

	return nb, attempts, nil
}

// performPOW does the work of mining to find a valid hash for the block.
// Pointer semantics are being used since a nonce is being discovered.
func (b *Block) performPOW(ctx context.Context, difficulty uint, maxAttempts uint64, ev func(v string, args ...any)) (uint64, error) {
	ev("database: performPOW: MINING: started: blk[%d]: difficulty[%d]", b.Index, difficulty)
	defer ev("database: performPOW: MINING: completed: blk[%d]", b.Index)

	var attempts uint64
	for {

		// Did we get cancelled or timeout trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: performPOW: MINING: CANCELLED: attempts[%d]", attempts)
			return attempts, ctx.Err()
		}

		if maxAttempts > 0 && attempts == maxAttempts {
			ev("database: performPOW: MINING: EXHAUSTED: attempts[%d]", attempts)
			return attempts, ErrMaxAttempts
		}

		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: performPOW: MINING: attempts[%d]", attempts)
		}

		// Hash the block and check if we have solved the puzzle.
		hash := b.CalculateHash()
		if !IsHashSolved(difficulty, hash) {
			b.Nonce++
			continue
		}
		b.Hash = hash

		ev("database: performPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]: attempts[%d]", signature.Short(b.PrevBlockHash), signature.Short(hash), b.Nonce, attempts)

		return attempts, nil
	}
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	const match = "0000000000000000000000000000000000000000000000000000000000000000"

	if difficulty > MaxDifficulty || !signature.IsDigest(hash) {
		return false
	}

	digits := signature.Digits(hash)
	return digits[:difficulty] == match[:difficulty]
}
