package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/forkchain/foundation/blockchain/signature"
)

// GenesisPrevHash is the previous block hash recorded by the first block of
// every chain. It is shorter than any digest so it can't be mistaken for one.
const GenesisPrevHash = "0"

// Set of reasons a block can fail validation.
var (
	ErrHashMismatch = errors.New("stored hash does not match block contents")
	ErrLinkBroken   = errors.New("previous hash does not match parent block")
)

// =============================================================================

// Block represents a single record in the chain along with the metadata that
// links it to its parent.
type Block struct {
	Index         uint64 `json:"index"`           // Position of the block in its chain.
	TimeStamp     uint64 `json:"timestamp"`       // Unix seconds when the block was created.
	Payload       string `json:"payload"`         // Opaque content supplied by the caller.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	Nonce         uint64 `json:"nonce"`           // Value identified to solve the hash solution.
	Hash          string `json:"hash"`            // Digest of the fields above.
}

// blockContent is the set of fields covered by the block hash, in the
// order they are encoded. The payload is hashed as bytes so content that
// isn't valid UTF-8 is encoded without loss.
type blockContent struct {
	Index         uint64 `json:"index"`
	TimeStamp     uint64 `json:"timestamp"`
	Payload       []byte `json:"payload"`
	PrevBlockHash string `json:"prev_block_hash"`
	Nonce         uint64 `json:"nonce"`
}

// NewBlock constructs a block stamped with the current time and a nonce
// of zero.
func NewBlock(index uint64, payload string, prevBlockHash string) Block {
	return NewBlockAt(index, payload, prevBlockHash, time.Now())
}

// NewBlockAt constructs a block using the specified creation time. Blocks
// built with the same inputs and time produce the same hash.
func NewBlockAt(index uint64, payload string, prevBlockHash string, ts time.Time) Block {
	b := Block{
		Index:         index,
		TimeStamp:     uint64(ts.UTC().Unix()),
		Payload:       payload,
		PrevBlockHash: prevBlockHash,
		Nonce:         0,
	}
	b.Hash = b.CalculateHash()

	return b
}

// CalculateHash recomputes the digest from the block's current contents. The
// stored Hash field is not consulted.
func (b Block) CalculateHash() string {
	return signature.Hash(blockContent{
		Index:         b.Index,
		TimeStamp:     b.TimeStamp,
		Payload:       []byte(b.Payload),
		PrevBlockHash: b.PrevBlockHash,
		Nonce:         b.Nonce,
	})
}

// IsGenesis reports whether the block is the first block of a chain.
func (b Block) IsGenesis() bool {
	return b.Index == 0 && b.PrevBlockHash == GenesisPrevHash
}

// Time returns the block timestamp as a time value.
func (b Block) Time() time.Time {
	return time.Unix(int64(b.TimeStamp), 0).UTC()
}

// ValidateBlock checks the block against the block that precedes it in
// the chain. Only the hash and the parent linkage are checked.
func (b Block) ValidateBlock(previousBlock Block) error {
	if b.Hash != b.CalculateHash() {
		return &ValidationError{Index: b.Index, Err: ErrHashMismatch}
	}

	if b.PrevBlockHash != previousBlock.Hash {
		return &ValidationError{Index: b.Index, Err: ErrLinkBroken}
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("blk[%d]: hash[%s]: nonce[%d]", b.Index, signature.Short(b.Hash), b.Nonce)
}

// =============================================================================

// ValidationError reports the first block in a chain that failed validation.
type ValidationError struct {
	Index uint64
	Err   error
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("block %d: %s", ve.Index, ve.Err)
}

// Unwrap provides support for errors.Is against the reason.
func (ve *ValidationError) Unwrap() error {
	return ve.Err
}
