// Package signature provides helper functions for producing the digests
// that link blocks together.
package signature

import (
	"crypto/sha256"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros. It is returned when a value
// can't be encoded for hashing.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// HashLength is the number of hex digits in a digest, not counting the
// 0x prefix.
const HashLength = 64

// =============================================================================

// Hash returns a unique string for the value. The value is marshaled to JSON
// so field order in a struct fixes the encoding order.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// Digits returns the hex digits of the hash without the 0x prefix. Values
// that are not a well formed digest are returned unchanged.
func Digits(hash string) string {
	if !IsDigest(hash) {
		return hash
	}
	return strings.TrimPrefix(hash, "0x")
}

// IsDigest reports whether the string has the shape of a value produced
// by Hash.
func IsDigest(hash string) bool {
	if len(hash) != HashLength+2 || !strings.HasPrefix(hash, "0x") {
		return false
	}

	_, err := hexutil.Decode(hash)
	return err == nil
}

// Short returns an abbreviated form of the hash for logging.
func Short(hash string) string {
	const size = 10
	if len(hash) <= size {
		return hash
	}
	return hash[:size]
}
