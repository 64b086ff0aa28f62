// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/forkchain/foundation/validate"
)

// Defaults used when no genesis file is provided.
const (
	DefaultPayload    = "Genesis Block"
	DefaultDifficulty = 4
)

// Genesis represents the genesis file.
type Genesis struct {
	Date        time.Time `json:"date"`
	Payload     string    `json:"payload" validate:"required"`  // Payload of the first block of every node's chain.
	Difficulty  uint      `json:"difficulty" validate:"lte=64"` // How difficult it needs to be to solve the work problem.
	MaxAttempts uint64    `json:"max_attempts"`                 // Bound on nonces tried per block, zero is unbounded.
}

// Default returns the genesis settings used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:       time.Now().UTC(),
		Payload:    DefaultPayload,
		Difficulty: DefaultDifficulty,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. An empty path returns the
// default settings.
func Load(path string) (Genesis, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	if err := validate.Check(genesis); err != nil {
		return Genesis{}, fmt.Errorf("validating %s: %w", path, err)
	}

	return genesis, nil
}
