package ledgergrp

import (
	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
)

type newPayload struct {
	Payload string `json:"payload" validate:"required"`
}

type chain struct {
	ID     string           `json:"id"`
	Length uint64           `json:"length"`
	Blocks []database.Block `json:"blocks"`
}

type mined struct {
	Block   database.Block `json:"block"`
	Elapsed string         `json:"elapsed"`
}

type status struct {
	Status string `json:"status"`
}

func toChain(id string, c database.Chain) chain {
	return chain{
		ID:     id,
		Length: c.Length(),
		Blocks: c.Blocks(),
	}
}
