// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum"

	"github.com/fd1az/aura-yield/business/blockchain/domain"
)

// ChainReader is the read-only view of the node every other context shares.
type ChainReader interface {
	ethereum.ContractCaller

	// LatestBlock retrieves the most recent block header.
	LatestBlock(ctx context.Context) (*domain.Block, error)

	// State returns the current connection state.
	State() domain.ConnectionState
}
