package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"

	"github.com/fd1az/aura-yield/business/blockchain/domain"
)

// BlockchainService exposes chain access to the other modules.
type BlockchainService struct {
	reader ChainReader
}

// NewBlockchainService creates a new BlockchainService.
func NewBlockchainService(reader ChainReader) *BlockchainService {
	return &BlockchainService{reader: reader}
}

// Caller returns the contract caller used to build bindings.
func (s *BlockchainService) Caller() ethereum.ContractCaller {
	return s.reader
}

// LatestBlock retrieves the most recent block.
func (s *BlockchainService) LatestBlock(ctx context.Context) (*domain.Block, error) {
	return s.reader.LatestBlock(ctx)
}

// ConnectionState returns the current connection state.
func (s *BlockchainService) ConnectionState() domain.ConnectionState {
	return s.reader.State()
}

// HealthCheck reports whether the node answers and how stale its head is.
func (s *BlockchainService) HealthCheck(ctx context.Context) (bool, string) {
	block, err := s.reader.LatestBlock(ctx)
	if err != nil {
		return false, err.Error()
	}
	age := time.Since(block.Timestamp).Round(time.Second)
	return true, fmt.Sprintf("block %d (%s old)", block.Number, age)
}
