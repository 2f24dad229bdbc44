// Package di contains dependency injection tokens for the blockchain context.
package di

import (
	"github.com/fd1az/aura-yield/business/blockchain/app"
	"github.com/fd1az/aura-yield/internal/di"
)

// Public service tokens - exposed to other modules
var (
	BlockchainService = di.NewToken[*app.BlockchainService]("blockchain.BlockchainService")
)

// Private dependency tokens - internal to blockchain module
var (
	ChainReader = di.NewToken[app.ChainReader]("blockchain:chainReader")
)

func GetBlockchainService(c di.ServiceRegistry) *app.BlockchainService {
	return di.GetToken(c, BlockchainService)
}

func GetChainReader(c di.ServiceRegistry) app.ChainReader {
	return di.GetToken(c, ChainReader)
}
