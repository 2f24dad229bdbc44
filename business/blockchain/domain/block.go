// Package domain contains the core domain types for the blockchain context.
package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Block is the subset of a header the yield cycles stamp results with.
type Block struct {
	Number    uint64
	Hash      common.Hash
	Timestamp time.Time
}

// ConnectionState represents the state of the RPC connection.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnected    ConnectionState = "connected"
	StateDegraded     ConnectionState = "degraded"
)
