package asset

import "github.com/ethereum/go-ethereum/common"

// ChainIDEthereum is mainnet.
const ChainIDEthereum = 1

// Price-table slugs.
const (
	SlugAura     = "aura-finance"
	SlugBalancer = "balancer"
	SlugWETH     = "weth"
	SlugAuraBal  = "aura-bal"
)

// Mainnet token addresses.
var (
	AddrBAL     = common.HexToAddress("0xba100000625a3754423978a60c9317c58a424e3D")
	AddrAURA    = common.HexToAddress("0xC0c293ce456fF0ED870ADd98a0828Dd4d2903DBF")
	AddrWETH    = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	AddrAuraBAL = common.HexToAddress("0x616e8BfA43F920657B3497DBf40D6b1A02D4608d")
)

var (
	BAL     = NewToken(AddrBAL, "BAL", "Balancer", SlugBalancer, 18)
	AURA    = NewToken(AddrAURA, "AURA", "Aura Finance", SlugAura, 18)
	WETH    = NewToken(AddrWETH, "WETH", "Wrapped Ether", SlugWETH, 18)
	AuraBAL = NewToken(AddrAuraBAL, "auraBAL", "Aura BAL", SlugAuraBal, 18)
)

// DefaultRegistry returns a registry with the tokens every composer prices.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(BAL)
	r.Register(AURA)
	r.Register(WETH)
	r.Register(AuraBAL)
	return r
}
