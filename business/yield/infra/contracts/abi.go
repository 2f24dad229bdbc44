// Package contracts binds the Aura and Balancer contract roles to a chain
// reader through parsed ABI descriptors.
package contracts

// RewardDistributorABI covers the Aura BaseRewardPool reads.
const RewardDistributorABI = `[
	{"inputs": [], "name": "rewardRate", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "rewardToken", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "extraRewardsLength", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
	{"inputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "name": "extraRewards", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "asset", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"}
]`

// RewardConverterABI is the AURA minter conversion.
const RewardConverterABI = `[
	{
		"inputs": [{"internalType": "uint256", "name": "_amount", "type": "uint256"}],
		"name": "convertCrvToCvx",
		"outputs": [{"internalType": "uint256", "name": "amount", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// WrappedTokenABI is the stash token wrapper of an extra reward.
const WrappedTokenABI = `[
	{"inputs": [], "name": "baseToken", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"}
]`

// PoolTokenABI covers Balancer pool tokens and plain ERC-20 supply reads.
const PoolTokenABI = `[
	{"inputs": [], "name": "getPoolId", "outputs": [{"internalType": "bytes32", "name": "", "type": "bytes32"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "totalSupply", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "decimals", "outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"}
]`
