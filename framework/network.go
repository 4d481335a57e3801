package framework

import "slices"

const (
	NetworkDevelopment = "development"
	NetworkHardhat     = "hardhat"
	NetworkGanache     = "ganache"
	NetworkSimulated   = "simulated"
	NetworkMainnetFork = "mainnet-fork"
	NetworkBinanceFork = "binance-fork"
	NetworkMaticFork   = "matic-fork"
)

var (
	// NonForkedLocalBlockchainEnvironments are throwaway chains started empty.
	NonForkedLocalBlockchainEnvironments = []string{
		NetworkHardhat,
		NetworkDevelopment,
		NetworkGanache,
		NetworkSimulated,
	}

	// LocalBlockchainEnvironments are chains whose clock may be moved and whose
	// development accounts are funded.
	LocalBlockchainEnvironments = []string{
		NetworkHardhat,
		NetworkDevelopment,
		NetworkGanache,
		NetworkSimulated,
		NetworkMainnetFork,
		NetworkBinanceFork,
		NetworkMaticFork,
	}

	defaultRPC = map[string]string{
		NetworkDevelopment: "http://127.0.0.1:8545",
		NetworkHardhat:     "http://127.0.0.1:8545",
		NetworkGanache:     "http://127.0.0.1:7545",
		NetworkMainnetFork: "http://127.0.0.1:8545",
		NetworkBinanceFork: "http://127.0.0.1:8545",
		NetworkMaticFork:   "http://127.0.0.1:8545",
	}
)

func IsLocal(network string) bool {
	return slices.Contains(LocalBlockchainEnvironments, network)
}

func IsForked(network string) bool {
	return IsLocal(network) && !slices.Contains(NonForkedLocalBlockchainEnvironments, network)
}

// DefaultRPC returns the conventional endpoint of a local network.
func DefaultRPC(network string) (string, bool) {
	url, ok := defaultRPC[network]
	return url, ok
}
