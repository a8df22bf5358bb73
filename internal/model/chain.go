package model

// Chain identifies the network a swap leg settles on. Values match the
// chain identifiers stored by the orderbook.
type Chain string

const (
	ChainBitcoin        Chain = "bitcoin"
	ChainBitcoinTestnet Chain = "bitcoin_testnet"

	ChainEthereum        Chain = "ethereum"
	ChainEthereumSepolia Chain = "ethereum_sepolia"
	ChainArbitrum        Chain = "arbitrum"
	ChainBase            Chain = "base"

	ChainSolana   Chain = "solana"
	ChainStarknet Chain = "starknet"
)

func (c Chain) String() string {
	return string(c)
}
