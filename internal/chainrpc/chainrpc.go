package chainrpc

import (
	"context"
	"time"

	"github.com/swaplens/analytics-backend/internal/model"
	"github.com/swaplens/analytics-backend/internal/utils/config"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

// BlockTimeResolver resolves a block number on one chain to that block's
// creation time. A nil result means the time could not be resolved; every
// implementation absorbs its own network and decoding errors after logging
// them, and makes at most one upstream attempt per call.
type BlockTimeResolver interface {
	BlockTime(ctx context.Context, blockNumber uint64) *time.Time
}

// IChainRPC dispatches block-time lookups by chain. Chains without a
// configured resolver yield nil.
type IChainRPC interface {
	BlockTime(ctx context.Context, chain model.Chain, blockNumber uint64) *time.Time
	SupportedChains() []model.Chain
}

type Registry struct {
	resolvers map[model.Chain]BlockTimeResolver
	logger    *logger.Logger
}

// NewRegistry builds one resolver per chain that has an endpoint in the
// config. A chain whose client fails to construct is logged and left
// unresolved rather than failing the whole process.
func NewRegistry(appConfig *config.AppConfig, logger *logger.Logger) *Registry {
	r := &Registry{
		resolvers: map[model.Chain]BlockTimeResolver{},
		logger:    logger,
	}

	rpc := appConfig.ChainRPC

	if rpc.EsploraAPIURL != "" {
		r.resolvers[model.ChainBitcoin] = NewEsplora(rpc.EsploraAPIURL, model.ChainBitcoin, logger)
	}
	if rpc.EsploraTestnetAPIURL != "" {
		r.resolvers[model.ChainBitcoinTestnet] = NewEsplora(rpc.EsploraTestnetAPIURL, model.ChainBitcoinTestnet, logger)
	}

	evmEndpoints := map[model.Chain]string{
		model.ChainEthereum:        rpc.EthereumRPCEndpoint,
		model.ChainEthereumSepolia: rpc.EthereumSepoliaRPCEndpoint,
		model.ChainArbitrum:        rpc.ArbitrumRPCEndpoint,
		model.ChainBase:            rpc.BaseRPCEndpoint,
	}
	for chain, endpoint := range evmEndpoints {
		if endpoint == "" {
			continue
		}

		resolver, err := NewEVM(endpoint, chain, logger)
		if err != nil {
			logger.Error("[NewRegistry] failed to build evm resolver", map[string]string{
				"chain": chain.String(),
				"error": err.Error(),
			})
			continue
		}
		r.resolvers[chain] = resolver
	}

	if rpc.SolanaRPCEndpoint != "" {
		r.resolvers[model.ChainSolana] = NewSolana(rpc.SolanaRPCEndpoint, logger)
	}
	if rpc.StarknetRPCEndpoint != "" {
		r.resolvers[model.ChainStarknet] = NewStarknet(rpc.StarknetRPCEndpoint, logger)
	}

	return r
}

func (r *Registry) BlockTime(ctx context.Context, chain model.Chain, blockNumber uint64) *time.Time {
	resolver, ok := r.resolvers[chain]
	if !ok {
		r.logger.Debug("[BlockTime] no resolver for chain", map[string]string{
			"chain": chain.String(),
		})
		return nil
	}

	return resolver.BlockTime(ctx, blockNumber)
}

func (r *Registry) SupportedChains() []model.Chain {
	chains := make([]model.Chain, 0, len(r.resolvers))
	for chain := range r.resolvers {
		chains = append(chains, chain)
	}

	return chains
}
