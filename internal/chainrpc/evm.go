package chainrpc

import (
	"context"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/swaplens/analytics-backend/internal/model"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

// evm resolves block times on EVM networks through eth_getBlockByNumber,
// reading the timestamp off the block header.
type evm struct {
	chain  model.Chain
	client *ethclient.Client
	logger *logger.Logger
}

func NewEVM(endpoint string, chain model.Chain, logger *logger.Logger) (BlockTimeResolver, error) {
	client, err := ethclient.Dial(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial rpc endpoint")
	}

	return &evm{
		chain:  chain,
		client: client,
		logger: logger,
	}, nil
}

func (c *evm) BlockTime(ctx context.Context, blockNumber uint64) *time.Time {
	ctx, cancel := context.WithTimeout(ctx, rpcCallTimeout)
	defer cancel()

	header, err := c.client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		c.logger.Error("[BlockTime][evm.HeaderByNumber]", map[string]string{
			"chain": c.chain.String(),
			"block": strconv.FormatUint(blockNumber, 10),
			"error": err.Error(),
		})
		return nil
	}

	t := civilTime(int64(header.Time))
	return &t
}
