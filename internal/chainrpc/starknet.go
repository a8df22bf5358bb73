package chainrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/swaplens/analytics-backend/internal/model"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

// starknet resolves block times via starknet_getBlockWithTxHashes. Unlike
// getBlockTime on Solana, the block reference goes inside a named block_id
// object and the timestamp sits on the result body.
type starknet struct {
	endpoint string
	client   *resty.Client
	logger   *logger.Logger
}

func NewStarknet(endpoint string, logger *logger.Logger) BlockTimeResolver {
	return &starknet{
		endpoint: endpoint,
		client:   resty.New().SetTimeout(rpcCallTimeout),
		logger:   logger,
	}
}

type starknetBlockResponse struct {
	Result *struct {
		Timestamp int64 `json:"timestamp"`
	} `json:"result"`
	Error *jsonRPCError `json:"error"`
}

func (c *starknet) BlockTime(ctx context.Context, blockNumber uint64) *time.Time {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(jsonRPCRequest{
			JSONRPC: "2.0",
			ID:      1,
			Method:  "starknet_getBlockWithTxHashes",
			Params: map[string]interface{}{
				"block_id": map[string]uint64{"block_number": blockNumber},
			},
		}).
		Post(c.endpoint)
	if err != nil {
		c.logger.Error("[BlockTime][starknet.getBlockWithTxHashes]", map[string]string{
			"chain": model.ChainStarknet.String(),
			"block": strconv.FormatUint(blockNumber, 10),
			"error": err.Error(),
		})
		return nil
	}

	timestamp, err := parseStarknetBlockTime(resp.StatusCode(), resp.Body())
	if err != nil {
		c.logger.Error("[BlockTime][starknet.getBlockWithTxHashes]", map[string]string{
			"chain": model.ChainStarknet.String(),
			"block": strconv.FormatUint(blockNumber, 10),
			"error": err.Error(),
		})
		return nil
	}

	t := civilTime(timestamp)
	return &t
}

func parseStarknetBlockTime(statusCode int, body []byte) (int64, error) {
	if statusCode != 200 {
		return 0, fmt.Errorf("unexpected status code: %d", statusCode)
	}

	var parsed starknetBlockResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse response: %v", err)
	}

	if parsed.Error != nil {
		return 0, parsed.Error
	}
	if parsed.Result == nil {
		return 0, fmt.Errorf("no block in response")
	}

	return parsed.Result.Timestamp, nil
}
