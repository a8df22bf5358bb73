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

// solana resolves a slot number to its block time via the getBlockTime
// JSON-RPC call, whose single positional param is the decimal slot. The
// result is epoch seconds and may be null for skipped or pruned slots.
type solana struct {
	endpoint string
	client   *resty.Client
	logger   *logger.Logger
}

func NewSolana(endpoint string, logger *logger.Logger) BlockTimeResolver {
	return &solana{
		endpoint: endpoint,
		client:   resty.New().SetTimeout(rpcCallTimeout),
		logger:   logger,
	}
}

type solanaBlockTimeResponse struct {
	Result *int64        `json:"result"`
	Error  *jsonRPCError `json:"error"`
}

func (c *solana) BlockTime(ctx context.Context, blockNumber uint64) *time.Time {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(jsonRPCRequest{
			JSONRPC: "2.0",
			ID:      1,
			Method:  "getBlockTime",
			Params:  []uint64{blockNumber},
		}).
		Post(c.endpoint)
	if err != nil {
		c.logger.Error("[BlockTime][solana.getBlockTime]", map[string]string{
			"chain": model.ChainSolana.String(),
			"block": strconv.FormatUint(blockNumber, 10),
			"error": err.Error(),
		})
		return nil
	}

	result, err := parseSolanaBlockTime(resp.StatusCode(), resp.Body())
	if err != nil {
		c.logger.Error("[BlockTime][solana.getBlockTime]", map[string]string{
			"chain": model.ChainSolana.String(),
			"block": strconv.FormatUint(blockNumber, 10),
			"error": err.Error(),
		})
		return nil
	}

	t := civilTime(result)
	return &t
}

func parseSolanaBlockTime(statusCode int, body []byte) (int64, error) {
	if statusCode != 200 {
		return 0, fmt.Errorf("unexpected status code: %d", statusCode)
	}

	var parsed solanaBlockTimeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse response: %v", err)
	}

	if parsed.Error != nil {
		return 0, parsed.Error
	}
	if parsed.Result == nil {
		return 0, fmt.Errorf("no block time for slot")
	}

	return *parsed.Result, nil
}
