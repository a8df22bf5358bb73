package chainrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"

	"github.com/swaplens/analytics-backend/internal/model"
	"github.com/swaplens/analytics-backend/internal/utils/logger"
)

// esplora resolves block times through a Blockstream-style indexing API:
// block height to block hash, then block hash to block metadata.
type esplora struct {
	chain   model.Chain
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

func NewEsplora(baseURL string, chain model.Chain, logger *logger.Logger) BlockTimeResolver {
	return &esplora{
		chain:   chain,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: rpcCallTimeout},
		logger:  logger,
	}
}

type esploraBlock struct {
	ID        string `json:"id"`
	Height    uint64 `json:"height"`
	Timestamp int64  `json:"timestamp"`
}

func (c *esplora) BlockTime(ctx context.Context, blockNumber uint64) *time.Time {
	hash, err := c.blockHash(ctx, blockNumber)
	if err != nil {
		c.logger.Error("[BlockTime][esplora.blockHash]", map[string]string{
			"chain": c.chain.String(),
			"block": strconv.FormatUint(blockNumber, 10),
			"error": err.Error(),
		})
		return nil
	}

	block, err := c.block(ctx, hash)
	if err != nil {
		c.logger.Error("[BlockTime][esplora.block]", map[string]string{
			"chain": c.chain.String(),
			"block": strconv.FormatUint(blockNumber, 10),
			"hash":  hash,
			"error": err.Error(),
		})
		return nil
	}

	t := civilTime(block.Timestamp)
	return &t
}

// blockHash resolves a height to its block hash via GET /block-height/{n},
// which returns the hash as a plain text body.
func (c *esplora) blockHash(ctx context.Context, blockNumber uint64) (string, error) {
	url := fmt.Sprintf("%s/block-height/%d", c.baseURL, blockNumber)

	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}

	hash := strings.TrimSpace(string(body))
	if _, err := chainhash.NewHashFromStr(hash); err != nil {
		return "", errors.Wrapf(err, "invalid block hash %q", hash)
	}

	return hash, nil
}

func (c *esplora) block(ctx context.Context, hash string) (*esploraBlock, error) {
	url := fmt.Sprintf("%s/block/%s", c.baseURL, hash)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var block esploraBlock
	if err := json.Unmarshal(body, &block); err != nil {
		return nil, errors.Wrap(err, "failed to parse block")
	}

	return &block, nil
}

func (c *esplora) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
