package bitcoin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/ratelimit"
)

const maxResponseBytes = 64 << 20

// ErrHTTPNotFound is returned by EsploraClient for 404 responses.
var ErrHTTPNotFound = errors.New("esplora: not found")

// HTTPStatusError reports a non-2xx Esplora response.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("esplora: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Is makes 404 responses match ErrHTTPNotFound.
func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrHTTPNotFound && e.StatusCode == http.StatusNotFound
}

// EsploraClient is a rate limited client of the Esplora REST API.
type EsploraClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    ratelimit.Limiter
	metrics    RPCMetrics
}

// NewEsploraClient constructs an EsploraClient for baseURL, e.g. https://blockstream.info/api.
func NewEsploraClient(baseURL string, httpClient *http.Client, limiter ratelimit.Limiter, metrics RPCMetrics) *EsploraClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if limiter == nil {
		limiter = ratelimit.NewUnlimited()
	}
	return &EsploraClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		metrics:    metrics,
	}
}

// TipHeight returns the height of the chain tip.
func (c *EsploraClient) TipHeight(ctx context.Context) (uint64, error) {
	body, err := c.get(ctx, "tip_height", "/blocks/tip/height")
	if err != nil {
		return 0, err
	}
	height, err := strconv.ParseUint(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse tip height: %w", err)
	}
	return height, nil
}

// TipHash returns the hash of the chain tip.
func (c *EsploraClient) TipHash(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "tip_hash", "/blocks/tip/hash")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// BlockHash returns the hash of the block at height.
func (c *EsploraClient) BlockHash(ctx context.Context, height uint64) (string, error) {
	body, err := c.get(ctx, "block_hash", "/block-height/"+strconv.FormatUint(height, 10))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// Block returns the block header summary for hash.
func (c *EsploraClient) Block(ctx context.Context, hash string) (*Block, error) {
	body, err := c.get(ctx, "block", "/block/"+hash)
	if err != nil {
		return nil, err
	}
	var block Block
	if err := json.Unmarshal(body, &block); err != nil {
		return nil, fmt.Errorf("decode block %s: %w", hash, err)
	}
	return &block, nil
}

// BlockTxs returns one page of the block's transactions starting at index start.
func (c *EsploraClient) BlockTxs(ctx context.Context, hash string, start int) ([]Tx, error) {
	path := "/block/" + hash + "/txs"
	if start > 0 {
		path += "/" + strconv.Itoa(start)
	}
	body, err := c.get(ctx, "block_txs", path)
	if err != nil {
		return nil, err
	}
	var txs []Tx
	if err := json.Unmarshal(body, &txs); err != nil {
		return nil, fmt.Errorf("decode block %s txs at %d: %w", hash, start, err)
	}
	return txs, nil
}

func (c *EsploraClient) get(ctx context.Context, operation, path string) (body []byte, err error) {
	c.limiter.Take()

	started := time.Now()
	defer func() {
		c.metrics.Observe(operation, err, started)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
