// Package middleware speaks JSON-RPC 2.0 to a TrueNAS middleware daemon over
// HTTP and adapts it to the engine's gateway port.
package middleware

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/nasadm/truenasctl/internal/core/ports"
	"github.com/nasadm/truenasctl/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const rpcPath = "/api/v2.0/jsonrpc"

// Client is a JSON-RPC 2.0 client for the middleware API. Calls are rate
// limited so bulk plan applies do not trip the middleware's request throttle.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     ports.Logger

	nextID atomic.Int64
}

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// RatePerSecond limits outgoing calls; zero means no limit.
	RatePerSecond float64
}

func NewClient(cfg ClientConfig, logger ports.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New(errors.CodeConfigValidation, "middleware base URL cannot be empty")
	}
	if cfg.APIKey == "" {
		return nil, errors.New(errors.CodeConfigValidation, "middleware API key cannot be empty")
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		logger:     logger,
	}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type rpcResponse struct {
	Result any       `json:"result"`
	Error  *rpcError `json:"error"`
}

// Call invokes one middleware method with positional params and returns the
// decoded result.
func (c *Client) Call(ctx context.Context, method string, params ...any) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CodeTimeout, "rate limiter wait aborted")
	}

	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "encoding rpc request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+rpcPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "building rpc request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debugf(ctx, "rpc call %s", method)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.WrapOp(err, errors.CodeTimeout, method, "", "rpc call cancelled")
		}
		return nil, errors.WrapOp(err, errors.CodeRemoteAPIError, method, "", "rpc transport failure")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapOp(err, errors.CodeRemoteAPIError, method, "", "reading rpc response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, errors.Newf(errors.CodeRemoteAuthError,
			"middleware rejected the API key (HTTP %d)", resp.StatusCode)
	default:
		return nil, errors.Newf(errors.CodeRemoteAPIError,
			"middleware returned HTTP %d for %s: %s", resp.StatusCode, method, truncate(payload, 200))
	}

	var decoded rpcResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, errors.WrapOp(err, errors.CodeRemoteAPIError, method, "", "decoding rpc response")
	}
	if decoded.Error != nil {
		return nil, errors.Newf(errors.CodeRemoteAPIError,
			"%s failed: %s (code %d)", method, decoded.Error.Message, decoded.Error.Code)
	}
	return decoded.Result, nil
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:n], len(s))
}
