package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/genricoloni/nowrelay/internal/config"
	"github.com/genricoloni/nowrelay/internal/domain"
	"go.uber.org/zap"
)

// UpdatePath is the gateway endpoint receiving payloads
const UpdatePath = "/update"

// Client sends commands and payloads to the local relay gateway.
// Each call issues exactly one request; there are no retries.
type Client struct {
	logger  *zap.Logger
	client  *http.Client
	baseURL string
}

// NewClient creates a gateway client from the bridge configuration
func NewClient(logger *zap.Logger, cfg *config.Config) *Client {
	return &Client{
		logger: logger,
		client: &http.Client{
			Timeout: cfg.Bridge.RequestTimeout,
		},
		baseURL: cfg.Bridge.GatewayURL,
	}
}

// SendCommand issues GET {gateway}/{token}
func (c *Client) SendCommand(ctx context.Context, cmd domain.Command) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+cmd.Token(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.do(req); err != nil {
		return fmt.Errorf("command %s: %w", cmd.Token(), err)
	}
	return nil
}

// Forward posts the payload as JSON to {gateway}/update
func (c *Client) Forward(ctx context.Context, payload domain.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UpdatePath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Posting payload",
		zap.String("title", payload.Title),
		zap.String("body", humanize.Bytes(uint64(len(body)))))

	if err := c.do(req); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.DeviceError{Status: resp.StatusCode}
	}
	return nil
}
