package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/pkg/circuitbreaker"
	"github.com/mac0206/library-system/reporting/internal/model"
)

type Config struct {
	BaseURL     string        `envconfig:"CATALOG_SERVICE_URL" default:"http://localhost:3001"`
	Timeout     time.Duration `envconfig:"CATALOG_CLIENT_TIMEOUT" default:"10s"`
	ServiceName string        `envconfig:"CATALOG_CLIENT_NAME" default:"reporting->catalog"`
}

// Client reads catalog state for report aggregation. All calls go
// through the caller-held circuit breaker, see CB.
type Client struct {
	log    *zap.Logger
	client *http.Client
	cfg    Config
	cb     circuitbreaker.CircuitBreaker
}

func NewClient(log *zap.Logger, cfg Config) *Client {
	return &Client{
		log:    log.Named(cfg.ServiceName),
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		cb:     circuitbreaker.New(100, time.Second, 0.2, 2),
	}
}

func (c *Client) CB() circuitbreaker.CircuitBreaker {
	return c.cb
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.getJSON(ctx, "/api/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) ListMembers(ctx context.Context) ([]model.Member, error) {
	var members []model.Member
	if err := c.getJSON(ctx, "/api/members", &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) GetItem(ctx context.Context, itemID string) (model.Item, error) {
	var item model.Item
	if err := c.getJSON(ctx, "/api/items/"+itemID, &item); err != nil {
		return model.Item{}, err
	}
	return item, nil
}

func (c *Client) GetMember(ctx context.Context, memberID string) (model.Member, error) {
	var member model.Member
	if err := c.getJSON(ctx, "/api/members/"+memberID, &member); err != nil {
		return model.Member{}, err
	}
	return member, nil
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/manage/health", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog health status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", echo.MIMEApplicationJSONCharsetUTF8)
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("get", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var env envelope
		if err := json.Unmarshal(raw, &env); err == nil && env.Error != "" {
			return errors.Errorf("catalog %s: %s", path, env.Error)
		}
		return errors.Errorf("catalog %s: status %d", path, resp.StatusCode)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(raw, out)
}
