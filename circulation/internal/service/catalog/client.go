package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/circulation/internal/errs"
	"github.com/mac0206/library-system/circulation/internal/model"
)

// Config is the explicit client configuration; no globals.
type Config struct {
	BaseURL     string        `envconfig:"CATALOG_SERVICE_URL" default:"http://localhost:3001"`
	Timeout     time.Duration `envconfig:"CATALOG_CLIENT_TIMEOUT" default:"10s"`
	ServiceName string        `envconfig:"CATALOG_CLIENT_NAME" default:"circulation->catalog"`
}

// Client talks to the catalog service. Item reads and writes try the
// modern /api/items path first and fall back to the legacy /api/books
// path, a compatibility shim for the ongoing resource rename.
type Client struct {
	log    *zap.Logger
	client *http.Client
	cfg    Config
}

func NewClient(log *zap.Logger, cfg Config) *Client {
	return &Client{
		log:    log.Named(cfg.ServiceName),
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// ErrNotFound is the raw upstream 404. The exported methods label it
// with the sentinel for the resource they were asked about.
var ErrNotFound = errors.New("catalog: not found")

// envelope unwraps the {success, data} response shape; bare payloads
// are handled by the callers re-decoding raw.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) GetItem(ctx context.Context, itemID string) (model.Item, error) {
	var item model.Item
	err := c.getJSON(ctx, "/api/items/"+itemID, &item)
	if err != nil {
		if fbErr := c.getJSON(ctx, "/api/books/"+itemID, &item); fbErr == nil {
			return item, nil
		} else if errors.Is(fbErr, ErrNotFound) {
			return model.Item{}, errs.ErrItemNotFound
		}
		return model.Item{}, err
	}
	return item, nil
}

func (c *Client) SetItemAvailability(ctx context.Context, itemID string, available bool) error {
	body := map[string]bool{"availability": available}
	if err := c.putJSON(ctx, "/api/items/"+itemID, body); err != nil {
		if fbErr := c.putJSON(ctx, "/api/books/"+itemID, body); fbErr == nil {
			return nil
		}
		if errors.Is(err, ErrNotFound) {
			return errs.ErrItemNotFound
		}
		return err
	}
	return nil
}

func (c *Client) GetMember(ctx context.Context, memberID string) (model.Member, error) {
	var member model.Member
	if err := c.getJSON(ctx, "/api/members/"+memberID, &member); err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Member{}, errs.ErrMemberNotFound
		}
		return model.Member{}, err
	}
	return member, nil
}

func (c *Client) UpdateMemberItems(ctx context.Context, memberID string, borrowedItems []string) error {
	if err := c.putJSON(ctx, "/api/members/"+memberID, map[string][]string{"borrowedItems": borrowedItems}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errs.ErrMemberNotFound
		}
		return err
	}
	return nil
}

// Health probes the catalog service liveness endpoint.
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
	return c.decode(resp, path, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body interface{}) error {
	b := bytes.NewBuffer(nil)
	if err := json.NewEncoder(b).Encode(body); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.cfg.BaseURL+path, b)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", echo.MIMEApplicationJSONCharsetUTF8)
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("put", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	return c.decode(resp, path, nil)
}

func (c *Client) decode(resp *http.Response, path string, out interface{}) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= http.StatusBadRequest:
		var env envelope
		if err := json.Unmarshal(raw, &env); err == nil && env.Error != "" {
			return errors.Errorf("catalog %s: %s", path, env.Error)
		}
		return errors.Errorf("catalog %s: status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(raw, out)
}
