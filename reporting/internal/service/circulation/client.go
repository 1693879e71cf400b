package circulation

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
	BaseURL     string        `envconfig:"CIRCULATION_SERVICE_URL" default:"http://localhost:3002"`
	Timeout     time.Duration `envconfig:"CIRCULATION_CLIENT_TIMEOUT" default:"10s"`
	ServiceName string        `envconfig:"CIRCULATION_CLIENT_NAME" default:"reporting->circulation"`
}

// Client reads loan state for report aggregation.
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

func (c *Client) ListLoans(ctx context.Context) ([]model.Loan, error) {
	return c.listLoans(ctx, "/api/loans")
}

func (c *Client) ListActiveLoans(ctx context.Context) ([]model.Loan, error) {
	return c.listLoans(ctx, "/api/loans/active")
}

func (c *Client) ListOverdueLoans(ctx context.Context) ([]model.Loan, error) {
	return c.listLoans(ctx, "/api/loans/overdue")
}

func (c *Client) ListLoansByMember(ctx context.Context, memberID string) ([]model.Loan, error) {
	return c.listLoans(ctx, "/api/loans/member/"+memberID)
}

func (c *Client) ListLoansByItem(ctx context.Context, itemID string) ([]model.Loan, error) {
	return c.listLoans(ctx, "/api/loans/item/"+itemID)
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
		return fmt.Errorf("circulation health status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) listLoans(ctx context.Context, path string) ([]model.Loan, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", echo.MIMEApplicationJSONCharsetUTF8)
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("get", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errors.Errorf("circulation %s: status %d", path, resp.StatusCode)
	}
	var loans []model.Loan
	if err := json.Unmarshal(raw, &loans); err != nil {
		return nil, errors.Wrapf(err, "circulation %s", path)
	}
	return loans, nil
}
