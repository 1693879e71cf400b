package circulation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(zap.NewExample().Named("test"), Config{
		BaseURL: srv.URL,
		Timeout: time.Second,
	})
}

func TestClient_ListLoans(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		var path string
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"loan-1","itemId":"item-1","memberId":"member-1","status":"active"}]`))
		})

		loans, err := c.ListLoans(context.Background())
		require.NoError(t, err)
		require.Equal(t, "/api/loans", path)
		require.Len(t, loans, 1)
		require.Equal(t, "loan-1", loans[0].ID)
	})
	t.Run("err. upstream failure", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := c.ListLoans(context.Background())
		require.Error(t, err)
		require.Contains(t, err.Error(), "status 500")
	})
}

func TestClient_ListRoutes(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) error
		wantPath string
	}{
		{
			name: "active",
			call: func(c *Client) error {
				_, err := c.ListActiveLoans(context.Background())
				return err
			},
			wantPath: "/api/loans/active",
		},
		{
			name: "overdue",
			call: func(c *Client) error {
				_, err := c.ListOverdueLoans(context.Background())
				return err
			},
			wantPath: "/api/loans/overdue",
		},
		{
			name: "by member",
			call: func(c *Client) error {
				_, err := c.ListLoansByMember(context.Background(), "member-1")
				return err
			},
			wantPath: "/api/loans/member/member-1",
		},
		{
			name: "by item",
			call: func(c *Client) error {
				_, err := c.ListLoansByItem(context.Background(), "item-1")
				return err
			},
			wantPath: "/api/loans/item/item-1",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var path string
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[]`))
			})

			require.NoError(t, tt.call(c))
			require.Equal(t, tt.wantPath, path)
		})
	}
}

func TestClient_Health(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/manage/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.Health(context.Background()))
}
