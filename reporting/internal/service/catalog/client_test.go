package catalog

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

func TestClient_ListItems(t *testing.T) {
	t.Run("ok. enveloped list", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/items", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"item-1","title":"Dune","availability":true}],"count":1}`))
		})

		items, err := c.ListItems(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, "Dune", items[0].Title)
		require.True(t, items[0].Availability)
	})
	t.Run("ok. bare list", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"item-1","title":"Dune"}]`))
		})

		items, err := c.ListItems(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
	})
	t.Run("err. upstream error surfaces", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"error":"db down"}`))
		})

		_, err := c.ListItems(context.Background())
		require.Error(t, err)
		require.Contains(t, err.Error(), "db down")
	})
}

func TestClient_GetMember(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/members/member-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"member-1","name":"Carol","studentId":"S-1"}`))
	})

	member, err := c.GetMember(context.Background(), "member-1")
	require.NoError(t, err)
	require.Equal(t, "Carol", member.Name)
	require.Equal(t, "S-1", member.StudentID)
}

func TestClient_Health(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/manage/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		})
		require.NoError(t, c.Health(context.Background()))
	})
	t.Run("err. unhealthy status", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		require.Error(t, c.Health(context.Background()))
	})
}
