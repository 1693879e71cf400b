package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/circulation/internal/errs"
	"github.com/mac0206/library-system/circulation/internal/service/catalog"
)

func newClient(t *testing.T, h http.Handler) (*catalog.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := catalog.NewClient(zap.NewExample().Named("test"), catalog.Config{
		BaseURL:     srv.URL,
		Timeout:     time.Second,
		ServiceName: "test->catalog",
	})
	return client, srv
}

func TestClient_GetItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok. enveloped payload", func(t *testing.T) {
		t.Parallel()
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/items/item-1", r.URL.Path)
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"item-1","title":"Dune","availability":true}}`))
		}))

		item, err := client.GetItem(ctx, "item-1")
		require.NoError(t, err)
		require.Equal(t, "item-1", item.ID)
		require.Equal(t, "Dune", item.Title)
		require.True(t, item.Availability)
	})

	t.Run("ok. bare payload", func(t *testing.T) {
		t.Parallel()
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"item-1","title":"Dune","availability":false}`))
		}))

		item, err := client.GetItem(ctx, "item-1")
		require.NoError(t, err)
		require.False(t, item.Availability)
	})

	t.Run("ok. falls back to legacy books path", func(t *testing.T) {
		t.Parallel()
		var paths []string
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			if r.URL.Path == "/api/items/item-1" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"item-1","availability":true}}`))
		}))

		item, err := client.GetItem(ctx, "item-1")
		require.NoError(t, err)
		require.True(t, item.Availability)
		require.Equal(t, []string{"/api/items/item-1", "/api/books/item-1"}, paths)
	})

	t.Run("err. not found on both paths", func(t *testing.T) {
		t.Parallel()
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.GetItem(ctx, "missing")
		require.ErrorIs(t, err, errs.ErrItemNotFound)
	})

	t.Run("err. upstream error envelope", func(t *testing.T) {
		t.Parallel()
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"error":"db down"}`))
		}))

		_, err := client.GetItem(ctx, "item-1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "db down")
	})
}

func TestClient_SetItemAvailability(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Equal(t, "/api/items/item-1", r.URL.Path)
			var body map[string]bool
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, map[string]bool{"availability": false}, body)
			_, _ = w.Write([]byte(`{"success":true}`))
		}))

		require.NoError(t, client.SetItemAvailability(ctx, "item-1", false))
	})

	t.Run("ok. legacy fallback", func(t *testing.T) {
		t.Parallel()
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/items/item-1" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			require.Equal(t, "/api/books/item-1", r.URL.Path)
			_, _ = w.Write([]byte(`{"success":true}`))
		}))

		require.NoError(t, client.SetItemAvailability(ctx, "item-1", true))
	})

	t.Run("err. both paths fail", func(t *testing.T) {
		t.Parallel()
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		require.Error(t, client.SetItemAvailability(ctx, "item-1", true))
	})
}

func TestClient_Members(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("get member", func(t *testing.T) {
		t.Parallel()
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/members/member-1", r.URL.Path)
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"member-1","name":"Paul","borrowedItems":["item-1"]}}`))
		}))

		member, err := client.GetMember(ctx, "member-1")
		require.NoError(t, err)
		require.Equal(t, "Paul", member.Name)
		require.Equal(t, []string{"item-1"}, member.BorrowedItems)
	})

	t.Run("update member items", func(t *testing.T) {
		t.Parallel()
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Equal(t, "/api/members/member-1", r.URL.Path)
			var body map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, []string{"item-1", "item-2"}, body["borrowedItems"])
			_, _ = w.Write([]byte(`{"success":true}`))
		}))

		require.NoError(t, client.UpdateMemberItems(ctx, "member-1", []string{"item-1", "item-2"}))
	})

	t.Run("err. missing member is labelled as a member", func(t *testing.T) {
		t.Parallel()
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.GetMember(ctx, "member-404")
		require.ErrorIs(t, err, errs.ErrMemberNotFound)
		require.NotErrorIs(t, err, errs.ErrItemNotFound)

		err = client.UpdateMemberItems(ctx, "member-404", []string{"item-1"})
		require.ErrorIs(t, err, errs.ErrMemberNotFound)
	})
}

func TestClient_Health(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/manage/health", r.URL.Path)
			_, _ = w.Write([]byte("OK"))
		}))
		require.NoError(t, client.Health(ctx))
	})

	t.Run("err. unhealthy", func(t *testing.T) {
		t.Parallel()
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		require.Error(t, client.Health(ctx))
	})
}
