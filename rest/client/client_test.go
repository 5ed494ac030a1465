package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alanwang67/todo_services/rest/server"
	"github.com/alanwang67/todo_services/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T) *Client {
	t.Helper()
	ts := httptest.NewServer(server.New(nil).Handler())
	t.Cleanup(ts.Close)

	c, err := New(ts.URL)
	require.NoError(t, err)
	return c
}

func TestClientScenario(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()

	created, err := c.Create(ctx, "Learn gRPC", false)
	require.NoError(t, err)
	assert.Equal(t, storage.Todo{Id: 1, Title: "Learn gRPC"}, created)

	todos, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []storage.Todo{created}, todos)

	done := true
	updated, err := c.Update(ctx, 1, nil, &done)
	require.NoError(t, err)
	assert.Equal(t, storage.Todo{Id: 1, Title: "Learn gRPC", Completed: true}, updated)

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	deleted, err := c.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, server.MessageDeleted, deleted.Message)
	assert.Equal(t, updated, deleted.Todo)

	_, err = c.Get(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClientNotFound(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()

	_, err := c.Get(ctx, 9)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	title := "x"
	_, err = c.Update(ctx, 9, &title, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = c.Delete(ctx, 9)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClientAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"title is required"}`))
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	_, err = c.Create(context.Background(), "", false)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "title is required", apiErr.Detail)
}

func TestClientListEmpty(t *testing.T) {
	c := setupTestClient(t)

	todos, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, todos)
}
