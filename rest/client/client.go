package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alanwang67/todo_services/rest/server"
	"github.com/alanwang67/todo_services/storage"
)

// APIError is returned for any non-2xx reply other than 404.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rest: status %d: %s", e.Status, e.Detail)
}

// Client talks to a REST todo server rooted at BaseURL.
type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
}

func New(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Client{BaseURL: u, HTTPClient: http.DefaultClient}, nil
}

func (c *Client) Create(ctx context.Context, title string, completed bool) (storage.Todo, error) {
	var todo storage.Todo
	err := c.do(ctx, http.MethodPost, c.BaseURL.JoinPath("todos"), server.CreateRequest{Title: &title, Completed: &completed}, &todo)
	return todo, err
}

func (c *Client) List(ctx context.Context) ([]storage.Todo, error) {
	var todos []storage.Todo
	err := c.do(ctx, http.MethodGet, c.BaseURL.JoinPath("todos"), nil, &todos)
	return todos, err
}

func (c *Client) Get(ctx context.Context, id int64) (storage.Todo, error) {
	var todo storage.Todo
	err := c.do(ctx, http.MethodGet, c.todoURL(id), nil, &todo)
	return todo, err
}

// Update sends only the non-nil fields.
func (c *Client) Update(ctx context.Context, id int64, title *string, completed *bool) (storage.Todo, error) {
	var todo storage.Todo
	err := c.do(ctx, http.MethodPut, c.todoURL(id), server.UpdateRequest{Title: title, Completed: completed}, &todo)
	return todo, err
}

func (c *Client) Delete(ctx context.Context, id int64) (server.DeleteResponse, error) {
	var resp server.DeleteResponse
	err := c.do(ctx, http.MethodDelete, c.todoURL(id), nil, &resp)
	return resp, err
}

func (c *Client) todoURL(id int64) *url.URL {
	return c.BaseURL.JoinPath("todos", strconv.FormatInt(id, 10))
}

func (c *Client) do(ctx context.Context, method string, u *url.URL, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u.Path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return storage.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var e server.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Detail: e.Detail}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
