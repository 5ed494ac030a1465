package server

import (
	"net/http"
	"sync"

	"github.com/alanwang67/todo_services/storage"
	"github.com/gorilla/mux"
)

// Server serves a todo store over HTTP/JSON.
type Server struct {
	store  *storage.Store
	router *mux.Router

	mutex      sync.Mutex
	httpServer *http.Server
}

// CreateRequest is the body of POST /todos. Title is required: a body
// without it, or with a null title, is rejected with 400 instead of storing
// a todo without a title.
type CreateRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed,omitempty"`
}

// UpdateRequest is the body of PUT /todos/{id}. Absent fields are left
// unchanged. A todo always has a title, so an explicit null is treated the
// same as an absent field.
type UpdateRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type DeleteResponse struct {
	Message string       `json:"message"`
	Todo    storage.Todo `json:"todo"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
