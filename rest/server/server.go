package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/alanwang67/todo_services/storage"
	"github.com/charmbracelet/log"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
)

const (
	MessageNotFound = "Todo not found"
	MessageDeleted  = "Todo deleted"
)

func New(store *storage.Store) *Server {
	if store == nil {
		store = storage.New()
	}
	s := &Server{store: store}

	r := mux.NewRouter()
	r.Use(logRequests)

	r.Methods(http.MethodPost).Path("/todos").HandlerFunc(s.createTodo)
	r.Methods(http.MethodGet).Path("/todos").HandlerFunc(s.getTodos)
	r.Methods(http.MethodGet).Path("/todos/{id}").HandlerFunc(s.getTodo)
	r.Methods(http.MethodPut).Path("/todos/{id}").HandlerFunc(s.updateTodo)
	r.Methods(http.MethodDelete).Path("/todos/{id}").HandlerFunc(s.deleteTodo)

	r.NotFoundHandler = logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	}))
	r.MethodNotAllowedHandler = logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}))

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr and blocks until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.mutex.Lock()
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}
	hs := s.httpServer
	s.mutex.Unlock()

	log.Infof("rest server listening on %s", addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mutex.Lock()
	hs := s.httpServer
	s.mutex.Unlock()

	if hs == nil {
		return nil
	}
	return hs.Shutdown(ctx)
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Title == nil {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	completed := false
	if req.Completed != nil {
		completed = *req.Completed
	}

	writeJSON(w, http.StatusOK, s.store.Append(*req.Title, completed))
}

func (s *Server) getTodos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ListAll())
}

func (s *Server) getTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoId(w, r)
	if !ok {
		return
	}

	todo, err := s.store.FindByID(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoId(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	todo, err := s.store.UpdateByID(id, req.Title, req.Completed)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoId(w, r)
	if !ok {
		return
	}

	todo, err := s.store.DeleteByID(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{Message: MessageDeleted, Todo: todo})
}

// todoId parses the {id} path variable, answering 422 when it is not an integer.
func todoId(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "id must be an integer, got "+strconv.Quote(raw))
		return 0, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, MessageNotFound)
		return
	}
	log.Errorf("store error: %v", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		log.Debug("handled", "method", r.Method, "url", r.URL, "status", m.Code, "duration", m.Duration)
	})
}
