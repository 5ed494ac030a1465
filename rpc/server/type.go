package server

import (
	"net"
	"sync"

	"github.com/alanwang67/todo_services/rpc/protocol"
	"github.com/alanwang67/todo_services/storage"
)

// Server exposes a todo store over net/rpc.
type Server struct {
	Id   uint64
	Self *protocol.Connection

	store *storage.Store

	mutex    sync.Mutex
	listener net.Listener
	closed   bool
}

type TodoRequest struct {
	Title     string
	Completed bool
}

type TodoResponse struct {
	Id        int64
	Title     string
	Completed bool
}

type Empty struct{}

type TodoList struct {
	Todos []TodoResponse
}
