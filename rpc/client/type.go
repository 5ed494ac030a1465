package client

import (
	"github.com/alanwang67/todo_services/rpc/protocol"
)

// Client represents a todo client talking to a single RPC server.
type Client struct {
	Id     uint64               // Unique ID of the client
	Server *protocol.Connection // Server the client talks to
}
