package server

import (
	"net"
	"net/rpc"

	"github.com/alanwang67/todo_services/rpc/protocol"
	"github.com/alanwang67/todo_services/storage"
	"github.com/charmbracelet/log"
)

func New(id uint64, self *protocol.Connection, store *storage.Store) *Server {
	if store == nil {
		store = storage.New()
	}
	return &Server{
		Id:    id,
		Self:  self,
		store: store,
	}
}

// Handles a create request by appending a new todo and replying with it.
// An empty title is stored as-is.
func (s *Server) CreateTodo(req *TodoRequest, reply *TodoResponse) error {
	todo := s.store.Append(req.Title, req.Completed)
	*reply = toResponse(todo)

	log.Debugf("server %d created todo %d %q", s.Id, todo.Id, todo.Title)
	return nil
}

// Handles a list request and replies with every todo in creation order.
func (s *Server) GetTodos(req *Empty, reply *TodoList) error {
	todos := s.store.ListAll()

	reply.Todos = make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		reply.Todos = append(reply.Todos, toResponse(todo))
	}

	log.Debugf("server %d listed %d todos", s.Id, len(reply.Todos))
	return nil
}

// Starts the server and listens for incoming connections.
func (s *Server) Start() error {
	log.Debugf("starting server %d", s.Id)

	l, err := net.Listen(s.Self.Network, s.Self.Address)
	if err != nil {
		return err
	}
	log.Infof("server %d listening on %s", s.Id, l.Addr())

	return s.Serve(l)
}

// Serve accepts connections on l until Close is called, serving each one on
// its own goroutine.
func (s *Server) Serve(l net.Listener) error {
	rs := rpc.NewServer()
	if err := rs.RegisterName(protocol.ServiceName, s); err != nil {
		l.Close()
		return err
	}

	s.mutex.Lock()
	s.listener = l
	closed := s.closed
	s.mutex.Unlock()
	defer l.Close()

	if closed {
		return nil
	}

	for {
		conn, err := l.Accept()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			log.Errorf("server %d accept error: %v", s.Id, err)
			continue
		}
		go rs.ServeConn(conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.closed = true
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) isClosed() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.closed
}

func toResponse(todo storage.Todo) TodoResponse {
	return TodoResponse{Id: todo.Id, Title: todo.Title, Completed: todo.Completed}
}
