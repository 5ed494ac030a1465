package server

import (
	"net"
	"net/rpc"
	"sync"
	"testing"
	"time"

	"github.com/alanwang67/todo_services/rpc/protocol"
	"github.com/alanwang67/todo_services/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerInitialization(t *testing.T) {
	s := setupTestServer()

	assert.Equal(t, uint64(0), s.Id)
	assert.NotNil(t, s.store, "New should create a store when none is given")
	assert.Equal(t, 0, s.store.Len(), "Initial store should be empty")
}

func TestServerUsesInjectedStore(t *testing.T) {
	store := storage.New()
	store.Append("already there", false)

	s := New(0, &protocol.Connection{Network: "tcp", Address: "127.0.0.1:0"}, store)

	reply := &TodoList{}
	err := s.GetTodos(&Empty{}, reply)
	assert.NoError(t, err)
	require.Len(t, reply.Todos, 1)
	assert.Equal(t, "already there", reply.Todos[0].Title)
}

func TestCreateTodo(t *testing.T) {
	s := setupTestServer()

	req := &TodoRequest{Title: "Learn gRPC", Completed: false}
	reply := &TodoResponse{}

	err := s.CreateTodo(req, reply)
	assert.NoError(t, err, "CreateTodo should not return an error")
	assert.Equal(t, TodoResponse{Id: 1, Title: "Learn gRPC", Completed: false}, *reply)
}

func TestCreateTodoAcceptsEmptyTitle(t *testing.T) {
	s := setupTestServer()

	reply := &TodoResponse{}
	err := s.CreateTodo(&TodoRequest{}, reply)
	assert.NoError(t, err, "CreateTodo has no error path")
	assert.Equal(t, int64(1), reply.Id)
	assert.Equal(t, "", reply.Title)
}

func TestGetTodosEmpty(t *testing.T) {
	s := setupTestServer()

	reply := &TodoList{}
	err := s.GetTodos(&Empty{}, reply)
	assert.NoError(t, err)
	assert.NotNil(t, reply.Todos)
	assert.Empty(t, reply.Todos)
}

func TestGetTodosInCreationOrder(t *testing.T) {
	s := setupTestServer()

	titles := []string{"one", "two", "three"}
	for _, title := range titles {
		require.NoError(t, s.CreateTodo(&TodoRequest{Title: title}, &TodoResponse{}))
	}

	reply := &TodoList{}
	err := s.GetTodos(&Empty{}, reply)
	assert.NoError(t, err)
	require.Len(t, reply.Todos, len(titles))
	for i, todo := range reply.Todos {
		assert.Equal(t, int64(i+1), todo.Id)
		assert.Equal(t, titles[i], todo.Title)
	}
}

func TestConcurrentCreateRequests(t *testing.T) {
	s := setupTestServer()

	const n = 50
	var wg sync.WaitGroup
	seen := make(map[int64]bool)
	var mu sync.Mutex

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reply := &TodoResponse{}
			err := s.CreateTodo(&TodoRequest{Title: "task"}, reply)
			assert.NoError(t, err)
			mu.Lock()
			seen[reply.Id] = true
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Len(t, seen, n, "Every concurrent create should receive a distinct id")
	for id := int64(1); id <= n; id++ {
		assert.True(t, seen[id], "id %d should have been assigned", id)
	}
}

func TestServerServe(t *testing.T) {
	s := setupTestServer()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- s.Serve(l)
	}()

	client, err := rpc.Dial("tcp", l.Addr().String())
	require.NoError(t, err, "Should be able to dial the server")
	defer client.Close()

	var created TodoResponse
	err = client.Call(protocol.CreateTodo, &TodoRequest{Title: "Learn gRPC"}, &created)
	assert.NoError(t, err, "RPC call to CreateTodo should not return an error")
	assert.Equal(t, TodoResponse{Id: 1, Title: "Learn gRPC"}, created)

	var list TodoList
	err = client.Call(protocol.GetTodos, &Empty{}, &list)
	assert.NoError(t, err, "RPC call to GetTodos should not return an error")
	assert.Equal(t, []TodoResponse{created}, list.Todos)

	require.NoError(t, s.Close())
	assert.NoError(t, <-done, "Serve should return cleanly after Close")
}

func TestServeAfterClose(t *testing.T) {
	s := setupTestServer()
	require.NoError(t, s.Close())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- s.Serve(l)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err, "Serve should return cleanly when the server is already closed")
	case <-time.After(time.Second):
		t.Fatal("Serve should not block once Close has been called")
	}

	_, err = net.Dial("tcp", l.Addr().String())
	assert.Error(t, err, "Listener should be closed")
}

func TestTwoServersKeepSeparateStores(t *testing.T) {
	a := setupTestServer()
	b := setupTestServer()

	require.NoError(t, a.CreateTodo(&TodoRequest{Title: "only in a"}, &TodoResponse{}))

	reply := &TodoList{}
	require.NoError(t, b.GetTodos(&Empty{}, reply))
	assert.Empty(t, reply.Todos, "Servers should not share state")
}

func setupTestServer() *Server {
	self := &protocol.Connection{
		Network: "tcp",
		Address: "127.0.0.1:0", // Use port 0 for a free port
	}
	return New(0, self, nil)
}
