package client

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alanwang67/todo_services/rpc/protocol"
	"github.com/alanwang67/todo_services/rpc/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// DemoTitle is the title used by Start for its single create call.
const DemoTitle = "Learn gRPC"

// invoke is swapped out in tests.
var invoke = protocol.Invoke

func New(id uint64, srv *protocol.Connection) *Client {
	log.Debugf("client %d created", id)
	return &Client{
		Id:     id,
		Server: srv,
	}
}

// CreateTodo asks the server to store a new todo and returns it with its id.
func (c *Client) CreateTodo(ctx context.Context, title string, completed bool) (server.TodoResponse, error) {
	req := server.TodoRequest{Title: title, Completed: completed}
	reply := server.TodoResponse{}

	if err := invoke(ctx, *c.Server, protocol.CreateTodo, &req, &reply); err != nil {
		return server.TodoResponse{}, err
	}
	return reply, nil
}

// GetTodos fetches every todo the server holds.
func (c *Client) GetTodos(ctx context.Context) (server.TodoList, error) {
	reply := server.TodoList{}

	if err := invoke(ctx, *c.Server, protocol.GetTodos, &server.Empty{}, &reply); err != nil {
		return server.TodoList{}, err
	}
	return reply, nil
}

// Start creates one todo, lists all todos and prints both replies to w.
func (c *Client) Start(ctx context.Context, w io.Writer) error {
	log.Debugf("starting client %d against %s", c.Id, c.Server)

	r := lipgloss.NewRenderer(w)
	label := r.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	created, err := c.CreateTodo(ctx, DemoTitle, false)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	log.Infof("client %d created todo %d", c.Id, created.Id)
	fmt.Fprintln(w, label.Render("Created:"), FormatTodo(created))

	todos, err := c.GetTodos(ctx)
	if err != nil {
		return fmt.Errorf("get todos: %w", err)
	}
	log.Infof("client %d received %d todos", c.Id, len(todos.Todos))
	fmt.Fprintln(w, label.Render("All Todos:"), FormatTodoList(todos))

	return nil
}

func FormatTodo(t server.TodoResponse) string {
	return fmt.Sprintf("{id:%d title:%q completed:%t}", t.Id, t.Title, t.Completed)
}

func FormatTodoList(l server.TodoList) string {
	parts := make([]string, 0, len(l.Todos))
	for _, t := range l.Todos {
		parts = append(parts, FormatTodo(t))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
