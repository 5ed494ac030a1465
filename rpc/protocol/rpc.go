package protocol

import (
	"context"
	"fmt"
	"net"
	"net/rpc"
)

// ServiceName is the name the todo service is registered under.
const ServiceName = "TodoService"

const (
	CreateTodo = ServiceName + ".CreateTodo"
	GetTodos   = ServiceName + ".GetTodos"
)

type Connection struct {
	Network string
	Address string
}

func (c Connection) String() string {
	return c.Network + "://" + c.Address
}

// Invoke dials conn, performs a single call and closes the connection again.
func Invoke(ctx context.Context, conn Connection, method string, args, reply any) error {
	c, err := DialContext(ctx, conn.Network, conn.Address)
	if err != nil {
		return fmt.Errorf("trouble dialing %s: %w", conn.Address, err)
	}
	defer c.Close()

	call := c.Go(method, args, reply, make(chan *rpc.Call, 1))
	select {
	case <-call.Done:
		if call.Error != nil {
			return fmt.Errorf("trouble calling %s: %w", method, call.Error)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("calling %s: %w", method, ctx.Err())
	}
}

func DialContext(ctx context.Context, network, address string) (*rpc.Client, error) {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	return rpc.NewClient(conn), nil
}
