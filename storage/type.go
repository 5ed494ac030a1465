package storage

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when no todo carries the requested id.
var ErrNotFound = errors.New("todo not found")

// Todo is the single record type shared by both services.
type Todo struct {
	Id        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Store holds the todos of one service instance in insertion order.
type Store struct {
	mutex  sync.Mutex
	todos  []Todo
	nextId int64 // id handed out by the next Append
}
