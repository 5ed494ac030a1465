package storage

func New() *Store {
	return &Store{
		todos:  []Todo{},
		nextId: 1,
	}
}

// Append stores a new todo under a freshly assigned id and returns it.
func (s *Store) Append(title string, completed bool) Todo {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	todo := Todo{Id: s.nextId, Title: title, Completed: completed}
	s.todos = append(s.todos, todo)
	s.nextId++

	return todo
}

// ListAll returns a copy of every todo in the order they were created.
func (s *Store) ListAll() []Todo {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	out := make([]Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

func (s *Store) FindByID(id int64) (Todo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Todo{}, ErrNotFound
	}
	return s.todos[i], nil
}

// UpdateByID overwrites the fields that are non-nil and leaves the others untouched.
func (s *Store) UpdateByID(id int64, title *string, completed *bool) (Todo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Todo{}, ErrNotFound
	}

	if title != nil {
		s.todos[i].Title = *title
	}
	if completed != nil {
		s.todos[i].Completed = *completed
	}
	return s.todos[i], nil
}

// DeleteByID removes the todo from the sequence and returns it. Its id is
// never handed out again.
func (s *Store) DeleteByID(id int64) (Todo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Todo{}, ErrNotFound
	}

	deleted := s.todos[i]
	s.todos = append(s.todos[:i], s.todos[i+1:]...)
	return deleted, nil
}

func (s *Store) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return len(s.todos)
}

// must be called with the mutex held
func (s *Store) indexOf(id int64) int {
	for i := range s.todos {
		if s.todos[i].Id == id {
			return i
		}
	}
	return -1
}
