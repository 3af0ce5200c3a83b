package project

import (
	"errors"
	"sync"
)

// Registration errors.
var (
	// ErrAlreadyRegistered is returned on an attempt to register a second
	// project in the same process. Two configurations are never silently
	// merged; conflicting re-initialization is an explicit error.
	ErrAlreadyRegistered = errors.New("a project is already registered in this process")

	// ErrNotRegistered is returned by Current before any registration.
	ErrNotRegistered = errors.New("no project registered in this process")
)

var (
	mu      sync.Mutex
	current *Project
)

// Register records p as the process's project. At most one project can be
// registered per process.
func Register(p *Project) error {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return ErrAlreadyRegistered
	}
	current = p
	return nil
}

// Current returns the registered project.
func Current() (*Project, error) {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return nil, ErrNotRegistered
	}
	return current, nil
}

// resetRegistry clears the registration. Tests only.
func resetRegistry() {
	mu.Lock()
	defer mu.Unlock()
	current = nil
}
