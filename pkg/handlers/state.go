package handlers

import "sync"

type STATE string

const (
	STATE_RUNNING STATE = "RUNNING"
	STATE_STOPPED STATE = "STOPPED"
	STATE_ERROR   STATE = "ERROR"
)

// ServerState tracks the lifecycle of the hosting process, it is unrelated to the served app value.
type ServerState struct {
	lock  sync.RWMutex
	state STATE
}

func NewServerState() *ServerState {
	return &ServerState{state: STATE_STOPPED}
}

func (s *ServerState) Set(state STATE) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.state = state
}

func (s *ServerState) Get() STATE {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.state
}
