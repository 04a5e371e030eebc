package handlers

import (
	"net/http"
	"time"

	"yunion.io/x/log"
)

type stopController struct {
	state    *ServerState
	shutdown func()
	delay    time.Duration
}

// NewStopController marks the server STOPPED and calls shutdown after delay,
// so the 202 reaches the caller before the listener closes.
func NewStopController(state *ServerState, shutdown func(), delay time.Duration) http.Handler {
	return &stopController{state: state, shutdown: shutdown, delay: delay}
}

func (s *stopController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Infof("Stop request: %s", r.URL.Path)
	s.state.Set(STATE_STOPPED)
	w.WriteHeader(http.StatusAccepted)
	go func() {
		log.Infof("Server will be stopped after %s", s.delay)
		time.Sleep(s.delay)
		s.shutdown()
	}()
}
