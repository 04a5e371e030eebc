package handlers

import "net/http"

type getStatusController struct {
	state *ServerState
}

func NewGetStatusController(state *ServerState) http.Handler {
	return &getStatusController{state: state}
}

func (g *getStatusController) ServeHTTP(w http.ResponseWriter, request *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(g.state.Get()))
}
