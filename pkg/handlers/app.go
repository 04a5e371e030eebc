package handlers

import (
	"net/http"

	"yunion.io/x/log"

	"github.com/zexi/app-hook/pkg/appstate"
)

type appController struct {
	state appstate.ValueProvider
}

// NewAppController answers the app route with the value held by state.
func NewAppController(state appstate.ValueProvider) http.Handler {
	return &appController{state: state}
}

func (a *appController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	value := a.state.GetValue()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	// 状态码已经发出，写失败只能记录
	if _, err := w.Write([]byte(value)); err != nil {
		log.Errorf("write app value to %s: %v", r.RemoteAddr, err)
	}
}
