package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zexi/app-hook/pkg/appstate"
)

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func requestCount(t *testing.T, reg *prometheus.Registry, route, method, code string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != RequestsTotalName {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["route"] == route && labels["method"] == method && labels["code"] == code {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestRouter_CustomRoute(t *testing.T) {
	h := NewRouter(RouterOptions{Route: "/value", State: appstate.NewAppSingleton("abc")})

	rr := serve(h, http.MethodGet, "/value")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "abc", rr.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/app").Code)
}

func TestRouter_OnlyGet(t *testing.T) {
	h := NewRouter(RouterOptions{Route: "/app", State: appstate.NewAppSingleton("abc")})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rr := serve(h, method, "/app")
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, method)
	}
}

func TestRouter_Status(t *testing.T) {
	st := NewServerState()
	h := NewRouter(RouterOptions{Route: "/app", State: appstate.NewAppSingleton(""), ServerState: st})

	rr := serve(h, http.MethodGet, StatusRoute)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, string(STATE_STOPPED), rr.Body.String())

	st.Set(STATE_RUNNING)
	rr = serve(h, http.MethodGet, StatusRoute)
	assert.Equal(t, string(STATE_RUNNING), rr.Body.String())
}

func TestRouter_StopDisabledWithoutShutdown(t *testing.T) {
	h := NewRouter(RouterOptions{Route: "/app", State: appstate.NewAppSingleton("")})
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodPost, StopRoute).Code)
}

func TestRouter_Stop(t *testing.T) {
	st := NewServerState()
	st.Set(STATE_RUNNING)
	stopped := make(chan struct{})
	h := NewRouter(RouterOptions{
		Route:       "/app",
		State:       appstate.NewAppSingleton(""),
		ServerState: st,
		Shutdown:    func() { close(stopped) },
	})

	rr := serve(h, http.MethodPost, StopRoute)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, STATE_STOPPED, st.Get())

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown was not called")
	}
}

func TestRouter_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewRouter(RouterOptions{Route: "/app", State: appstate.NewAppSingleton("v"), Registry: reg})

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/app").Code)
	}
	serve(h, http.MethodGet, StatusRoute)

	assert.Equal(t, 3.0, requestCount(t, reg, "/app", http.MethodGet, "200"))
	assert.Equal(t, 1.0, requestCount(t, reg, StatusRoute, http.MethodGet, "200"))

	rr := serve(h, http.MethodGet, MetricsRoute)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), RequestsTotalName)
}

func TestRouter_ReservedRoutesWinOverAppTemplate(t *testing.T) {
	st := NewServerState()
	st.Set(STATE_RUNNING)
	h := NewRouter(RouterOptions{Route: "/{any}", State: appstate.NewAppSingleton("v"), ServerState: st})

	rr := serve(h, http.MethodGet, "/other")
	assert.Equal(t, "v", rr.Body.String())

	rr = serve(h, http.MethodGet, StatusRoute)
	assert.Equal(t, string(STATE_RUNNING), rr.Body.String())

	rr = serve(h, http.MethodGet, MetricsRoute)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEqual(t, "v", rr.Body.String())
	assert.Contains(t, rr.Body.String(), RequestsTotalName)
}
