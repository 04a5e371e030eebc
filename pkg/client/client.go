package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"yunion.io/x/pkg/errors"

	"github.com/zexi/app-hook/pkg/handlers"
)

// AppClient 访问 app-hook 服务的 HTTP 客户端
type AppClient struct {
	baseURL    string
	route      string
	httpClient *http.Client
}

func NewAppClient(host string, port int, route string) *AppClient {
	return &AppClient{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		route:   route,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewAppClientWithURL is used when the server address is already a URL, e.g. httptest.
func NewAppClientWithURL(baseURL string, route string, httpClient *http.Client) *AppClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AppClient{baseURL: baseURL, route: route, httpClient: httpClient}
}

func (c *AppClient) get(ctx context.Context, path string, accept string) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request %s", url)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read response of %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("GET %s: unexpected status %d: %s", url, resp.StatusCode, body)
	}
	return body, nil
}

// GetValue returns the value served on the app route.
func (c *AppClient) GetValue(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.route, "")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetStatus returns the lifecycle state of the server.
func (c *AppClient) GetStatus(ctx context.Context) (string, error) {
	body, err := c.get(ctx, handlers.StatusRoute, "")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetRequestCounts scrapes the metrics route and sums the request counter per route template.
func (c *AppClient) GetRequestCounts(ctx context.Context) (map[string]float64, error) {
	body, err := c.get(ctx, handlers.MetricsRoute, string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	if err != nil {
		return nil, err
	}

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "parse metrics")
	}
	return sumByLabel(mfs[handlers.RequestsTotalName], "route"), nil
}

func sumByLabel(mf *dto.MetricFamily, label string) map[string]float64 {
	out := make(map[string]float64)
	if mf == nil {
		return out
	}
	for _, m := range mf.GetMetric() {
		var key string
		for _, l := range m.GetLabel() {
			if l.GetName() == label {
				key = l.GetValue()
				break
			}
		}
		out[key] += m.GetCounter().GetValue()
	}
	return out
}
