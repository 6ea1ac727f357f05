package apis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"meteo/manager"
)

const RequestIDHeader = "X-Request-Id"

var UpstreamRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "meteo_upstream_requests_total",
		Help: "Upstream lookups by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

func init() {
	prometheus.MustRegister(UpstreamRequests)
}

func NewClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

// Get issues a GET against path and decodes the JSON body into out.
// Failures come back as *manager.FetchError tagged with op.
func Get(ctx context.Context, client *resty.Client, op manager.Op, path string, params map[string]string, out any) error {
	requestID := uuid.NewString()
	log := slog.Default().With("op", op.String(), "request_id", requestID)

	request := client.R().SetContext(ctx)
	request.SetHeader(RequestIDHeader, requestID)
	request.SetQueryParams(params)

	response, err := request.Get(path)
	if err != nil {
		UpstreamRequests.WithLabelValues(op.String(), manager.KindNetwork.String()).Inc()
		log.Debug("upstream request failed", "error", err)
		return manager.NetworkError(op, err)
	}

	log.Debug("upstream response", "status", response.StatusCode(), "duration", response.Time())

	if response.StatusCode() != http.StatusOK {
		UpstreamRequests.WithLabelValues(op.String(), manager.KindUpstream.String()).Inc()

		buf := &bytes.Buffer{}
		if err = json.Indent(buf, response.Body(), "", "  "); err != nil {
			buf.Reset()
			buf.Write(response.Body())
		}

		return manager.UpstreamError(op, response.StatusCode(),
			fmt.Errorf("status code: %d\n%s", response.StatusCode(), buf.String()))
	}

	if err = json.Unmarshal(response.Body(), out); err != nil {
		UpstreamRequests.WithLabelValues(op.String(), manager.KindParse.String()).Inc()
		return manager.ParseError(op, err)
	}

	UpstreamRequests.WithLabelValues(op.String(), "ok").Inc()
	return nil
}
