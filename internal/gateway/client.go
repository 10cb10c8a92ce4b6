package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portal",
		Subsystem: "gateway",
		Name:      "call_duration_seconds",
		Help:      "Duration of upstream analytics/directory calls",
	}, []string{"operation"})

	callFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "gateway",
		Name:      "call_failures_total",
		Help:      "Number of failed upstream calls",
	}, []string{"operation"})
)

// Config defines the two upstream base URLs the gateway talks to: the
// administrative analytics service and the student/course directory.
type Config struct {
	BackendBaseURL string
	StudentBaseURL string
	HTTPClient     *http.Client
	Logger         zerolog.Logger
}

// Client is the typed wrapper around the external analytics and directory
// endpoints. It normalizes the inconsistent response envelopes the upstreams
// produce and carries upstream session cookies in its jar; it never manages
// tokens itself and never retries.
type Client struct {
	backend  string
	student  string
	http     *http.Client
	logger   zerolog.Logger
	tracer   trace.Tracer
	sanitize *bluemonday.Policy
}

// New builds a gateway client for the configured upstreams.
func New(cfg Config) (*Client, error) {
	if cfg.BackendBaseURL == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	if cfg.StudentBaseURL == "" {
		return nil, fmt.Errorf("student base url is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar}
	}

	return &Client{
		backend:  strings.TrimRight(cfg.BackendBaseURL, "/"),
		student:  strings.TrimRight(cfg.StudentBaseURL, "/"),
		http:     httpClient,
		logger:   cfg.Logger.With().Str("component", "gateway").Logger(),
		tracer:   otel.Tracer("github.com/campusworks/teacher-portal-api/internal/gateway"),
		sanitize: bluemonday.StrictPolicy(),
	}, nil
}

// envelope is the decoded upstream response. Success may be signaled by a
// 2xx status, a success boolean, or both; data may be an object, an array,
// or absent, and some endpoints return a bare top-level array.
type envelope struct {
	status int

	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Err     string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Teacher json.RawMessage `json:"teacher"`

	bareList json.RawMessage
}

// payload returns the unwrapped data, preferring the bare top-level array
// when the upstream skipped the envelope entirely.
func (e envelope) payload() json.RawMessage {
	if len(e.bareList) > 0 {
		return e.bareList
	}
	return e.Data
}

// errorMessage picks the most specific message the upstream supplied.
func (e envelope) errorMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err
}

func (c *Client) call(ctx context.Context, operation, method, url string, body interface{}) (envelope, error) {
	ctx, span := c.tracer.Start(ctx, "gateway."+operation, trace.WithAttributes(
		attribute.String("operation", operation),
	))
	defer span.End()

	start := time.Now()
	env, err := c.roundTrip(ctx, operation, method, url, body)
	callDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		callFailures.WithLabelValues(operation).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn().Err(err).Str("operation", operation).Msg("upstream call failed")
	}

	return env, err
}

func (c *Client) roundTrip(ctx context.Context, operation, method, url string, body interface{}) (envelope, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return envelope{}, fmt.Errorf("gateway %s: encode request: %w", operation, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return envelope{}, fmt.Errorf("gateway %s: build request: %w", operation, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("gateway %s: %w", operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, &RemoteError{Operation: operation, HTTPStatus: resp.StatusCode, Message: "unreadable response body"}
	}

	return normalize(operation, resp.StatusCode, raw)
}

// normalize applies the envelope contract: non-2xx or an explicit
// success:false (or an error field with no success flag) fails with a
// RemoteError; everything else is unwrapped for the caller to decode.
func normalize(operation string, status int, raw []byte) (envelope, error) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		if status < 200 || status > 299 {
			return envelope{}, &RemoteError{Operation: operation, HTTPStatus: status}
		}
		return envelope{status: status, bareList: trimmed}, nil
	}

	var env envelope
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return envelope{}, &RemoteError{Operation: operation, HTTPStatus: status, Message: "malformed response body"}
		}
	}
	env.status = status

	if status < 200 || status > 299 {
		return envelope{}, &RemoteError{Operation: operation, HTTPStatus: status, Message: env.errorMessage()}
	}
	if env.Success != nil && !*env.Success {
		return envelope{}, &RemoteError{Operation: operation, HTTPStatus: status, Message: env.errorMessage()}
	}
	if env.Success == nil && env.Err != "" {
		return envelope{}, &RemoteError{Operation: operation, HTTPStatus: status, Message: env.Err}
	}

	return env, nil
}

// decodeList decodes payloads that may arrive as a single object or a list,
// always producing a list.
func decodeList(payload json.RawMessage, out interface{}) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}

	wrapped := make([]byte, 0, len(trimmed)+2)
	wrapped = append(wrapped, '[')
	wrapped = append(wrapped, trimmed...)
	wrapped = append(wrapped, ']')
	return json.Unmarshal(wrapped, out)
}
