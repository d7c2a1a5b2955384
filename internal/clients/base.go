package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const HeaderCorrelationID = "X-Correlation-Id"

type ctxKey string

const ctxCorrelationID ctxKey = "correlation_id"

// WithCorrelationID pins the correlation id sent with requests made using ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxCorrelationID, id)
}

func GetCorrelationID(ctx context.Context) string {
	if v := ctx.Value(ctxCorrelationID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// NewHTTPClient returns the shared HTTP client used by every typed client.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
	Logger  *zap.Logger
}

func NewClient(name string, baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient, Logger: logger.Named(name)}
}

// Do issues a single request. Transport failures are returned as
// *NetworkError; the response status is not inspected.
func (c *Client) Do(ctx context.Context, method, path, rawQuery string, body io.Reader, headers http.Header) (*http.Response, error) {
	rel := &url.URL{Path: path, RawQuery: rawQuery}
	u := c.BaseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &NetworkError{Service: c.Name, Op: method + " " + path, Err: err}
	}

	for k, vv := range headers {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	cid := GetCorrelationID(ctx)
	if cid == "" {
		cid = uuid.NewString()
	}
	req.Header.Set(HeaderCorrelationID, cid)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Logger.Debug("request failed",
			zap.String("method", method), zap.String("path", path),
			zap.String("correlation_id", cid), zap.Error(err))
		return nil, &NetworkError{Service: c.Name, Op: method + " " + path, Err: err}
	}

	c.Logger.Debug("request completed",
		zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)),
		zap.String("correlation_id", cid))
	return resp, nil
}

// doJSON sends in (when non-nil) as the JSON body and decodes a 2xx
// response into out (when non-nil). Non-2xx responses become *HTTPError.
func (c *Client) doJSON(ctx context.Context, method, path, rawQuery string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.Name, err)
		}
		body = bytes.NewReader(buf)
	}

	resp, err := c.Do(ctx, method, path, rawQuery, body, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(c.Name, method+" "+path, resp)
	}
	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Service: c.Name, Op: method + " " + path, Err: err}
	}
	return nil
}
