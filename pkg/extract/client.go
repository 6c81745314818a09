package extract

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/graph"
	"github.com/matzehuels/entigraph/pkg/observability"
)

// DefaultURL is the extraction service address used by the original
// development setup.
const DefaultURL = "http://localhost:5000"

// DefaultTimeout bounds one extraction request.
const DefaultTimeout = 60 * time.Second

const extractPath = "/api/extract"

// maxBody caps the response size read from the service.
const maxBody = 32 << 20

// Client calls the extraction service over HTTP.
type Client struct {
	base   string
	http   *http.Client
	logger *log.Logger
}

// NewClient creates a client for the service at base. A zero timeout uses
// [DefaultTimeout]; a nil logger uses log.Default().
func NewClient(base string, timeout time.Duration, logger *log.Logger) *Client {
	if base == "" {
		base = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Endpoint returns the full extraction URL.
func (c *Client) Endpoint() string { return c.base + extractPath }

type extractRequest struct {
	Text string `json:"text"`
}

// Extract posts text to the service and decodes the response. Every failure
// is an EXTRACTION_FAILED error whose cause carries the detail.
func (c *Client) Extract(ctx context.Context, text string) (*graph.Response, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}

	endpoint := c.Endpoint()
	host, path := splitURL(endpoint)
	hooks := observability.HTTP()

	body, err := json.Marshal(extractRequest{Text: text})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtraction, err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtraction, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeExtraction, classifyTransport(err), "request %s", endpoint)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtraction, classifyTransport(err), "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serviceMessage(data)
		c.logger.Debug("extraction service error", "status", resp.StatusCode, "message", msg)
		return nil, errors.Wrap(errors.ErrCodeExtraction,
			errors.New(errors.ErrCodeNetwork, "status %d: %s", resp.StatusCode, msg),
			"request %s", endpoint)
	}

	out, err := graph.UnmarshalResponse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtraction, err, "decode response")
	}
	c.logger.Debug("extraction complete", "bytes", len(data), "elapsed", time.Since(start))
	return out, nil
}

// serviceMessage pulls the service's {"error": "..."} text when present.
func serviceMessage(data []byte) string {
	if gjson.ValidBytes(data) {
		if msg := gjson.GetBytes(data, "error"); msg.Type == gjson.String {
			return msg.String()
		}
	}
	if len(data) > 200 {
		data = data[:200]
	}
	return strings.TrimSpace(string(data))
}

func classifyTransport(err error) error {
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return errors.Wrap(errors.ErrCodeTimeout, err, "timed out")
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "transport")
}

func splitURL(raw string) (host, path string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}

var _ Extractor = (*Client)(nil)

// String implements fmt.Stringer for log output.
func (c *Client) String() string { return fmt.Sprintf("extract.Client(%s)", c.base) }
