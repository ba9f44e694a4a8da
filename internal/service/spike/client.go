package spike

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"HealthPull/internal/domain/models"
	drepo "HealthPull/internal/domain/repository"
	xhttp "HealthPull/pkg/http"
)

// AuthHeader carries the server-held client secret on every request.
const AuthHeader = "authorizationtoken"

// ErrUpstreamStatus is returned for any response with status >= 400.
var ErrUpstreamStatus = errors.New("spike: upstream status")

// maxBody bounds how much of a response is read.
const maxBody = 32 << 20

// Client implements a MetricsSource backed by the Spike metrics API.
type Client struct {
	baseURL string
	secret  string
	http    *xhttp.Client
	metrics drepo.Metrics
}

// New creates a new Spike metrics client. timeout bounds every call;
// an expired call is reported as an error like any transport failure.
func New(baseURL, secret string, timeout time.Duration, metrics drepo.Metrics) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		metrics: metrics,
	}
}

// Endpoint returns the URL for kind without query parameters.
func (c *Client) Endpoint(kind models.Kind) string {
	return fmt.Sprintf("%s/metrics/%s/", c.baseURL, url.PathEscape(string(kind)))
}

// Fetch issues one GET for q and decodes the payload.
func (c *Client) Fetch(ctx context.Context, q models.Query) (models.RawResponse, error) {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.Endpoint(q.Kind),
		Headers: map[string]string{
			AuthHeader: c.secret,
			"Accept":   "application/json",
		},
		QueryParams: map[string][]string{
			"user_id":    {q.SubjectID},
			"start_date": {q.Window.StartDate()},
			"end_date":   {q.Window.EndDate()},
		},
	})
	if err != nil {
		c.record(q.Kind, 0)
		return models.EmptyResponse(), fmt.Errorf("fetch %s: %w", q.Kind, err)
	}
	defer resp.Body.Close()
	c.record(q.Kind, resp.StatusCode)

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return models.EmptyResponse(), fmt.Errorf("%w %d for %s", ErrUpstreamStatus, resp.StatusCode, q.Kind)
	}

	var raw models.RawResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&raw); err != nil {
		return models.EmptyResponse(), fmt.Errorf("decode %s: %w", q.Kind, err)
	}
	if raw.Data == nil {
		raw.Data = []models.Row{}
	}
	return raw, nil
}

func (c *Client) record(kind models.Kind, status int) {
	if c.metrics != nil {
		c.metrics.RecordUpstreamCall(string(kind), status)
	}
}

var _ drepo.MetricsSource = (*Client)(nil)
