// Package upstream is the typed client for the application's REST API. The
// gateway's BFF handlers call it on behalf of the authenticated user; the
// caller's identity travels as the same headers the access gate injects.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"talentgate/internal/access"
	"talentgate/pkg/requestcontext"
)

// APIError is a non-2xx upstream response, decoded from the standard
// `{"error": ...}` envelope when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned %d", e.Status)
	}
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// Client talks to the upstream application API. There is no retry or backoff;
// failures surface to the handler, which reports them to the caller.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

func NewClient(baseURL *url.URL) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// do executes one request and decodes a 2xx JSON body into out (when out is
// non-nil). The caller's identity from the request context is forwarded as
// headers, same as the proxy path.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build upstream request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.identityHeaders(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call upstream %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode upstream response: %w", err)
	}
	return nil
}

func (c *Client) identityHeaders(ctx context.Context, req *http.Request) {
	if id := requestcontext.UserID(ctx); id != "" {
		req.Header.Set(access.HeaderUserID, id)
	}
	if role := requestcontext.Role(ctx); role != "" {
		req.Header.Set(access.HeaderUserRole, string(role))
	}
	if company := requestcontext.CompanyID(ctx); company != "" {
		req.Header.Set(access.HeaderCompanyID, company)
	}
	if email := requestcontext.CandidateEmail(ctx); email != "" {
		req.Header.Set(access.HeaderCandidateEmail, email)
	}
	if id := requestcontext.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&envelope); err == nil {
		apiErr.Message = envelope.Error
	}
	return apiErr
}

// listQuery builds the common paging/filter query used by listing endpoints.
func listQuery(page, pageSize int, filters map[string]string) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	for k, v := range filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}
