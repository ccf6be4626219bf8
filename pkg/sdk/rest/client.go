// Package rest is the typed client for the tradesync REST API.
//
// Client wraps resty and normalizes every response through the uniform
// {success, data, message?, error?} envelope. Failures are classified
// into TransportError, APIError and ProtocolError; callers never see a
// raw resty error.
package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/pitrade/tradesync/pkg/logger"
)

const defaultTimeout = 10 * time.Second

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// Client performs authenticated request/response calls.
type Client struct {
	http    *resty.Client
	session *Session
}

// NewClient creates a client for the API at baseURL. session supplies
// the bearer token; pass a token-less session for anonymous access.
func NewClient(baseURL string, session *Session) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if session == nil {
		session = NewSession(nil)
	}

	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")

	return &Client{http: hc, session: session}
}

// Session returns the session this client authenticates with.
func (c *Client) Session() *Session { return c.session }

// send issues one request and decodes the envelope's data field into out.
// path is relative to the base URL.
func (c *Client) send(ctx context.Context, method, path string, query map[string]string, body, out any) error {
	r := c.http.R().SetContext(ctx)
	if tok := c.session.Token(); tok != "" {
		r.SetHeader("Authorization", "Bearer "+tok)
	}
	if query != nil {
		r.SetQueryParams(query)
	}
	if body != nil {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(body)
	}

	resp, err := r.Execute(strings.ToUpper(method), path)
	if err != nil {
		return c.fail(method, path, &TransportError{Err: err})
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return c.fail(method, path, &ProtocolError{Err: errors.Wrap(err, "decode envelope")})
	}

	if !resp.IsSuccess() {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return c.fail(method, path, &APIError{Status: resp.StatusCode(), Message: msg})
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return c.fail(method, path, &ProtocolError{Err: errors.Wrap(err, "decode data")})
		}
	}
	return nil
}

// fail logs the classified error at the client boundary and returns it
// unchanged. Logging here is observability only, not control flow.
func (c *Client) fail(method, path string, err error) error {
	logger.WithFields(map[string]interface{}{
		"method": method,
		"path":   path,
	}).Warnf("api request failed: %v", err)
	return err
}
