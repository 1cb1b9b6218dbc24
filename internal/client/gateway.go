// Package client talks to the blog API on behalf of a signed-in user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/EmpoweredVote/blog-backend/internal/access"
)

const (
	DefaultTimeout = 30 * time.Second
	LoginPath      = "/login"
	fallbackError  = "An error occurred"
)

var ErrTransport = errors.New("transport error")

// APIError is any non-2xx answer from the server.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// Navigator moves the user to another view. The CLI prints a hint; a UI
// would change screens.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

type Gateway struct {
	BaseURL    string
	HTTP       *http.Client
	Session    *Session
	Navigator  Navigator
	Classifier *access.Classifier
	// RetryDelay is the pause before the single retry.
	RetryDelay time.Duration
}

func NewGateway(baseURL string, session *Session, nav Navigator) *Gateway {
	if session == nil {
		session = NewSession()
	}
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &Gateway{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTP:       &http.Client{Timeout: DefaultTimeout},
		Session:    session,
		Navigator:  nav,
		Classifier: access.Default(),
		RetryDelay: 200 * time.Millisecond,
	}
}

var retryableStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusConflict:            true,
	http.StatusTooEarly:            true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Do sends one API call. body is JSON-encoded when non-nil and a 2xx answer
// is decoded into out when non-nil. Transport failures and retryable statuses
// are tried once more; a 401 never is.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrTransport, ctx.Err())
			case <-time.After(g.RetryDelay):
			}
		}

		resp, err = g.send(ctx, method, path, payload)
		if err != nil {
			log.Printf("request error: %s %s: %v", method, path, err)
			continue
		}
		if !retryableStatus[resp.StatusCode] || attempt == 1 {
			break
		}
		drain(resp)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer drain(resp)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized && g.Classifier.ShouldRedirectOn401(method, path) {
		g.Session.Clear()
		g.Navigator.Navigate(LoginPath)
	}
	return readAPIError(resp)
}

func (g *Gateway) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if tok := g.Session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return g.HTTP.Do(req)
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var env APIError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &env) == nil && env.Message != "" {
		apiErr.Message = env.Message
	} else {
		apiErr.Message = fallbackError
	}
	return apiErr
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
