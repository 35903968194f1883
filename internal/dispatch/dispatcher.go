// Package dispatch sends upstream requests with the caller's session token
// attached, and owns exactly one policy: authentication. A token rejection
// triggers a refresh through the session manager and a single replay; every
// other failure passes through untouched.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"mallfront/internal/pkg/errs"
	"mallfront/internal/session"
)

var ErrNoSession = errs.New("request context carries no session")

// TokenSource is the slice of the session manager the dispatcher needs.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	ReportExpired()
}

type ctxKey struct{}

// WithSession attaches the caller's token source to the context. Every
// upstream call made through the dispatcher resolves its identity this way;
// nothing ever reads the token store directly.
func WithSession(ctx context.Context, ts TokenSource) context.Context {
	return context.WithValue(ctx, ctxKey{}, ts)
}

func SessionFrom(ctx context.Context) (TokenSource, bool) {
	ts, ok := ctx.Value(ctxKey{}).(TokenSource)
	return ts, ok
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is marshalled once; the replay after a refresh resends the same bytes.
	Body any
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type Dispatcher struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

func NewDispatcher(client *http.Client, baseURL string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Do performs the request with a bearer token from the context's session.
// On a token-rejection signal it reports the expiry, waits for the (single
// flight) refresh and replays exactly once; a second rejection surfaces as
// ErrAuthExpired. Network and non-auth upstream errors pass through.
func (d *Dispatcher) Do(ctx context.Context, req Request) (*Response, error) {
	ts, ok := SessionFrom(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	var body []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errs.Wrap(err, "marshal request body")
		}
		body = b
	}

	token, err := ts.Token(ctx)
	if err != nil {
		// Fail fast: do not send a request we know cannot be authorized.
		return nil, err
	}

	resp, err := d.send(ctx, req, body, token)
	if err != nil {
		return nil, err
	}
	if !tokenRejected(resp) {
		return resp, nil
	}

	ts.ReportExpired()
	token, err = ts.Token(ctx)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("replaying request after token refresh", "method", req.Method, "path", req.Path)
	resp, err = d.send(ctx, req, body, token)
	if err != nil {
		return nil, err
	}
	if tokenRejected(resp) {
		return nil, session.ErrAuthExpired
	}
	return resp, nil
}

func (d *Dispatcher) send(ctx context.Context, req Request, body []byte, token string) (*Response, error) {
	u := d.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, reader)
	if err != nil {
		return nil, errs.Wrap(err, "build upstream request")
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	httpResp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, errs.Wrap(err, "upstream request failed")
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errs.Wrap(err, "read upstream response")
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}

// tokenRejected detects the upstream's explicit token-rejection signal: a 401,
// or the mall API's 200-with-error-body convention. Generic 4xx responses are
// not auth failures and must reach the caller unchanged.
func tokenRejected(resp *Response) bool {
	if resp.StatusCode == http.StatusUnauthorized {
		return true
	}
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return false
	}
	return envelope.Error == "ERROR_ACCESS_TOKEN"
}
