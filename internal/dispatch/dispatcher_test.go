//go:build unit

package dispatch_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"mallfront/internal/dispatch"
	"mallfront/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokenSource はセッションマネージャの差し替え。ReportExpired で次のトークンに進む。
type stubTokenSource struct {
	mu       sync.Mutex
	tokens   []string
	idx      int
	reports  int
	tokenErr error
}

func (s *stubTokenSource) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokenErr != nil {
		return "", s.tokenErr
	}
	return s.tokens[s.idx], nil
}

func (s *stubTokenSource) ReportExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports++
	if s.idx < len(s.tokens)-1 {
		s.idx++
	}
}

func (s *stubTokenSource) reportCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports
}

type recordedRequest struct {
	auth string
	body string
	path string
}

func newDispatcher(baseURL string) *dispatch.Dispatcher {
	return dispatch.NewDispatcher(http.DefaultClient, baseURL, slog.New(slog.DiscardHandler))
}

func ctxWith(ts dispatch.TokenSource) context.Context {
	return dispatch.WithSession(context.Background(), ts)
}

func TestDispatcherDo(t *testing.T) {
	t.Run("トークンを付与してそのまま中継する", func(t *testing.T) {
		var got recordedRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			got = recordedRequest{auth: r.Header.Get("Authorization"), body: string(body), path: r.URL.Path}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		ts := &stubTokenSource{tokens: []string{"tok-1"}}
		resp, err := newDispatcher(srv.URL).Do(ctxWith(ts), dispatch.Request{
			Method: http.MethodPost,
			Path:   "/api/orders",
			Body:   map[string]any{"orderId": 1},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
		assert.Equal(t, "Bearer tok-1", got.auth)
		assert.JSONEq(t, `{"orderId":1}`, got.body)
		assert.Equal(t, "/api/orders", got.path)
		assert.Equal(t, 0, ts.reportCount())
	})

	t.Run("401で1回だけ同一ボディを再送する", func(t *testing.T) {
		var mu sync.Mutex
		var requests []recordedRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			requests = append(requests, recordedRequest{auth: r.Header.Get("Authorization"), body: string(body)})
			n := len(requests)
			mu.Unlock()
			if n == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"orderId":7}`))
		}))
		defer srv.Close()

		ts := &stubTokenSource{tokens: []string{"tok-old", "tok-new"}}
		resp, err := newDispatcher(srv.URL).Do(ctxWith(ts), dispatch.Request{
			Method: http.MethodPost,
			Path:   "/api/orders",
			Body:   map[string]any{"productId": 101, "qty": 1},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		require.Len(t, requests, 2)
		assert.Equal(t, "Bearer tok-old", requests[0].auth)
		assert.Equal(t, "Bearer tok-new", requests[1].auth)
		assert.Equal(t, requests[0].body, requests[1].body, "replay must resend identical bytes")
		assert.Equal(t, 1, ts.reportCount())
	})

	t.Run("200+ERROR_ACCESS_TOKENもトークン拒否として再送する", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			if calls == 1 {
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "ERROR_ACCESS_TOKEN"})
				return
			}
			_, _ = w.Write([]byte(`{"lines":[]}`))
		}))
		defer srv.Close()

		ts := &stubTokenSource{tokens: []string{"tok-old", "tok-new"}}
		resp, err := newDispatcher(srv.URL).Do(ctxWith(ts), dispatch.Request{
			Method: http.MethodGet,
			Path:   "/api/cart",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.JSONEq(t, `{"lines":[]}`, string(resp.Body))
	})

	t.Run("再送も拒否されたらErrAuthExpired", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		ts := &stubTokenSource{tokens: []string{"tok-old", "tok-new"}}
		_, err := newDispatcher(srv.URL).Do(ctxWith(ts), dispatch.Request{
			Method: http.MethodGet,
			Path:   "/api/cart",
		})
		assert.ErrorIs(t, err, session.ErrAuthExpired)
		assert.Equal(t, 2, calls, "exactly one replay, never more")
	})

	t.Run("認証以外のエラーは再送せずそのまま返す", func(t *testing.T) {
		for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
			var calls int
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(status)
			}))

			ts := &stubTokenSource{tokens: []string{"tok-1"}}
			resp, err := newDispatcher(srv.URL).Do(ctxWith(ts), dispatch.Request{
				Method: http.MethodGet,
				Path:   "/api/cart",
			})
			require.NoError(t, err)
			assert.Equal(t, status, resp.StatusCode)
			assert.Equal(t, 1, calls)
			assert.Equal(t, 0, ts.reportCount())
			srv.Close()
		}
	})

	t.Run("errorフィールドが別値の200は素通しする", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "ERROR_OUT_OF_STOCK"})
		}))
		defer srv.Close()

		ts := &stubTokenSource{tokens: []string{"tok-1"}}
		resp, err := newDispatcher(srv.URL).Do(ctxWith(ts), dispatch.Request{
			Method: http.MethodGet,
			Path:   "/api/cart",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 0, ts.reportCount())
	})

	t.Run("セッションのないctxはErrNoSession", func(t *testing.T) {
		_, err := newDispatcher("http://unused").Do(context.Background(), dispatch.Request{
			Method: http.MethodGet,
			Path:   "/api/cart",
		})
		assert.ErrorIs(t, err, dispatch.ErrNoSession)
	})

	t.Run("トークン取得失敗は送信前に打ち切る", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			calls++
		}))
		defer srv.Close()

		ts := &stubTokenSource{tokenErr: session.ErrAuthExpired}
		_, err := newDispatcher(srv.URL).Do(ctxWith(ts), dispatch.Request{
			Method: http.MethodGet,
			Path:   "/api/cart",
		})
		assert.ErrorIs(t, err, session.ErrAuthExpired)
		assert.Equal(t, 0, calls)
	})
}
