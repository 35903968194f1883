//go:build unit

package bootpay_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mallfront/internal/gateway"
	"mallfront/internal/infra/bootpay"
	"mallfront/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type payer interface {
	RequestPayment(ctx context.Context, req gateway.PaymentRequest, cb gateway.Callbacks) error
}

func gatewayConfig(scriptURL, apiURL string) config.GatewayConfig {
	return config.GatewayConfig{
		ApplicationID: "app-1",
		SellerName:    "GIFREE",
		ScriptURL:     scriptURL,
		APIURL:        apiURL,
		LoadTimeout:   5 * time.Second,
	}
}

func loadedPayer(t *testing.T, apiURL string, scriptStatus int) (payer, error) {
	t.Helper()
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(scriptStatus)
	}))
	t.Cleanup(cdn.Close)

	loader := bootpay.NewSDKLoader(http.DefaultClient, gatewayConfig(cdn.URL, apiURL), testLogger())
	handle, err := loader.Load(context.Background())
	if err != nil {
		return nil, err
	}
	p, ok := handle.(payer)
	require.True(t, ok, "loaded handle must expose RequestPayment")
	return p, nil
}

type recordedSignals struct {
	confirms []string
	dones    []string
	cancels  int
	errors   []string
}

func (r *recordedSignals) callbacks() gateway.Callbacks {
	return gateway.Callbacks{
		Error:  func(reason string) { r.errors = append(r.errors, reason) },
		Cancel: func() { r.cancels++ },
		Confirm: func(receiptID string, _ int64) bool {
			r.confirms = append(r.confirms, receiptID)
			return true
		},
		Done: func(receiptID string, _ int64) { r.dones = append(r.dones, receiptID) },
	}
}

func TestSDKLoaderLoad(t *testing.T) {
	t.Run("CDNが200を返せばハンドルを得る", func(t *testing.T) {
		p, err := loadedPayer(t, "http://unused", http.StatusOK)
		require.NoError(t, err)
		assert.NotNil(t, p)
	})

	t.Run("CDNが404ならロード失敗", func(t *testing.T) {
		_, err := loadedPayer(t, "http://unused", http.StatusNotFound)
		assert.Error(t, err)
	})
}

func TestPaymentClientRequestPayment(t *testing.T) {
	newAPI := func(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
		t.Helper()
		srv := httptest.NewServer(http.HandlerFunc(respond))
		t.Cleanup(srv.Close)
		return srv
	}

	paymentReq := gateway.PaymentRequest{
		ApplicationID: "app-1",
		OrderID:       "order-1",
		OrderName:     "test order",
		Amount:        4500,
		BuyerID:       "buyer@example.com",
		SellerName:    "GIFREE",
	}

	t.Run("決済成功でconfirmとdoneの両方が届く", func(t *testing.T) {
		var gotBody map[string]any
		api := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/request", r.URL.Path)
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "done", "receiptId": "rcpt_1", "amount": 4500,
			})
		})

		p, err := loadedPayer(t, api.URL, http.StatusOK)
		require.NoError(t, err)

		signals := &recordedSignals{}
		require.NoError(t, p.RequestPayment(context.Background(), paymentReq, signals.callbacks()))

		assert.Equal(t, "app-1", gotBody["applicationId"])
		assert.Equal(t, float64(4500), gotBody["price"])
		assert.Equal(t, []string{"rcpt_1"}, signals.confirms)
		assert.Equal(t, []string{"rcpt_1"}, signals.dones)
	})

	t.Run("cancelledはCancelシグナル", func(t *testing.T) {
		api := newAPI(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "cancelled"})
		})

		p, err := loadedPayer(t, api.URL, http.StatusOK)
		require.NoError(t, err)

		signals := &recordedSignals{}
		require.NoError(t, p.RequestPayment(context.Background(), paymentReq, signals.callbacks()))
		assert.Equal(t, 1, signals.cancels)
		assert.Empty(t, signals.confirms)
	})

	t.Run("errorは理由つきErrorシグナル", func(t *testing.T) {
		api := newAPI(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "error", "reason": "card_limit_exceeded"})
		})

		p, err := loadedPayer(t, api.URL, http.StatusOK)
		require.NoError(t, err)

		signals := &recordedSignals{}
		require.NoError(t, p.RequestPayment(context.Background(), paymentReq, signals.callbacks()))
		assert.Equal(t, []string{"card_limit_exceeded"}, signals.errors)
	})

	t.Run("非2xxはエラーを返しシグナルなし", func(t *testing.T) {
		api := newAPI(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		p, err := loadedPayer(t, api.URL, http.StatusOK)
		require.NoError(t, err)

		signals := &recordedSignals{}
		err = p.RequestPayment(context.Background(), paymentReq, signals.callbacks())
		assert.Error(t, err)
		assert.Empty(t, signals.confirms)
		assert.Empty(t, signals.dones)
	})
}
