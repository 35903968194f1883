//go:build unit

package gateway_test

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"mallfront/internal/domain/checkout"
	"mallfront/internal/gateway"
	"mallfront/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIntent(t *testing.T) *checkout.PurchaseIntent {
	t.Helper()
	intent, err := checkout.NewPurchaseIntent("buyer@example.com", []checkout.LineItem{
		{ProductID: 101, Quantity: 1, UnitPrice: 4500},
	}, 4500)
	require.NoError(t, err)
	return intent
}

// stubLoader は任意のハンドルを返す。呼び出し回数で once を検証する。
type stubLoader struct {
	handle any
	err    error
	calls  int32
}

func (l *stubLoader) Load(_ context.Context) (any, error) {
	atomic.AddInt32(&l.calls, 1)
	return l.handle, l.err
}

func newAdapter(handle any, err error) (*gateway.Adapter, *stubLoader) {
	loader := &stubLoader{handle: handle, err: err}
	cfg := config.NewTestConfig().Gateway
	return gateway.NewAdapter(loader, cfg, slog.New(slog.DiscardHandler)), loader
}

// 最新形: RequestPayment エントリポイント
type modernSDK struct {
	fire func(cb gateway.Callbacks)
}

func (s *modernSDK) RequestPayment(_ context.Context, _ gateway.PaymentRequest, cb gateway.Callbacks) error {
	s.fire(cb)
	return nil
}

// 旧形: Request エントリポイント
type legacySDK struct {
	fire func(cb gateway.Callbacks)
}

func (s *legacySDK) Request(_ context.Context, _ gateway.PaymentRequest, cb gateway.Callbacks) error {
	s.fire(cb)
	return nil
}

// 最古形: Request がチェーンを返し、呼び出し側がハンドラを繋ぐ
type chainSDK struct {
	fire func(c *fakeChain)
}

type fakeChain struct {
	sdk       *chainSDK
	onError   func(reason string)
	onCancel  func()
	onConfirm func(receiptID string, amount int64) bool
	onDone    func(receiptID string, amount int64)
}

func (s *chainSDK) Request(_ context.Context, _ gateway.PaymentRequest) (gateway.SignalChain, error) {
	return &fakeChain{sdk: s}, nil
}

func (c *fakeChain) OnError(h func(reason string)) gateway.SignalChain {
	c.onError = h
	return c
}

func (c *fakeChain) OnCancel(h func()) gateway.SignalChain {
	c.onCancel = h
	return c
}

func (c *fakeChain) OnConfirm(h func(receiptID string, amount int64) bool) gateway.SignalChain {
	c.onConfirm = h
	return c
}

func (c *fakeChain) OnDone(h func(receiptID string, amount int64)) gateway.SignalChain {
	c.onDone = h
	// OnDone は最後に繋がれる。全ハンドラが揃ってから発火する
	c.sdk.fire(c)
	return c
}

func TestAdapterProbing(t *testing.T) {
	t.Run("最新形エントリポイントで確定を受ける", func(t *testing.T) {
		adapter, loader := newAdapter(&modernSDK{fire: func(cb gateway.Callbacks) {
			cb.Confirm("rcpt_1", 4500)
		}}, nil)

		res, err := adapter.OpenPayment(context.Background(), testIntent(t))
		require.NoError(t, err)
		assert.Equal(t, gateway.OutcomeConfirmed, res.Outcome)
		assert.Equal(t, "rcpt_1", res.Receipt.ReceiptID)
		assert.Equal(t, int64(4500), res.Receipt.AmountConfirmed)
		assert.Equal(t, int32(1), atomic.LoadInt32(&loader.calls))
	})

	t.Run("旧形エントリポイントも同じ結果に正規化される", func(t *testing.T) {
		adapter, _ := newAdapter(&legacySDK{fire: func(cb gateway.Callbacks) {
			cb.Done("rcpt_2", 9000)
		}}, nil)

		res, err := adapter.OpenPayment(context.Background(), testIntent(t))
		require.NoError(t, err)
		assert.Equal(t, gateway.OutcomeConfirmed, res.Outcome)
		assert.Equal(t, "rcpt_2", res.Receipt.ReceiptID)
	})

	t.Run("チェーン形はハンドラ登録後に発火する", func(t *testing.T) {
		adapter, _ := newAdapter(&chainSDK{fire: func(c *fakeChain) {
			c.onConfirm("rcpt_3", 4500)
		}}, nil)

		res, err := adapter.OpenPayment(context.Background(), testIntent(t))
		require.NoError(t, err)
		assert.Equal(t, gateway.OutcomeConfirmed, res.Outcome)
		assert.Equal(t, "rcpt_3", res.Receipt.ReceiptID)
	})

	t.Run("未知の形はgateway_unavailableで辞退する", func(t *testing.T) {
		adapter, _ := newAdapter(struct{}{}, nil)

		res, err := adapter.OpenPayment(context.Background(), testIntent(t))
		require.NoError(t, err)
		assert.Equal(t, gateway.OutcomeDeclined, res.Outcome)
		assert.Equal(t, gateway.ReasonUnavailable, res.Reason)
	})
}

func TestAdapterSignals(t *testing.T) {
	t.Run("confirmとdoneの両方発火でもConfirmedは1回だけ", func(t *testing.T) {
		adapter, _ := newAdapter(&modernSDK{fire: func(cb gateway.Callbacks) {
			cb.Confirm("rcpt_1", 4500)
			cb.Done("rcpt_other", 9999)
		}}, nil)

		res, err := adapter.OpenPayment(context.Background(), testIntent(t))
		require.NoError(t, err)
		assert.Equal(t, gateway.OutcomeConfirmed, res.Outcome)
		// 最初の端末シグナルが勝つ
		assert.Equal(t, "rcpt_1", res.Receipt.ReceiptID)
		assert.Equal(t, int64(4500), res.Receipt.AmountConfirmed)
	})

	t.Run("キャンセルはCancelled", func(t *testing.T) {
		adapter, _ := newAdapter(&modernSDK{fire: func(cb gateway.Callbacks) {
			cb.Cancel()
		}}, nil)

		res, err := adapter.OpenPayment(context.Background(), testIntent(t))
		require.NoError(t, err)
		assert.Equal(t, gateway.OutcomeCancelled, res.Outcome)
		assert.Empty(t, res.Receipt.ReceiptID)
	})

	t.Run("errorシグナルは理由つきDeclined", func(t *testing.T) {
		adapter, _ := newAdapter(&modernSDK{fire: func(cb gateway.Callbacks) {
			cb.Error("card_limit_exceeded")
		}}, nil)

		res, err := adapter.OpenPayment(context.Background(), testIntent(t))
		require.NoError(t, err)
		assert.Equal(t, gateway.OutcomeDeclined, res.Outcome)
		assert.Equal(t, "card_limit_exceeded", res.Reason)
	})

	t.Run("widget起動エラーはgateway_request_failed", func(t *testing.T) {
		adapter, _ := newAdapter(&failingSDK{}, nil)

		res, err := adapter.OpenPayment(context.Background(), testIntent(t))
		require.NoError(t, err)
		assert.Equal(t, gateway.OutcomeDeclined, res.Outcome)
		assert.Equal(t, gateway.ReasonRequest, res.Reason)
	})

	t.Run("シグナル待ちのctxキャンセルはctx.Errを返す", func(t *testing.T) {
		adapter, _ := newAdapter(&modernSDK{fire: func(_ gateway.Callbacks) {
			// 何も発火しない: ユーザーがウィジェットを放置した状態
		}}, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := adapter.OpenPayment(ctx, testIntent(t))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

type failingSDK struct{}

func (s *failingSDK) RequestPayment(_ context.Context, _ gateway.PaymentRequest, _ gateway.Callbacks) error {
	return assert.AnError
}

func TestAdapterLoadOnce(t *testing.T) {
	t.Run("SDKロードは成功しても失敗しても1回だけ", func(t *testing.T) {
		adapter, loader := newAdapter(nil, assert.AnError)

		for i := 0; i < 3; i++ {
			res, err := adapter.OpenPayment(context.Background(), testIntent(t))
			require.NoError(t, err)
			assert.Equal(t, gateway.OutcomeDeclined, res.Outcome)
			assert.Equal(t, gateway.ReasonUnavailable, res.Reason)
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(&loader.calls))
	})

	t.Run("成功ロードは以後の支払いで再利用される", func(t *testing.T) {
		adapter, loader := newAdapter(&modernSDK{fire: func(cb gateway.Callbacks) {
			cb.Confirm("rcpt_n", 4500)
		}}, nil)

		for i := 0; i < 3; i++ {
			res, err := adapter.OpenPayment(context.Background(), testIntent(t))
			require.NoError(t, err)
			assert.Equal(t, gateway.OutcomeConfirmed, res.Outcome)
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(&loader.calls))
	})
}
