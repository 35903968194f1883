// Package bootpay is the production gateway SDK: it fetches the vendor script
// to verify the deployed revision is reachable, then drives payments through
// the vendor's server-side API.
package bootpay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"mallfront/internal/gateway"
	"mallfront/internal/infra"
	"mallfront/internal/pkg/config"
	"mallfront/internal/pkg/errs"
)

// SDKLoader implements gateway.Loader. One successful Load per process; the
// adapter owns the once semantics, this type only does the work.
type SDKLoader struct {
	client *http.Client
	cfg    config.GatewayConfig
	logger *slog.Logger
}

func NewSDKLoader(client *http.Client, cfg config.GatewayConfig, logger *slog.Logger) *SDKLoader {
	return &SDKLoader{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Load checks that the pinned script revision is still served by the CDN and
// hands back the payment client. A CDN miss means the vendor pulled the
// revision; payments must not proceed against an unknown API surface.
func (l *SDKLoader) Load(ctx context.Context) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.LoadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.cfg.ScriptURL, nil)
	if err != nil {
		return nil, errs.Wrap(err, "build SDK script request")
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "fetch SDK script")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, errs.Newf("SDK script fetch returned status %d", resp.StatusCode)
	}

	l.logger.Info("payment SDK loaded", "script_url", l.cfg.ScriptURL)
	return &paymentClient{client: l.client, cfg: l.cfg, logger: l.logger}, nil
}

// paymentClient satisfies the adapter's modern entry-point shape.
type paymentClient struct {
	client *http.Client
	cfg    config.GatewayConfig
	logger *slog.Logger
}

type paymentResponsePayload struct {
	Status    string `json:"status"`
	ReceiptID string `json:"receiptId"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
}

func (p *paymentClient) RequestPayment(ctx context.Context, req gateway.PaymentRequest, cb gateway.Callbacks) error {
	payload := map[string]any{
		"applicationId": req.ApplicationID,
		"orderId":       req.OrderID,
		"orderName":     req.OrderName,
		"price":         req.Amount,
		"userId":        req.BuyerID,
		"pg":            req.SellerName,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "marshal payment request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIURL+"/request", bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "build payment request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return errs.Wrap(err, "payment request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrap(err, "read payment response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return infra.WrapUpstreamErr(p.logger, infra.KindUpstreamFailure, "payment request rejected", errs.Newf("status %d", resp.StatusCode))
	}

	var out paymentResponsePayload
	if err := json.Unmarshal(respBody, &out); err != nil {
		return infra.WrapUpstreamErr(p.logger, infra.KindUpstreamFailure, "decode payment response", err)
	}

	switch out.Status {
	case "cancelled":
		cb.Cancel()
	case "error":
		cb.Error(out.Reason)
	default:
		// The vendor fires both signals for a settled payment; the adapter
		// collapses them into one Confirmed.
		cb.Confirm(out.ReceiptID, out.Amount)
		cb.Done(out.ReceiptID, out.Amount)
	}
	return nil
}
