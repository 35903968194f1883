// Package mallapi implements the REST contracts of the upstream mall API.
// Every authenticated call goes through the dispatcher; nothing here touches
// a raw token.
package mallapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"mallfront/internal/dispatch"
	"mallfront/internal/infra"
	"mallfront/internal/pkg/errs"
)

const (
	pathSession        = "/session"
	pathSessionRefresh = "/session/refresh"
	pathOrders         = "/orders"
	pathCollection     = "/collection"
	pathCartLines      = "/cart/lines"
	pathCart           = "/cart"
)

// post sends an authenticated POST and decodes a 2xx body into out (out may
// be nil for empty responses). Non-2xx statuses map onto upstream error kinds.
func post(ctx context.Context, d *dispatch.Dispatcher, logger *slog.Logger, path string, in, out any) error {
	resp, err := d.Do(ctx, dispatch.Request{Method: http.MethodPost, Path: path, Body: in})
	if err != nil {
		return err
	}
	return decode(logger, path, resp, out)
}

func get(ctx context.Context, d *dispatch.Dispatcher, logger *slog.Logger, path string, out any) error {
	resp, err := d.Do(ctx, dispatch.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return err
	}
	return decode(logger, path, resp, out)
}

func decode(logger *slog.Logger, path string, resp *dispatch.Response, out any) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return infra.WrapUpstreamErr(logger, infra.KindUpstreamFailure, "decode "+path+" response", err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return infra.WrapUpstreamErr(logger, infra.KindNotFound, path+" not found", nil)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return infra.WrapUpstreamErr(logger, infra.KindValidation, path+" rejected", errs.Newf("status %d", resp.StatusCode))
	default:
		return infra.WrapUpstreamErr(logger, infra.KindUpstreamFailure, path+" failed", errs.Newf("status %d", resp.StatusCode))
	}
}
