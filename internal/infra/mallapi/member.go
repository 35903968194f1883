package mallapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"mallfront/internal/infra"
	"mallfront/internal/pkg/errs"
	"mallfront/internal/pkg/jwtinspect"
	"mallfront/internal/session"
	"mallfront/internal/usecase/commands"
)

// MemberClient speaks the unauthenticated member endpoints: login and token
// refresh. Both run outside the dispatcher — there is no usable session yet
// (login) or the session is exactly what is being repaired (refresh).
type MemberClient struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

func NewMemberClient(client *http.Client, baseURL string, logger *slog.Logger) *MemberClient {
	return &MemberClient{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

type tokenPairPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (c *MemberClient) Login(ctx context.Context, creds commands.MemberCredentials) (*commands.MemberLogin, error) {
	payload := map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	}

	var out struct {
		tokenPairPayload
		Email    string `json:"email"`
		Nickname string `json:"nickname"`
	}
	if err := c.postJSON(ctx, pathSession, payload, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		return nil, infra.WrapUpstreamErr(c.logger, infra.KindUpstreamFailure, "login returned incomplete token pair", nil)
	}

	buyerID := out.Email
	if buyerID == "" {
		// Some upstream builds omit the profile block; the token's sub claim
		// carries the same member email.
		if sub, err := jwtinspect.Subject(out.AccessToken); err == nil {
			buyerID = sub
		}
	}
	if buyerID == "" {
		return nil, infra.WrapUpstreamErr(c.logger, infra.KindUpstreamFailure, "login returned no member identity", nil)
	}

	return &commands.MemberLogin{
		Session: session.Session{
			AccessToken:  out.AccessToken,
			RefreshToken: out.RefreshToken,
		},
		BuyerID:  buyerID,
		Nickname: out.Nickname,
	}, nil
}

// Refresh implements session.Refresher. Any upstream rejection of the refresh
// token is a hard failure; the manager collapses it into Invalid.
func (c *MemberClient) Refresh(ctx context.Context, refreshToken string) (session.Session, error) {
	payload := map[string]string{"refreshToken": refreshToken}

	var out tokenPairPayload
	if err := c.postJSON(ctx, pathSessionRefresh, payload, &out); err != nil {
		return session.Session{}, err
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		return session.Session{}, infra.WrapUpstreamErr(c.logger, infra.KindUpstreamFailure, "refresh returned incomplete token pair", nil)
	}

	return session.Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
	}, nil
}

func (c *MemberClient) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errs.Wrap(err, "marshal "+path+" request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errs.Wrap(err, "build "+path+" request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errs.Wrap(err, path+" request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrap(err, "read "+path+" response")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return infra.WrapUpstreamErr(c.logger, infra.KindAuthRejected, path+" rejected credentials", nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return infra.WrapUpstreamErr(c.logger, infra.KindUpstreamFailure, path+" failed", errs.Newf("status %d", resp.StatusCode))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return infra.WrapUpstreamErr(c.logger, infra.KindUpstreamFailure, "decode "+path+" response", err)
	}
	return nil
}
