package commands

import (
	"context"
	"log/slog"

	"mallfront/internal/infra"
	"mallfront/internal/pkg/clock"
	"mallfront/internal/pkg/errs"
	"mallfront/internal/session"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrSessionNotFound      = errs.New("session not found")
)

type LoginResult struct {
	SessionID uuid.UUID
	BuyerID   string
	Nickname  string
}

type AuthCommands interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(sessionID uuid.UUID) error
}

type authCommandsImpl struct {
	members   MemberService
	refresher session.Refresher
	registry  *session.Registry
	clock     clock.Clock
	logger    *slog.Logger
}

func NewAuthCommands(
	members MemberService,
	refresher session.Refresher,
	registry *session.Registry,
	clk clock.Clock,
	logger *slog.Logger,
) AuthCommands {
	return &authCommandsImpl{
		members:   members,
		refresher: refresher,
		registry:  registry,
		clock:     clk,
		logger:    logger,
	}
}

// Login exchanges credentials upstream and installs a session manager for the
// member. From here on every call the member makes rides that manager; the
// raw pair is never handed back out.
func (a *authCommandsImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	login, err := a.members.Login(ctx, MemberCredentials{Email: email, Password: password})
	if err != nil {
		if infra.IsKind(err, infra.KindAuthRejected) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	sess := login.Session
	sess.IssuedAt = a.clock.Now()

	store, err := session.NewStoreWith(sess)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	mgr := session.NewManager(store, a.refresher, a.clock, a.logger)
	sid := a.registry.Add(mgr, login.BuyerID)

	a.logger.Info("member logged in", "buyer_id", login.BuyerID)

	return &LoginResult{
		SessionID: sid,
		BuyerID:   login.BuyerID,
		Nickname:  login.Nickname,
	}, nil
}

func (a *authCommandsImpl) Logout(sessionID uuid.UUID) error {
	entry, ok := a.registry.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	entry.Manager.Logout()
	a.logger.Info("member logged out", "buyer_id", entry.BuyerID)
	return nil
}
