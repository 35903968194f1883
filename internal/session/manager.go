package session

import (
	"context"
	"log/slog"
	"sync"

	"mallfront/internal/pkg/clock"
	"mallfront/internal/pkg/errs"
	"mallfront/internal/pkg/jwtinspect"
)

var (
	// ErrAuthExpired means no usable session exists and the caller should be
	// sent back to login. It is terminal; the manager never retries past it.
	ErrAuthExpired = errs.New("authentication expired")

	// ErrRefreshFailed marks a refresh round trip that errored; it collapses
	// into the Invalid state and surfaces to callers as ErrAuthExpired.
	ErrRefreshFailed = errs.New("token refresh failed")
)

type State int32

const (
	StateValid State = iota
	StateExpired
	StateRefreshing
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateExpired:
		return "expired"
	case StateRefreshing:
		return "refreshing"
	case StateInvalid:
		return "invalid"
	}
	return "unknown"
}

// Refresher exchanges a refresh token for a new pair against the upstream.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}

// refreshOp is the single in-flight refresh attempt. Every caller that
// arrives while it is active waits on done and shares its outcome.
type refreshOp struct {
	done chan struct{}
	sess Session
	err  error
}

// Manager owns the refresh lifecycle of one member's Session:
// Valid -> Expired -> Refreshing -> {Valid | Invalid}. At most one refresh is
// ever in flight; transition to Invalid is broadcast to every watcher.
type Manager struct {
	store     *Store
	refresher Refresher
	clock     clock.Clock
	logger    *slog.Logger

	mu       sync.Mutex
	state    State
	inflight *refreshOp
	watchers []chan State
}

func NewManager(store *Store, refresher Refresher, clk clock.Clock, logger *slog.Logger) *Manager {
	m := &Manager{
		store:     store,
		refresher: refresher,
		clock:     clk,
		logger:    logger,
	}
	if _, ok := store.Get(); !ok {
		m.state = StateInvalid
	}
	return m
}

// Token returns an access token believed usable. While a refresh is in
// flight the caller joins it; when the session is Invalid it fails fast with
// ErrAuthExpired without touching the network.
func (m *Manager) Token(ctx context.Context) (string, error) {
	for {
		m.mu.Lock()

		if m.state == StateValid {
			sess, ok := m.store.Get()
			if !ok {
				m.state = StateInvalid
				m.notifyLocked(StateInvalid)
				m.mu.Unlock()
				return "", ErrAuthExpired
			}
			// Local fast path: a token whose exp claim has passed will be
			// rejected upstream anyway, so skip the doomed round trip.
			if exp, readable := jwtinspect.ExpiresAt(sess.AccessToken); readable && !exp.After(m.clock.Now()) {
				m.state = StateExpired
			} else {
				m.mu.Unlock()
				return sess.AccessToken, nil
			}
		}

		if m.state == StateInvalid {
			m.mu.Unlock()
			return "", ErrAuthExpired
		}

		op := m.inflight
		if op == nil {
			op = m.beginRefreshLocked()
		}
		m.mu.Unlock()

		if op == nil {
			// No refresh token existed; state is already Invalid.
			return "", ErrAuthExpired
		}

		select {
		case <-op.done:
		case <-ctx.Done():
			return "", ctx.Err()
		}
		if op.err != nil {
			return "", errs.Mark(op.err, ErrAuthExpired)
		}
		return op.sess.AccessToken, nil
	}
}

// ReportExpired records that an upstream call rejected the current access
// token. Idempotent: repeated reports while Expired, Refreshing or Invalid
// are no-ops.
func (m *Manager) ReportExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateValid {
		m.state = StateExpired
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Watch returns a channel receiving state transitions, in particular the
// broadcast to Invalid. The channel is buffered; a slow watcher only misses
// intermediate states, never the latest one sent.
func (m *Manager) Watch() <-chan State {
	ch := make(chan State, 1)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()
	return ch
}

// Logout destroys the session. Any refresh in flight is abandoned and its
// waiters are rejected.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.clear()
	m.state = StateInvalid
	if op := m.inflight; op != nil {
		op.err = ErrAuthExpired
		close(op.done)
		m.inflight = nil
	}
	m.notifyLocked(StateInvalid)
}

// beginRefreshLocked starts the single-flight refresh. Returns nil when no
// refresh token exists, in which case the state is already Invalid.
func (m *Manager) beginRefreshLocked() *refreshOp {
	sess, ok := m.store.Get()
	if !ok || sess.RefreshToken == "" {
		m.store.clear()
		m.state = StateInvalid
		m.notifyLocked(StateInvalid)
		return nil
	}

	op := &refreshOp{done: make(chan struct{})}
	m.inflight = op
	m.state = StateRefreshing

	// Detached from any single caller's context: the operation is shared by
	// every waiter, so one caller cancelling must not fail the rest.
	go m.runRefresh(op, sess.RefreshToken)
	return op
}

func (m *Manager) runRefresh(op *refreshOp, refreshToken string) {
	sess, err := m.refresher.Refresh(context.Background(), refreshToken)
	if err == nil {
		sess.IssuedAt = m.clock.Now()
	}

	m.mu.Lock()
	if m.inflight != op {
		// Logout raced us; waiters were already rejected.
		m.mu.Unlock()
		return
	}
	m.inflight = nil

	if err != nil {
		m.store.clear()
		m.state = StateInvalid
		op.err = errs.Mark(err, ErrRefreshFailed)
		m.notifyLocked(StateInvalid)
		m.logger.Warn("session refresh failed", "error", err.Error())
	} else if replaceErr := m.store.replace(sess); replaceErr != nil {
		m.store.clear()
		m.state = StateInvalid
		op.err = errs.Mark(replaceErr, ErrRefreshFailed)
		m.notifyLocked(StateInvalid)
		m.logger.Warn("session refresh returned unusable pair", "error", replaceErr.Error())
	} else {
		m.state = StateValid
		op.sess = sess
	}
	m.mu.Unlock()

	close(op.done)
}

func (m *Manager) notifyLocked(s State) {
	for _, ch := range m.watchers {
		select {
		case ch <- s:
		default:
			// Watcher still holds an undelivered state; drop rather than block.
		}
	}
}
