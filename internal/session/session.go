package session

import (
	"sync"
	"time"

	"mallfront/internal/pkg/errs"
)

var ErrPartialSession = errs.New("session requires both access and refresh tokens")

// Session is the access/refresh token pair identifying one member to the
// upstream mall API. It is either fully present or fully absent; a partial
// pair is not representable through the store.
type Session struct {
	AccessToken  string
	RefreshToken string
	IssuedAt     time.Time
}

func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

// Store holds the current Session. The Manager is its only mutator; readers
// always receive a consistent copy, never a torn mid-refresh pair.
type Store struct {
	mu      sync.RWMutex
	sess    Session
	present bool
}

func NewStore() *Store {
	return &Store{}
}

// NewStoreWith seeds the store with an already-issued pair (login flow).
func NewStoreWith(sess Session) (*Store, error) {
	s := NewStore()
	if err := s.replace(sess); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Get() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess, s.present
}

// replace swaps both tokens atomically. Rejects partial pairs.
func (s *Store) replace(sess Session) error {
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		return ErrPartialSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	s.present = true
	return nil
}

func (s *Store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = Session{}
	s.present = false
}
