package dashboard

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	core "github.com/ortelius/orgmap-backend/internal/dashboard"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Session is one dashboard: its controller and the surface it renders to
type Session struct {
	Controller *core.Controller
	Surface    *SessionSurface
}

// Sessions caches the dashboards of the most recently active browser sessions
type Sessions struct {
	group   singleflight.Group
	cache   *lru.Cache[string, *Session]
	backend core.Backend
	opts    []core.Option
	logger  *zap.Logger
}

// NewSessions returns a cache holding at most size dashboards
func NewSessions(size int, backend core.Backend, logger *zap.Logger, opts ...core.Option) (*Sessions, error) {
	cache, err := lru.NewWithEvict[string, *Session](size, func(id string, _ *Session) {
		logger.Debug("Dashboard session evicted", zap.String("session", id))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &Sessions{cache: cache, backend: backend, opts: opts, logger: logger}, nil
}

// Get returns the dashboard of a session, creating and loading it on first use.
// Concurrent first requests for one session share a single load; other sessions are never blocked by it.
func (s *Sessions) Get(ctx context.Context, id string) *Session {
	if sess, ok := s.cache.Get(id); ok {
		return sess
	}

	v, _, _ := s.group.Do(id, func() (interface{}, error) {
		if sess, ok := s.cache.Get(id); ok {
			return sess, nil
		}
		surface := &SessionSurface{}
		controller := core.NewController(s.backend, surface, s.opts...)
		controller.Start(ctx)
		sess := &Session{Controller: controller, Surface: surface}
		s.cache.Add(id, sess)
		s.logger.Info("Dashboard session started", zap.String("session", id))
		return sess, nil
	})
	return v.(*Session)
}

// Len returns the number of cached dashboards
func (s *Sessions) Len() int {
	return s.cache.Len()
}
