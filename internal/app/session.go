package app

import (
	"context"
	"fmt"
	"sync"

	"bling_travel/internal/domain"
)

// Sessions is the conversational entry point for the presentation layer. It
// serializes turns per session (one in-flight turn per session id) while
// independent sessions run concurrently, and checkpoints the conversation
// after every completed turn.
type Sessions struct {
	engine *Engine
	store  domain.CheckpointStore

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is refcounted so the lock map only holds entries for sessions
// with a turn in flight, not for every id ever seen.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessions(engine *Engine, store domain.CheckpointStore) *Sessions {
	return &Sessions{engine: engine, store: store, locks: map[string]*sessionLock{}}
}

func (s *Sessions) acquire(id string) *sessionLock {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return l
}

func (s *Sessions) release(id string, l *sessionLock) {
	l.mu.Unlock()

	s.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, id)
	}
	s.mu.Unlock()
}

// Submit runs one turn and returns the full updated transcript. Identity
// fields are merged into session state before the turn so the booking tool
// can pick them up without them ever entering tool arguments. On engine
// failure nothing is saved; the stored history stays valid for retry.
func (s *Sessions) Submit(ctx context.Context, sessionID, userText string, id domain.Identity) ([]domain.Message, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	l := s.acquire(sessionID)
	defer s.release(sessionID, l)

	conv, ok, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		conv = domain.NewConversation(sessionID)
	}
	conv.MergeIdentity(id)

	if _, err := s.engine.Advance(ctx, conv, userText); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("save checkpoint: %w", err)
	}
	return conv.Messages, nil
}

// History returns a session's checkpointed transcript.
func (s *Sessions) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	conv, ok, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conv.Messages, nil
}
