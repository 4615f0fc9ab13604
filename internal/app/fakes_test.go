package app_test

import (
	"context"
	"fmt"
	"sync"

	"bling_travel/internal/domain"
)

// ---- small helpers ----

func pfloat(f float64) *float64 { return &f }

// ---- fakes ----

// scriptedModel replays a fixed sequence of turns and records the history it
// was shown at each step.
type scriptedModel struct {
	turns []domain.ModelTurn
	errs  []error
	seen  [][]domain.Message
}

func (m *scriptedModel) Complete(ctx context.Context, policy string, tools []domain.ToolSchema, history []domain.Message) (domain.ModelTurn, error) {
	i := len(m.seen)
	cp := make([]domain.Message, len(history))
	copy(cp, history)
	m.seen = append(m.seen, cp)
	if i < len(m.errs) && m.errs[i] != nil {
		return domain.ModelTurn{}, m.errs[i]
	}
	if i >= len(m.turns) {
		return domain.ModelTurn{}, fmt.Errorf("no scripted turn %d", i)
	}
	return m.turns[i], nil
}

type fakeCatalog struct {
	pkgs    []domain.TourPackage
	err     error
	filters []domain.PackageFilter
}

func (c *fakeCatalog) SearchPackages(ctx context.Context, f domain.PackageFilter) ([]domain.TourPackage, error) {
	c.filters = append(c.filters, f)
	if c.err != nil {
		return nil, c.err
	}
	return c.pkgs, nil
}

// fakeHotelClient serves canned destinations and per-destination offer sets.
type fakeHotelClient struct {
	mu       sync.Mutex
	dests    []domain.Destination
	destErr  error
	offers   map[string][]domain.HotelOffer
	offerErr map[string]error
	queries  []domain.HotelQuery
}

func (c *fakeHotelClient) SearchDestinations(ctx context.Context, city string) ([]domain.Destination, error) {
	if c.destErr != nil {
		return nil, c.destErr
	}
	return c.dests, nil
}

func (c *fakeHotelClient) SearchHotels(ctx context.Context, destID string, q domain.HotelQuery) ([]domain.HotelOffer, error) {
	c.mu.Lock()
	c.queries = append(c.queries, q)
	c.mu.Unlock()
	if err := c.offerErr[destID]; err != nil {
		return nil, err
	}
	return c.offers[destID], nil
}

func (c *fakeHotelClient) searchCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queries)
}

type insertedBooking struct {
	id  domain.Identity
	rec domain.BookingRecord
}

type fakeBookingRepo struct {
	schemaErr error
	insertErr error
	inserted  []insertedBooking
}

func (r *fakeBookingRepo) EnsureSchema(ctx context.Context) error { return r.schemaErr }

func (r *fakeBookingRepo) Insert(ctx context.Context, id domain.Identity, rec domain.BookingRecord) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, insertedBooking{id: id, rec: rec})
	return nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	err  error
	sent []sentMail
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// memStore is an in-memory checkpoint store for session tests.
type memStore struct {
	mu      sync.Mutex
	convs   map[string]*domain.Conversation
	saveErr error
	saves   int
}

func (s *memStore) Load(ctx context.Context, sessionID string) (*domain.Conversation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[sessionID]
	if !ok {
		return nil, false, nil
	}
	cp := *c
	cp.Messages = append([]domain.Message(nil), c.Messages...)
	return &cp, true, nil
}

func (s *memStore) Save(ctx context.Context, c *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.convs == nil {
		s.convs = map[string]*domain.Conversation{}
	}
	cp := *c
	cp.Messages = append([]domain.Message(nil), c.Messages...)
	s.convs[c.SessionID] = &cp
	s.saves++
	return nil
}
