package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "bling_travel/internal/adapters/redis"
	"bling_travel/internal/domain"
)

func newStore(t *testing.T) *redisad.Checkpoints {
	t.Helper()
	mr := miniredis.RunT(t)
	cl := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return redisad.NewWithClient(cl, time.Hour)
}

func TestCheckpoints_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	conv := domain.NewConversation("sess-1")
	conv.Identity = domain.Identity{Name: "Asha", Email: "asha@example.com"}
	conv.Messages = []domain.Message{
		{Role: domain.RoleUser, Text: "I want a beach holiday"},
		{Role: domain.RoleAssistant, Text: "Happy to help!"},
	}

	if err := s.Save(ctx, conv); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := s.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected checkpoint to exist")
	}
	if got.Identity.Email != "asha@example.com" || len(got.Messages) != 2 {
		t.Fatalf("unexpected conversation: %+v", got)
	}
	if got.Messages[0].Role != domain.RoleUser || got.Messages[1].Text != "Happy to help!" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
}

func TestCheckpoints_MissingSession(t *testing.T) {
	s := newStore(t)

	got, ok, err := s.Load(context.Background(), "nope")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok || got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}
}
