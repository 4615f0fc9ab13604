package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"bling_travel/internal/domain"
)

// turnState tracks where one external turn is inside its internal loop.
type turnState int

const (
	stateAwaitingModel turnState = iota
	stateToolRequested
	stateReplyReady
)

// Engine drives one conversation as a bounded loop of model-invoke and
// tool-dispatch steps. One external turn (user message in, assistant reply
// out) may contain any number of internal tool round-trips; the loop ends
// only when the model answers with plain text.
type Engine struct {
	model    domain.ModelClient
	registry *Registry
	policy   string
}

func NewEngine(model domain.ModelClient, registry *Registry, policy string) *Engine {
	return &Engine{model: model, registry: registry, policy: policy}
}

// Advance runs one external turn. The conversation is only mutated when the
// turn completes; a model failure leaves it exactly as it was, so the caller
// can retry against uncorrupted history. Tool side effects that already
// happened mid-turn are not rolled back.
func (e *Engine) Advance(ctx context.Context, conv *domain.Conversation, userText string) (string, error) {
	if strings.TrimSpace(userText) == "" {
		return "", fmt.Errorf("empty user message")
	}

	msgs := append(slices.Clone(conv.Messages), domain.Message{
		Role: domain.RoleUser,
		Text: userText,
		At:   time.Now().UTC(),
	})

	var (
		state   = stateAwaitingModel
		pending domain.ToolCall
		reply   string
	)

	for state != stateReplyReady {
		switch state {
		case stateAwaitingModel:
			turn, err := e.model.Complete(ctx, e.policy, e.registry.Schemas(), msgs)
			if err != nil {
				return "", fmt.Errorf("model turn: %w", err)
			}

			if len(turn.ToolCalls) > 0 {
				// at most one tool per model step, whatever the model asked for
				if len(turn.ToolCalls) > 1 {
					log.Warn().
						Str("session", conv.SessionID).
						Int("requested", len(turn.ToolCalls)).
						Msg("model requested multiple tools; only the first is run")
				}
				// fresh value per message: a later round-trip reassigns
				// pending and must not touch messages already appended
				tc := turn.ToolCalls[0]
				pending = tc
				msgs = append(msgs, domain.Message{
					Role:     domain.RoleAssistant,
					ToolCall: &tc,
					At:       time.Now().UTC(),
				})
				state = stateToolRequested
				continue
			}

			reply = turn.Reply
			msgs = append(msgs, domain.Message{
				Role: domain.RoleAssistant,
				Text: reply,
				At:   time.Now().UTC(),
			})
			state = stateReplyReady

		case stateToolRequested:
			result := e.registry.Dispatch(ctx, conv, pending)
			msgs = append(msgs, domain.Message{
				Role:       domain.RoleTool,
				ToolName:   pending.Name,
				ToolResult: result,
				At:         time.Now().UTC(),
			})
			state = stateAwaitingModel
		}
	}

	conv.Messages = msgs
	return reply, nil
}
