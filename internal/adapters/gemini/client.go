package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"bling_travel/internal/adapters/observability"
	"bling_travel/internal/domain"
)

// Client adapts the Gemini API to the engine's ModelClient seam. Each call
// rebuilds the chat from {system policy, declared tools, full history}; the
// adapter itself is stateless.
type Client struct {
	c     *genai.Client
	model string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{c: c, model: model}, nil
}

func (c *Client) Close() error { return c.c.Close() }

func (c *Client) Complete(ctx context.Context, policy string, tools []domain.ToolSchema, history []domain.Message) (domain.ModelTurn, error) {
	m := c.c.GenerativeModel(c.model)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(policy)}}
	m.SetTemperature(0.1)
	m.Tools = declareTools(tools)

	hist, last, err := toContents(history)
	if err != nil {
		return domain.ModelTurn{}, err
	}

	cs := m.StartChat()
	cs.History = hist

	start := time.Now()
	resp, err := cs.SendMessage(ctx, last...)
	if err != nil {
		observability.ObserveModelTurn("error", time.Since(start))
		return domain.ModelTurn{}, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		observability.ObserveModelTurn("error", time.Since(start))
		return domain.ModelTurn{}, fmt.Errorf("gemini generate: empty response")
	}

	turn := parseTurn(resp.Candidates[0])
	if len(turn.ToolCalls) > 0 {
		observability.ObserveModelTurn("tool", time.Since(start))
	} else {
		observability.ObserveModelTurn("reply", time.Since(start))
	}
	return turn, nil
}

func parseTurn(cand *genai.Candidate) domain.ModelTurn {
	var turn domain.ModelTurn
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			sb.WriteString(string(p))
		case genai.FunctionCall:
			turn.ToolCalls = append(turn.ToolCalls, domain.ToolCall{Name: p.Name, Args: p.Args})
		}
	}
	turn.Reply = sb.String()
	return turn
}

// toContents splits the history into chat prefix plus the parts to send now.
// The last message is always a user message or a tool result; anything else
// means the engine called us in a bad state.
func toContents(history []domain.Message) ([]*genai.Content, []genai.Part, error) {
	if len(history) == 0 {
		return nil, nil, fmt.Errorf("empty history")
	}
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		c, err := toContent(m)
		if err != nil {
			return nil, nil, err
		}
		contents = append(contents, c)
	}
	last := contents[len(contents)-1]
	if last.Role == "model" {
		return nil, nil, fmt.Errorf("history ends with a model message")
	}
	return contents[:len(contents)-1], last.Parts, nil
}

func toContent(m domain.Message) (*genai.Content, error) {
	switch m.Role {
	case domain.RoleUser:
		return &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Text)}}, nil
	case domain.RoleAssistant:
		if m.ToolCall != nil {
			return &genai.Content{Role: "model", Parts: []genai.Part{
				genai.FunctionCall{Name: m.ToolCall.Name, Args: m.ToolCall.Args},
			}}, nil
		}
		return &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(m.Text)}}, nil
	case domain.RoleTool:
		return &genai.Content{Role: "function", Parts: []genai.Part{
			genai.FunctionResponse{Name: m.ToolName, Response: m.ToolResult},
		}}, nil
	default:
		return nil, fmt.Errorf("unknown message role %q", m.Role)
	}
}

func declareTools(schemas []domain.ToolSchema) []*genai.Tool {
	if len(schemas) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(schemas))
	for _, s := range schemas {
		props := make(map[string]*genai.Schema, len(s.Params))
		var required []string
		for name, p := range s.Params {
			props[name] = &genai.Schema{Type: schemaType(p.Type), Description: p.Description}
			if p.Required {
				required = append(required, name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        s.Name,
			Description: s.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   required,
			},
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func schemaType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
