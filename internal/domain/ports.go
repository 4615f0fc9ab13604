package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks a remote dependency outage. Tool dispatch turns it
	// into a structured result for the model, never a crash.
	ErrUnavailable = errors.New("service unavailable")
)

// PackageCatalog is the read-only tour package lookup. A store failure is an
// error, distinct from an empty result.
type PackageCatalog interface {
	SearchPackages(ctx context.Context, f PackageFilter) ([]TourPackage, error)
}

// HotelClient wraps the remote hotel-data service's two GET endpoints.
type HotelClient interface {
	SearchDestinations(ctx context.Context, city string) ([]Destination, error)
	SearchHotels(ctx context.Context, destID string, q HotelQuery) ([]HotelOffer, error)
}

// BookingRepository appends finalized bookings.
type BookingRepository interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, id Identity, rec BookingRecord) error
}

// Mailer delivers the confirmation message. Failures are the caller's to log
// and swallow; a booking commit never depends on delivery.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ToolParam describes one argument of a tool to the model provider.
type ToolParam struct {
	Type        string // string | integer | number | object
	Description string
	Required    bool
}

type ToolSchema struct {
	Name        string
	Description string
	Params      map[string]ToolParam
}

// ModelTurn is one model response: assistant text, or one or more requested
// tool calls. The engine acts on at most one call per turn regardless of how
// many the model asked for.
type ModelTurn struct {
	Reply     string
	ToolCalls []ToolCall
}

// ModelClient invokes the external language model with the behavioral policy,
// the declared tools, and the running history. This seam keeps the provider
// swappable without touching engine logic.
type ModelClient interface {
	Complete(ctx context.Context, policy string, tools []ToolSchema, history []Message) (ModelTurn, error)
}

// CheckpointStore persists conversations keyed by session id.
type CheckpointStore interface {
	Load(ctx context.Context, sessionID string) (*Conversation, bool, error)
	Save(ctx context.Context, c *Conversation) error
}
