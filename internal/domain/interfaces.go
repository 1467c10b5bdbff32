package domain

import "context"

//go:generate mockgen -destination=mocks/domain_mock.go -package=mocks github.com/genricoloni/nowrelay/internal/domain PlayerStateProvider,Fetcher,Normalizer,MetadataBuilder,GatewayClient,PlayerController

// EventSource emits triggering events from the media-player host
type EventSource interface {
	// Events returns a read-only channel of player events.
	// The channel is closed when the source stops.
	Events() <-chan PlayerEvent
}

// Monitor defines the interface for monitoring media playback events
// Implementations should handle D-Bus/MPRIS communication
type Monitor interface {
	EventSource

	// Start connects and begins monitoring in the background.
	// It returns once the source is ready.
	Start(ctx context.Context) error

	// Stop gracefully stops the monitor
	Stop(ctx context.Context) error
}

// PlayerStateProvider exposes the player's current track on demand
type PlayerStateProvider interface {
	// CurrentTrack returns the active track, or nil when nothing is loaded
	CurrentTrack(ctx context.Context) (*PlayerTrack, error)
}

// PlayerController drives the player in response to device buttons
type PlayerController interface {
	// Control invokes a transport action on the active player.
	// action is one of "play", "pause", "playpause", "next", "prev".
	Control(ctx context.Context, action string) error
}

// Fetcher defines the interface for retrieving album artwork
type Fetcher interface {
	// Fetch downloads image data from a URL
	// Returns the raw image bytes or an error
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImageProcessor defines the interface for in-memory image processing
// This is OS-agnostic and works purely with byte streams
type ImageProcessor interface {
	// Process transforms encoded image bytes into thumbnail JPEG bytes
	Process(ctx context.Context, imageData []byte) ([]byte, error)
}

// Normalizer turns a cover reference into an embeddable thumbnail
type Normalizer interface {
	// Normalize never fails loudly; it returns nil whenever the cover
	// cannot be fetched, decoded or encoded.
	Normalize(ctx context.Context, ref ImageReference) *Thumbnail
}

// MetadataBuilder extracts TrackMetadata from the current player state
type MetadataBuilder interface {
	// Build returns ErrNoActiveTrack when nothing is playing
	Build(ctx context.Context) (TrackMetadata, error)
}

// GatewayClient talks to the local relay gateway
type GatewayClient interface {
	// SendCommand issues exactly one command request
	SendCommand(ctx context.Context, cmd Command) error
	// Forward posts exactly one payload to the update endpoint
	Forward(ctx context.Context, payload Payload) error
}
