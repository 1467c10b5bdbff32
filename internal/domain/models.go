package domain

import (
	"fmt"
	"strings"
)

// PlayerStatus represents the current state of the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// ImageVariant is one size of a cover image offered by the player.
// Width and Height are zero when the player does not report them.
type ImageVariant struct {
	URL    string
	Width  int
	Height int
}

// PlayerTrack is the raw player-side view of the current track
type PlayerTrack struct {
	// Title of the currently playing track
	Title string
	// Artists in the order reported by the player
	Artists []string
	// Album name
	Album string
	// Images are the available cover variants, in source order
	Images []ImageVariant
	// Status is the current playback status
	Status PlayerStatus
}

// ImageKind tags the variant held by an ImageReference
type ImageKind int

const (
	// ImageOpaqueID is resolved through the configured URL template
	ImageOpaqueID ImageKind = iota
	// ImageDirectURL is fetched as-is
	ImageDirectURL
)

const opaqueImagePrefix = "spotify:image:"

// ImageReference points at a cover image, either by opaque id or by URL.
type ImageReference struct {
	Kind  ImageKind
	Value string
}

// OpaqueID builds a reference resolved through the image URL template.
func OpaqueID(id string) ImageReference {
	return ImageReference{Kind: ImageOpaqueID, Value: id}
}

// DirectURL builds a reference fetched as-is.
func DirectURL(url string) ImageReference {
	return ImageReference{Kind: ImageDirectURL, Value: url}
}

// ParseImageReference classifies a player-supplied image string.
// Returns nil for an empty string.
func ParseImageReference(s string) *ImageReference {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, opaqueImagePrefix) {
		ref := OpaqueID(s[strings.LastIndex(s, ":")+1:])
		return &ref
	}
	ref := DirectURL(s)
	return &ref
}

// Resolve returns the concrete URL for the reference.
func (r ImageReference) Resolve(template string) (string, error) {
	if r.Value == "" {
		return "", fmt.Errorf("%w: empty reference", ErrUnresolvableImage)
	}
	switch r.Kind {
	case ImageDirectURL:
		return r.Value, nil
	case ImageOpaqueID:
		if !strings.Contains(template, "%s") {
			return "", fmt.Errorf("%w: template %q has no %%s verb", ErrUnresolvableImage, template)
		}
		return fmt.Sprintf(template, r.Value), nil
	default:
		return "", fmt.Errorf("%w: unknown kind %d", ErrUnresolvableImage, r.Kind)
	}
}

func (r ImageReference) String() string {
	if r.Kind == ImageOpaqueID {
		return opaqueImagePrefix + r.Value
	}
	return r.Value
}

// TrackMetadata is the normalized description of the current track
type TrackMetadata struct {
	Title   string
	Artists []string
	Album   string
	// Cover is nil when the track has no images
	Cover *ImageReference
}

// Thumbnail is a square JPEG cover ready for the display.
type Thumbnail struct {
	// JPEG holds the encoder output
	JPEG []byte
	// Base64 is JPEG in standard, padded base64
	Base64 string
	// Size is the side length in pixels
	Size int
}

// Payload is the JSON body sent to the gateway and on to the device
type Payload struct {
	Title       string  `json:"title"`
	Artists     string  `json:"artists"`
	Album       string  `json:"album"`
	CoverBase64 *string `json:"cover_base64,omitempty"`
}

// Command is a transport command relayed to the device
type Command int

const (
	CommandPlay Command = iota
	CommandPause
	CommandNext
	CommandPrevious
)

var commandTokens = map[Command]string{
	CommandPlay:     "play",
	CommandPause:    "pause",
	CommandNext:     "next",
	CommandPrevious: "prev",
}

// Commands lists every command in declaration order.
func Commands() []Command {
	return []Command{CommandPlay, CommandPause, CommandNext, CommandPrevious}
}

// Token returns the lowercase wire token for the command.
func (c Command) Token() string {
	if t, ok := commandTokens[c]; ok {
		return t
	}
	return fmt.Sprintf("command(%d)", int(c))
}

func (c Command) String() string {
	return c.Token()
}

// ParseCommand maps a wire token back to its Command.
func ParseCommand(token string) (Command, error) {
	for cmd, t := range commandTokens {
		if t == token {
			return cmd, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, token)
}

// EventKind identifies what happened on the player side
type EventKind string

const (
	EventTrackChanged EventKind = "track_changed"
	EventPlayPause    EventKind = "play_pause"
	EventNext         EventKind = "next"
	EventPrevious     EventKind = "previous"
)

// PlayerEvent is a single triggering event from the media-player host
type PlayerEvent struct {
	Kind EventKind
	// Playing is meaningful for EventPlayPause only
	Playing bool
	// Player names the source player when known
	Player string
}

// Command maps a transport event to its relay command.
// ok is false for EventTrackChanged.
func (e PlayerEvent) Command() (cmd Command, ok bool) {
	switch e.Kind {
	case EventPlayPause:
		if e.Playing {
			return CommandPlay, true
		}
		return CommandPause, true
	case EventNext:
		return CommandNext, true
	case EventPrevious:
		return CommandPrevious, true
	default:
		return 0, false
	}
}
