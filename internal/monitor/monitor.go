//go:build linux

package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/genricoloni/nowrelay/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

// controlMethods maps control actions to MPRIS Player methods
var controlMethods = map[string]string{
	"play":      "Play",
	"pause":     "Pause",
	"playpause": "PlayPause",
	"next":      "Next",
	"prev":      "Previous",
}

// playerState is the last-seen view of one MPRIS player
type playerState struct {
	trackKey string
	artURL   string
	track    *domain.PlayerTrack
	status   domain.PlayerStatus
}

// coverURL returns the first artwork URL of a track, or ""
func coverURL(track *domain.PlayerTrack) string {
	if track == nil || len(track.Images) == 0 {
		return ""
	}
	return track.Images[0].URL
}

// MprisMonitor monitors media playback via D-Bus MPRIS interface.
// It is also the bridge's PlayerStateProvider and PlayerController.
type MprisMonitor struct {
	logger          *zap.Logger
	events          chan domain.PlayerEvent
	mu              sync.RWMutex
	running         bool
	cancel          context.CancelFunc
	conn            DBusClient // Interface for testability
	dial            func() (DBusClient, error)
	lastDropWarning time.Time         // Rate limiting for "channel full" warnings
	wg              sync.WaitGroup    // Tracks active producer goroutines
	playerNames     map[string]string // Maps unique bus names (:1.45) to well-known names (org.mpris.MediaPlayer2.spotify)
	players         map[string]*playerState
	active          string // Bus name of the player that last changed
}

// NewMprisMonitor creates a new MPRIS monitor instance
func NewMprisMonitor(logger *zap.Logger) *MprisMonitor {
	return &MprisMonitor{
		logger:      logger,
		events:      make(chan domain.PlayerEvent, 10),
		playerNames: make(map[string]string),
		players:     make(map[string]*playerState),
		dial: func() (DBusClient, error) {
			return NewStdDBusClient()
		},
	}
}

// Start connects to the session bus and watches players in the background.
// It returns immediately (non-blocking) once the match rules are installed.
func (m *MprisMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	conn, err := m.dial()
	if err != nil {
		m.logger.Error("Failed to connect to session bus", zap.Error(err))
		return fmt.Errorf("session bus connection failed: %w", err)
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(mprisPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		m.logger.Error("Failed to add match signal", zap.Error(err))
		_ = conn.Close()
		return fmt.Errorf("failed to add match signal: %w", err)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	); err != nil {
		// Non-fatal, continue without dynamic tracking
		m.logger.Warn("Failed to add NameOwnerChanged match signal", zap.Error(err))
	} else {
		m.logger.Info("Dynamic player tracking enabled via NameOwnerChanged")
	}

	// Subscribe before detection; signals from the gap queue up until the loop runs
	signals := make(chan *dbus.Signal, 10)
	conn.Signal(signals)

	if err := m.detectExistingPlayers(); err != nil {
		m.logger.Warn("Failed to detect existing players", zap.Error(err))
	}

	// The start context only bounds startup; the loop lives until Stop
	monitorCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.mu.Lock()
	m.running = true
	m.cancel = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go m.monitorSignals(monitorCtx, signals)

	m.logger.Info("MPRIS monitor started")
	return nil
}

// Stop gracefully stops the monitor
func (m *MprisMonitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.mu.Unlock()

	// Producers must be gone before the channel is closed
	m.logger.Debug("Waiting for monitoring goroutines to finish")
	m.wg.Wait()
	close(m.events)

	m.mu.Lock()
	if m.conn != nil {
		if err := m.conn.Close(); err != nil {
			m.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
		}
	}
	m.mu.Unlock()

	m.logger.Info("MPRIS monitor shutdown complete")
	return nil
}

// Events returns a read-only channel of player events
func (m *MprisMonitor) Events() <-chan domain.PlayerEvent {
	return m.events
}

// CurrentTrack returns the last-seen track of the active player,
// or nil when no player has a track loaded.
func (m *MprisMonitor) CurrentTrack(ctx context.Context) (*domain.PlayerTrack, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.players[m.active]
	if !ok || st.track == nil {
		return nil, nil
	}
	track := *st.track
	track.Artists = append([]string(nil), st.track.Artists...)
	track.Images = append([]domain.ImageVariant(nil), st.track.Images...)
	return &track, nil
}

// Control invokes an MPRIS transport method on the active player
func (m *MprisMonitor) Control(ctx context.Context, action string) error {
	method, ok := controlMethods[action]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCommand, action)
	}

	m.mu.RLock()
	conn, player := m.conn, m.active
	m.mu.RUnlock()

	if conn == nil || player == "" {
		return domain.ErrNoPlayer
	}

	if err := conn.Call(ctx, player, mprisPath, playerInterface+"."+method); err != nil {
		return fmt.Errorf("%s on %s: %w", method, player, err)
	}

	m.logger.Debug("Player control invoked",
		zap.String("player", player),
		zap.String("method", method))
	return nil
}

// detectExistingPlayers queries D-Bus for currently running MPRIS players.
// Their state is recorded without emitting events.
func (m *MprisMonitor) detectExistingPlayers() error {
	names, err := m.conn.ListNames()
	if err != nil {
		return fmt.Errorf("failed to list bus names: %w", err)
	}

	playerCount := 0
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		playerCount++
		m.logger.Info("Detected MPRIS player", zap.String("name", name))

		if uniqueName, err := m.conn.GetNameOwner(name); err == nil {
			m.mu.Lock()
			m.playerNames[uniqueName] = name
			m.mu.Unlock()
			m.logger.Debug("Mapped player name",
				zap.String("unique", uniqueName),
				zap.String("wellKnown", name))
		}

		if err := m.fetchPlayerState(name); err != nil {
			m.logger.Warn("Failed to fetch initial player state",
				zap.String("player", name),
				zap.Error(err))
		}
	}

	m.logger.Info("Player detection complete", zap.Int("count", playerCount))
	return nil
}

// fetchPlayerState reads Metadata and PlaybackStatus from a player and records them
func (m *MprisMonitor) fetchPlayerState(playerName string) error {
	variant, err := m.conn.GetProperty(playerName, mprisPath, propMetadata)
	if err != nil {
		return fmt.Errorf("failed to get metadata: %w", err)
	}

	// Some players return nil or unexpected types when idle
	metadata, ok := variant.Value().(map[string]dbus.Variant)
	if !ok {
		m.logger.Debug("Metadata variant is not a map, skipping", zap.String("player", playerName))
		return nil
	}

	statusVariant, err := m.conn.GetProperty(playerName, mprisPath, propStatus)
	if err != nil {
		return fmt.Errorf("failed to get playback status: %w", err)
	}

	status, ok := statusVariant.Value().(string)
	if !ok {
		return fmt.Errorf("invalid playback status format")
	}

	track, key := m.parseMetadata(metadata)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[playerName] = &playerState{trackKey: key, artURL: coverURL(track), track: track, status: parseStatus(status)}
	// Prefer a playing player; otherwise the first one seen
	if m.active == "" || parseStatus(status) == domain.StatusPlaying {
		m.active = playerName
	}
	return nil
}

// monitorSignals listens for D-Bus signals and processes them
func (m *MprisMonitor) monitorSignals(ctx context.Context, signals <-chan *dbus.Signal) {
	defer m.wg.Done()

	m.logger.Info("Signal monitoring goroutine started")

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Signal monitoring goroutine stopped")
			return
		case sig, ok := <-signals:
			if !ok {
				m.logger.Warn("D-Bus signal channel closed")
				return
			}
			if sig == nil {
				continue
			}
			if sig.Name == signalNameOwner {
				m.handleNameOwnerChanged(sig)
			} else {
				m.handleSignal(sig)
			}
		}
	}
}

// handleNameOwnerChanged processes NameOwnerChanged signals to track player lifecycle
func (m *MprisMonitor) handleNameOwnerChanged(sig *dbus.Signal) {
	if len(sig.Body) < 3 {
		return
	}

	name, ok := sig.Body[0].(string)
	if !ok || !strings.HasPrefix(name, mprisPrefix) {
		return
	}

	oldOwner, _ := sig.Body[1].(string)
	newOwner, _ := sig.Body[2].(string)

	switch {
	case newOwner != "" && oldOwner == "":
		m.mu.Lock()
		m.playerNames[newOwner] = name
		m.mu.Unlock()

		m.logger.Info("New MPRIS player detected",
			zap.String("player", name),
			zap.String("unique", newOwner))

		if err := m.fetchPlayerState(name); err != nil {
			m.logger.Warn("Failed to fetch state from new player",
				zap.String("player", name),
				zap.Error(err))
		}
	case newOwner == "" && oldOwner != "":
		m.mu.Lock()
		delete(m.playerNames, oldOwner)
		delete(m.players, name)
		if m.active == name {
			m.active = ""
			for other := range m.players {
				m.active = other
				break
			}
		}
		m.mu.Unlock()

		m.logger.Info("MPRIS player removed",
			zap.String("player", name),
			zap.String("unique", oldOwner))
	case newOwner != "" && oldOwner != "":
		m.mu.Lock()
		delete(m.playerNames, oldOwner)
		m.playerNames[newOwner] = name
		m.mu.Unlock()

		m.logger.Debug("MPRIS player ownership changed",
			zap.String("player", name),
			zap.String("oldUnique", oldOwner),
			zap.String("newUnique", newOwner))
	}
}

// handleSignal turns a PropertiesChanged signal into player events.
// TrackChanged fires when the track identity changes, PlayPause when the
// playback status changes.
func (m *MprisMonitor) handleSignal(sig *dbus.Signal) {
	// Body: interface name, changed properties, invalidated properties
	if sig.Name != signalProperties || len(sig.Body) < 2 {
		return
	}

	interfaceName, ok := sig.Body[0].(string)
	if !ok || interfaceName != playerInterface {
		return
	}

	changedProps, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	metadataVariant, hasMetadata := changedProps["Metadata"]
	statusVariant, hasStatus := changedProps["PlaybackStatus"]
	if !hasMetadata && !hasStatus {
		return
	}

	var (
		track *domain.PlayerTrack
		key   string
	)
	if hasMetadata {
		metadata, ok := metadataVariant.Value().(map[string]dbus.Variant)
		if !ok {
			m.logger.Warn("Invalid metadata format in signal, ignoring")
			return
		}
		track, key = m.parseMetadata(metadata)
	}

	var status domain.PlayerStatus
	if hasStatus {
		s, ok := statusVariant.Value().(string)
		if !ok {
			m.logger.Warn("Invalid playback status format in signal, ignoring")
			return
		}
		status = parseStatus(s)
	}

	playerName := m.getPlayerName(sig.Sender)

	m.mu.Lock()
	st, ok := m.players[playerName]
	if !ok {
		st = &playerState{status: domain.StatusStopped}
		m.players[playerName] = st
	}
	// Some players send the artwork in a second update for the same track
	artURL := coverURL(track)
	trackChanged := hasMetadata && (key != st.trackKey || artURL != st.artURL)
	statusChanged := hasStatus && status != st.status
	if hasMetadata {
		st.trackKey = key
		st.artURL = artURL
		st.track = track
	}
	if hasStatus {
		st.status = status
	}
	if trackChanged || statusChanged {
		m.active = playerName
	}
	m.mu.Unlock()

	m.logger.Debug("Received PropertiesChanged signal",
		zap.String("sender", sig.Sender),
		zap.String("player", playerName),
		zap.Int("properties", len(changedProps)))

	if trackChanged && track != nil {
		m.emit(domain.PlayerEvent{Kind: domain.EventTrackChanged, Player: playerName},
			zap.String("title", track.Title),
			zap.Strings("artists", track.Artists))
	}
	if statusChanged {
		m.emit(domain.PlayerEvent{Kind: domain.EventPlayPause, Playing: status == domain.StatusPlaying, Player: playerName},
			zap.String("status", string(status)))
	}
}

// emit sends without blocking; a slow consumer loses events rather than
// stalling the D-Bus reader.
func (m *MprisMonitor) emit(ev domain.PlayerEvent, fields ...zap.Field) {
	select {
	case m.events <- ev:
		m.logger.Info("Player event detected",
			append(fields, zap.String("kind", string(ev.Kind)), zap.String("player", ev.Player))...)
	default:
		m.logChannelFullWarning()
	}
}

// parseMetadata converts MPRIS metadata to a PlayerTrack and its identity key.
// The track is nil when the metadata describes no track.
func (m *MprisMonitor) parseMetadata(metadata map[string]dbus.Variant) (*domain.PlayerTrack, string) {
	if len(metadata) == 0 {
		return nil, ""
	}

	var track domain.PlayerTrack

	if titleVar, ok := metadata["xesam:title"]; ok {
		if title, ok := titleVar.Value().(string); ok {
			track.Title = title
		}
	}

	// xesam:artist is a list, some players send a plain string
	if artistVar, ok := metadata["xesam:artist"]; ok {
		switch artists := artistVar.Value().(type) {
		case []string:
			for _, a := range artists {
				if a != "" {
					track.Artists = append(track.Artists, a)
				}
			}
		case string:
			if artists != "" {
				track.Artists = []string{artists}
			}
		default:
			m.logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", artistVar.Value())))
		}
	}

	if albumVar, ok := metadata["xesam:album"]; ok {
		if album, ok := albumVar.Value().(string); ok {
			track.Album = album
		}
	}

	// MPRIS does not report artwork dimensions
	if artVar, ok := metadata["mpris:artUrl"]; ok {
		if artURL, ok := artVar.Value().(string); ok && artURL != "" {
			track.Images = []domain.ImageVariant{{URL: artURL}}
		} else {
			m.logger.Debug("Empty artUrl received", zap.String("title", track.Title))
		}
	}

	var trackID string
	if idVar, ok := metadata["mpris:trackid"]; ok {
		switch id := idVar.Value().(type) {
		case dbus.ObjectPath:
			trackID = string(id)
		case string:
			trackID = id
		}
	}

	// Players with nothing loaded often report only the NoTrack id
	if trackID == "/org/mpris/MediaPlayer2/TrackList/NoTrack" {
		trackID = ""
	}
	if trackID == "" && track.Title == "" {
		return nil, ""
	}

	key := trackID
	if key == "" {
		key = track.Title + "\x00" + strings.Join(track.Artists, "\x00") + "\x00" + track.Album
	}
	return &track, key
}

func parseStatus(status string) domain.PlayerStatus {
	switch status {
	case "Playing":
		return domain.StatusPlaying
	case "Paused":
		return domain.StatusPaused
	default:
		return domain.StatusStopped
	}
}

// getPlayerName returns the well-known player name for a unique bus name
// Falls back to the unique name if no mapping exists
func (m *MprisMonitor) getPlayerName(uniqueName string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if wellKnown, ok := m.playerNames[uniqueName]; ok {
		return wellKnown
	}
	return uniqueName
}

// logChannelFullWarning logs a warning about channel being full, but rate-limited
// to avoid log spam during rapid track changes (e.g., fast skipping)
func (m *MprisMonitor) logChannelFullWarning() {
	m.mu.Lock()
	defer m.mu.Unlock()

	const warningInterval = 5 * time.Second
	now := time.Now()

	if now.Sub(m.lastDropWarning) >= warningInterval {
		m.logger.Warn("Events channel full, dropping player event")
		m.lastDropWarning = now
	}
}
