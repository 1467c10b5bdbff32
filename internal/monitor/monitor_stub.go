//go:build !linux

package monitor

import (
	"context"
	"fmt"

	"github.com/genricoloni/nowrelay/internal/domain"
	"go.uber.org/zap"
)

var errUnsupported = fmt.Errorf("MPRIS monitoring is only supported on Linux systems")

// MprisMonitor stub for non-Linux platforms
type MprisMonitor struct {
	logger *zap.Logger
	events chan domain.PlayerEvent
}

// NewMprisMonitor creates a stub monitor that returns an error on non-Linux platforms
func NewMprisMonitor(logger *zap.Logger) *MprisMonitor {
	events := make(chan domain.PlayerEvent)
	close(events)
	return &MprisMonitor{logger: logger, events: events}
}

// Start returns an error indicating MPRIS monitoring is not supported on this platform
func (m *MprisMonitor) Start(ctx context.Context) error {
	return errUnsupported
}

// Events returns a closed channel since monitoring is not available
func (m *MprisMonitor) Events() <-chan domain.PlayerEvent {
	return m.events
}

// Stop is a no-op on non-Linux platforms
func (m *MprisMonitor) Stop(ctx context.Context) error {
	return nil
}

// CurrentTrack never has a track to report
func (m *MprisMonitor) CurrentTrack(ctx context.Context) (*domain.PlayerTrack, error) {
	return nil, errUnsupported
}

// Control cannot reach any player
func (m *MprisMonitor) Control(ctx context.Context, action string) error {
	return fmt.Errorf("%w: %w", domain.ErrNoPlayer, errUnsupported)
}
