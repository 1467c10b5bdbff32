//go:build linux

package monitor

import (
	"context"
	"fmt"
	"testing"

	"github.com/genricoloni/nowrelay/internal/domain"
	"github.com/genricoloni/nowrelay/internal/monitor/mocks"
	"github.com/godbus/dbus/v5"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// TestFetchPlayerState unifies all scenarios regarding state fetching:
// 1. Success (Happy Path)
// 2. DBus Errors (Connection fail)
// 3. Invalid Data types (Robustness)
func TestFetchPlayerState(t *testing.T) {
	playerName := "org.mpris.MediaPlayer2.spotify"

	tests := []struct {
		name          string
		setupMock     func(*mocks.MockDBusClient)
		expectError   bool
		expectedTrack *domain.PlayerTrack
	}{
		{
			name: "Success - Valid Metadata",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(playerName, mprisPath, propMetadata).
					Return(dbus.MakeVariant(map[string]dbus.Variant{
						"xesam:title":  dbus.MakeVariant("Stairway to Heaven"),
						"xesam:artist": dbus.MakeVariant([]string{"Led Zeppelin"}),
					}), nil)
				m.EXPECT().GetProperty(playerName, mprisPath, propStatus).
					Return(dbus.MakeVariant("Playing"), nil)
			},
			expectedTrack: &domain.PlayerTrack{
				Title:   "Stairway to Heaven",
				Artists: []string{"Led Zeppelin"},
			},
		},
		{
			name: "DBus Error - Connection Fail",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(playerName, mprisPath, propMetadata).
					Return(dbus.MakeVariant(""), fmt.Errorf("connection timeout"))
			},
			expectError: true,
		},
		{
			name: "Invalid Data - Metadata is Int not Map",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(playerName, mprisPath, propMetadata).
					Return(dbus.MakeVariant(12345), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			mockClient := mocks.NewMockDBusClient(ctrl)
			tt.setupMock(mockClient)

			mon := NewMprisMonitor(zap.NewNop())
			mon.conn = mockClient

			err := mon.fetchPlayerState(playerName)
			if tt.expectError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			track, _ := mon.CurrentTrack(context.Background())
			if tt.expectedTrack == nil {
				if track != nil {
					t.Errorf("Unexpected track recorded: %+v", track)
				}
				return
			}
			if track == nil {
				t.Fatal("Expected track was not recorded")
			}
			if track.Title != tt.expectedTrack.Title || track.Artists[0] != tt.expectedTrack.Artists[0] {
				t.Errorf("Track mismatch: want %+v, got %+v", tt.expectedTrack, track)
			}

			// Initial detection never emits
			select {
			case ev := <-mon.Events():
				t.Errorf("Unexpected event emitted: %+v", ev)
			default:
			}
		})
	}
}

// TestDetectExistingPlayers verifies the initial scan of DBus names.
func TestDetectExistingPlayers(t *testing.T) {
	tests := []struct {
		name             string
		setupMock        func(*mocks.MockDBusClient)
		expectError      bool
		expectedActive   string
		expectedMappings map[string]string
	}{
		{
			name: "Success - Detects Spotify and VLC, playing one wins",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().ListNames().Return([]string{
					"org.freedesktop.DBus",
					"org.mpris.MediaPlayer2.vlc",
					"org.mpris.MediaPlayer2.spotify",
					"com.example.OtherApp",
				}, nil)

				m.EXPECT().GetNameOwner("org.mpris.MediaPlayer2.spotify").Return(":1.100", nil)
				m.EXPECT().GetNameOwner("org.mpris.MediaPlayer2.vlc").Return(":1.200", nil)

				m.EXPECT().GetProperty("org.mpris.MediaPlayer2.vlc", mprisPath, propMetadata).
					Return(dbus.MakeVariant(map[string]dbus.Variant{"xesam:title": dbus.MakeVariant("Video B")}), nil)
				m.EXPECT().GetProperty("org.mpris.MediaPlayer2.vlc", mprisPath, propStatus).
					Return(dbus.MakeVariant("Paused"), nil)

				m.EXPECT().GetProperty("org.mpris.MediaPlayer2.spotify", mprisPath, propMetadata).
					Return(dbus.MakeVariant(map[string]dbus.Variant{"xesam:title": dbus.MakeVariant("Song A")}), nil)
				m.EXPECT().GetProperty("org.mpris.MediaPlayer2.spotify", mprisPath, propStatus).
					Return(dbus.MakeVariant("Playing"), nil)
			},
			expectedActive: "org.mpris.MediaPlayer2.spotify",
			expectedMappings: map[string]string{
				":1.100": "org.mpris.MediaPlayer2.spotify",
				":1.200": "org.mpris.MediaPlayer2.vlc",
			},
		},
		{
			name: "Failure - ListNames fails",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().ListNames().Return(nil, fmt.Errorf("bus error"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			mockClient := mocks.NewMockDBusClient(ctrl)
			tt.setupMock(mockClient)

			mon := NewMprisMonitor(zap.NewNop())
			mon.conn = mockClient

			err := mon.detectExistingPlayers()
			if tt.expectError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			if len(mon.playerNames) != len(tt.expectedMappings) {
				t.Errorf("Mapping count mismatch: want %d, got %d", len(tt.expectedMappings), len(mon.playerNames))
			}
			for k, v := range tt.expectedMappings {
				if mon.playerNames[k] != v {
					t.Errorf("Mapping mismatch for %s: want %s, got %s", k, v, mon.playerNames[k])
				}
			}
			if mon.active != tt.expectedActive {
				t.Errorf("active = %q, want %q", mon.active, tt.expectedActive)
			}
			if len(mon.Events()) != 0 {
				t.Errorf("detection should not emit events, got %d", len(mon.Events()))
			}
		})
	}
}

func TestControl_CallsActivePlayer(t *testing.T) {
	tests := []struct {
		action string
		method string
	}{
		{"play", "org.mpris.MediaPlayer2.Player.Play"},
		{"pause", "org.mpris.MediaPlayer2.Player.Pause"},
		{"playpause", "org.mpris.MediaPlayer2.Player.PlayPause"},
		{"next", "org.mpris.MediaPlayer2.Player.Next"},
		{"prev", "org.mpris.MediaPlayer2.Player.Previous"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockClient := mocks.NewMockDBusClient(ctrl)
			mockClient.EXPECT().
				Call(gomock.Any(), "org.mpris.MediaPlayer2.spotify", mprisPath, tt.method).
				Return(nil).Times(1)

			mon := NewMprisMonitor(zap.NewNop())
			mon.conn = mockClient
			mon.active = "org.mpris.MediaPlayer2.spotify"

			if err := mon.Control(context.Background(), tt.action); err != nil {
				t.Errorf("Control(%s) failed: %v", tt.action, err)
			}
		})
	}
}

func TestControl_PlayerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := mocks.NewMockDBusClient(ctrl)
	mockClient.EXPECT().Call(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("org.freedesktop.DBus.Error.ServiceUnknown"))

	mon := NewMprisMonitor(zap.NewNop())
	mon.conn = mockClient
	mon.active = "org.mpris.MediaPlayer2.spotify"

	if err := mon.Control(context.Background(), "next"); err == nil {
		t.Fatal("expected error from failed D-Bus call")
	}
}

func TestStartStop_WithMockBus(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := mocks.NewMockDBusClient(ctrl)

	var signals chan<- *dbus.Signal
	mockClient.EXPECT().ListNames().Return([]string{}, nil)
	mockClient.EXPECT().AddMatchSignal(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	mockClient.EXPECT().AddMatchSignal(gomock.Any(), gomock.Any()).Return(nil)
	mockClient.EXPECT().Signal(gomock.Any()).Do(func(ch chan<- *dbus.Signal) { signals = ch })
	mockClient.EXPECT().Close().Return(nil)

	mon := NewMprisMonitor(zap.NewNop())
	mon.dial = func() (DBusClient, error) { return mockClient, nil }

	// A start context that ends right away must not stop the monitor
	startCtx, cancel := context.WithCancel(context.Background())
	if err := mon.Start(startCtx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancel()

	signals <- propertiesChanged(":1.7", map[string]dbus.Variant{
		"PlaybackStatus": dbus.MakeVariant("Playing"),
	})
	if ev := nextEvent(t, mon); ev.Kind != domain.EventPlayPause || !ev.Playing {
		t.Errorf("got %+v, want play_pause playing", ev)
	}

	if err := mon.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if _, ok := <-mon.Events(); ok {
		t.Error("events channel should be closed after Stop")
	}
}

func TestStart_SubscribesBeforeDetection(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := mocks.NewMockDBusClient(ctrl)

	var signals chan<- *dbus.Signal
	gomock.InOrder(
		mockClient.EXPECT().AddMatchSignal(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		mockClient.EXPECT().AddMatchSignal(gomock.Any(), gomock.Any()).Return(nil),
		mockClient.EXPECT().Signal(gomock.Any()).Do(func(ch chan<- *dbus.Signal) { signals = ch }),
		// A player changes while detection is still listing names
		mockClient.EXPECT().ListNames().DoAndReturn(func() ([]string, error) {
			signals <- propertiesChanged(":1.9", map[string]dbus.Variant{
				"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
					"xesam:title": dbus.MakeVariant("Started During Detection"),
				}),
			})
			return []string{}, nil
		}),
	)
	mockClient.EXPECT().Close().Return(nil)

	mon := NewMprisMonitor(zap.NewNop())
	mon.dial = func() (DBusClient, error) { return mockClient, nil }

	if err := mon.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if ev := nextEvent(t, mon); ev.Kind != domain.EventTrackChanged {
		t.Errorf("got %+v, want track_changed", ev)
	}
	if err := mon.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestStart_DialFailure(t *testing.T) {
	mon := NewMprisMonitor(zap.NewNop())
	mon.dial = func() (DBusClient, error) { return nil, fmt.Errorf("no session bus") }

	if err := mon.Start(context.Background()); err == nil {
		t.Fatal("expected Start to fail without a session bus")
	}
	if err := mon.Stop(context.Background()); err != nil {
		t.Errorf("Stop after failed Start should be a no-op: %v", err)
	}
}
