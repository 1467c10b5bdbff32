// Package control receives button presses from the display device and turns
// them into player actions on the host.
package control

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/genricoloni/nowrelay/internal/config"
	"github.com/genricoloni/nowrelay/internal/domain"
	"github.com/genricoloni/nowrelay/internal/httpserver"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// actionEvents lists the presses that are echoed back as player events.
// Play and pause surface on their own through PlaybackStatus.
var actionEvents = map[string]domain.EventKind{
	"next": domain.EventNext,
	"prev": domain.EventPrevious,
}

var knownActions = map[string]bool{
	"play":      true,
	"pause":     true,
	"playpause": true,
	"next":      true,
	"prev":      true,
}

// Listener serves the device's button endpoints
type Listener struct {
	logger     *zap.Logger
	controller domain.PlayerController
	events     chan domain.PlayerEvent

	mu     sync.RWMutex
	closed bool
}

// NewListener creates a control listener driving controller
func NewListener(logger *zap.Logger, controller domain.PlayerController) *Listener {
	return &Listener{
		logger:     logger,
		controller: controller,
		events:     make(chan domain.PlayerEvent, 10),
	}
}

// Events returns button presses that became player events
func (l *Listener) Events() <-chan domain.PlayerEvent {
	return l.events
}

// Routes returns the listener's HTTP surface
func (l *Listener) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{action}", l.handleAction)
	return mux
}

func (l *Listener) handleAction(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")
	if !knownActions[action] {
		l.logger.Warn("Unknown control action", zap.String("action", action))
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := l.controller.Control(r.Context(), action); err != nil {
		l.logger.Error("Player control failed", zap.String("action", action), zap.Error(err))
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrUnknownCommand) {
			status = http.StatusNotFound
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	l.logger.Info("Player control applied", zap.String("action", action))
	if kind, ok := actionEvents[action]; ok {
		l.publish(domain.PlayerEvent{Kind: kind, Player: "device"})
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

func (l *Listener) publish(ev domain.PlayerEvent) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	select {
	case l.events <- ev:
	default:
		l.logger.Warn("Control events channel full, dropping event", zap.String("kind", string(ev.Kind)))
	}
}

// Close ends the event stream. Later presses are still served but not published.
func (l *Listener) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		close(l.events)
	}
}

// register starts the HTTP listener when an address is configured
func register(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config, l *Listener) {
	addr := cfg.Bridge.ControlListen
	if addr == "" {
		logger.Info("Control listener disabled")
		lc.Append(fx.StopHook(l.Close))
		return
	}

	srv := httpserver.New(logger, "control", addr, l.Routes())
	lc.Append(fx.Hook{
		OnStart: srv.Start,
		OnStop: func(ctx context.Context) error {
			defer l.Close()
			return srv.Stop(ctx)
		},
	})
}

// Module provides the control listener as an event source
var Module = fx.Module("control",
	fx.Provide(
		NewListener,
		fx.Annotate(
			func(l *Listener) domain.EventSource { return l },
			fx.ResultTags(`group:"sources"`),
		),
	),
	fx.Invoke(register),
)
