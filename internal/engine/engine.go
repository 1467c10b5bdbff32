package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/genricoloni/nowrelay/internal/config"
	"github.com/genricoloni/nowrelay/internal/domain"
	"github.com/genricoloni/nowrelay/internal/metadata"
	"github.com/sourcegraph/conc"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Engine orchestrates the bridge pipeline.
// It listens to player events and spawns one forwarding task per event.
// Tasks are independent: the loop never waits on them and nothing orders them.
type Engine struct {
	logger       *zap.Logger
	sources      []domain.EventSource
	builder      domain.MetadataBuilder
	normalizer   domain.Normalizer
	client       domain.GatewayClient
	initialDelay time.Duration

	mu          sync.Mutex
	started     bool
	stopLoops   context.CancelFunc
	cancelTasks context.CancelFunc
	loops       conc.WaitGroup
	tasks       conc.WaitGroup
}

// NewEngine creates a new orchestration engine
func NewEngine(
	logger *zap.Logger,
	cfg *config.Config,
	sources []domain.EventSource,
	builder domain.MetadataBuilder,
	normalizer domain.Normalizer,
	client domain.GatewayClient,
) *Engine {
	return &Engine{
		logger:       logger,
		sources:      sources,
		builder:      builder,
		normalizer:   normalizer,
		client:       client,
		initialDelay: cfg.Bridge.InitialPushDelay,
	}
}

// Start launches one event loop per source.
// It returns immediately (non-blocking).
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return nil
	}
	e.started = true

	e.logger.Info("Engine starting...", zap.Int("sources", len(e.sources)))

	// Neither context may end with the start hook
	loopCtx, stopLoops := context.WithCancel(context.WithoutCancel(ctx))
	taskCtx, cancelTasks := context.WithCancel(context.WithoutCancel(ctx))
	e.stopLoops = stopLoops
	e.cancelTasks = cancelTasks

	for _, src := range e.sources {
		events := src.Events()
		e.loops.Go(func() {
			e.runLoop(loopCtx, taskCtx, events)
		})
	}

	if e.initialDelay > 0 {
		e.loops.Go(func() {
			select {
			case <-loopCtx.Done():
			case <-time.After(e.initialDelay):
				e.logger.Debug("Initial push")
				e.dispatch(taskCtx, domain.PlayerEvent{Kind: domain.EventTrackChanged, Player: "startup"})
			}
		})
	}

	return nil
}

// runLoop dispatches events from one source until it closes or the engine stops
func (e *Engine) runLoop(loopCtx, taskCtx context.Context, events <-chan domain.PlayerEvent) {
	for {
		select {
		case <-loopCtx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				e.logger.Info("Event source closed")
				return
			}
			e.dispatch(taskCtx, ev)
		}
	}
}

// dispatch spawns the task for one event and returns at once
func (e *Engine) dispatch(ctx context.Context, ev domain.PlayerEvent) {
	e.logger.Debug("Event received",
		zap.String("kind", string(ev.Kind)),
		zap.String("player", ev.Player))

	if ev.Kind == domain.EventTrackChanged {
		e.tasks.Go(func() {
			if err := e.PushTrack(ctx); err != nil {
				e.logTaskError("Track update dropped", err)
			}
		})
		return
	}

	cmd, ok := ev.Command()
	if !ok {
		e.logger.Warn("Ignoring unknown event", zap.String("kind", string(ev.Kind)))
		return
	}
	e.tasks.Go(func() {
		if err := e.client.SendCommand(ctx, cmd); err != nil {
			e.logTaskError("Command dropped", err, zap.String("command", cmd.Token()))
			return
		}
		e.logger.Info("Command relayed", zap.String("command", cmd.Token()))
	})
}

// PushTrack runs the full track pipeline once:
// build metadata, normalize the cover, build the payload, forward it.
func (e *Engine) PushTrack(ctx context.Context) error {
	meta, err := e.builder.Build(ctx)
	if err != nil {
		return err
	}

	var thumb *domain.Thumbnail
	if meta.Cover != nil {
		thumb = e.normalizer.Normalize(ctx, *meta.Cover)
	}

	payload := metadata.BuildPayload(meta, thumb)
	if err := e.client.Forward(ctx, payload); err != nil {
		return fmt.Errorf("forward %q: %w", meta.Title, err)
	}

	e.logger.Info("Track forwarded",
		zap.String("title", meta.Title),
		zap.String("artists", payload.Artists),
		zap.Bool("cover", payload.CoverBase64 != nil))
	return nil
}

func (e *Engine) logTaskError(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	switch {
	case errors.Is(err, domain.ErrNoActiveTrack):
		e.logger.Info("Nothing playing, skipping update")
	case errors.Is(err, domain.ErrDeviceRejected):
		var devErr *domain.DeviceError
		if errors.As(err, &devErr) {
			fields = append(fields, zap.Int("status", devErr.Status))
		}
		e.logger.Warn(msg, fields...)
	default:
		e.logger.Error(msg, fields...)
	}
}

// Stop stops the loops and waits for in-flight tasks.
// Tasks are cancelled only if ctx expires first.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return nil
	}
	e.started = false

	e.logger.Info("Engine stopping...")
	e.stopLoops()
	e.loops.Wait()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if r := e.tasks.WaitAndRecover(); r != nil {
			e.logger.Error("Forwarding task panicked", zap.Error(r.AsError()))
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		e.logger.Warn("Shutdown deadline reached, cancelling in-flight tasks")
		e.cancelTasks()
		<-done
	}
	e.cancelTasks()

	e.logger.Info("Engine stopped")
	return nil
}

// Module provides the engine and ties it to the app lifecycle
var Module = fx.Module("engine",
	fx.Provide(
		fx.Annotate(NewEngine, fx.ParamTags(``, ``, `group:"sources"`)),
	),
	fx.Invoke(func(lc fx.Lifecycle, e *Engine) {
		lc.Append(fx.Hook{
			OnStart: e.Start,
			OnStop:  e.Stop,
		})
	}),
)
