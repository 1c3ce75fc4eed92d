package shell

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/internal/otel"
	"github.com/imtaco/meet-embed/meeting"
	"github.com/imtaco/meet-embed/meeting/bridge"
	"github.com/imtaco/meet-embed/meeting/normalize"
	"github.com/imtaco/meet-embed/meeting/persist"
)

type State int

const (
	StateUnmounted State = iota
	StateMounted
	StateTearingDown
)

func (s State) String() string {
	switch s {
	case StateUnmounted:
		return "unmounted"
	case StateMounted:
		return "mounted"
	case StateTearingDown:
		return "tearing-down"
	}
	return "unknown"
}

type Option func(*Shell)

func WithClock(c clockwork.Clock) Option {
	return func(s *Shell) { s.clock = c }
}

// WithPersister enables writing custom params to the durable store on mount.
func WithPersister(p *persist.Persister) Option {
	return func(s *Shell) { s.persister = p }
}

// Shell owns one engine instance from mount to teardown. A Shell mounts at
// most once; a remount needs a new Shell.
type Shell struct {
	mu        sync.Mutex
	id        string
	state     State
	closed    bool
	props     *meeting.AppProps
	pending   *persist.Pending
	mountedAt time.Time

	ref       *bridge.Controller
	factory   meeting.EngineFactory
	persister *persist.Persister
	clock     clockwork.Clock
	tracer    trace.Tracer
	logger    *log.Logger
}

func New(factory meeting.EngineFactory, logger *log.Logger, opts ...Option) *Shell {
	id := uuid.NewString()
	logger = logger.Module("Shell").With(log.String("shell", id))
	s := &Shell{
		id:      id,
		ref:     bridge.New(logger.Module("Bridge")),
		factory: factory,
		clock:   clockwork.NewRealClock(),
		tracer:  otel.Tracer(otel.MeterName),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Shell) ID() string {
	return s.id
}

// Ref returns the host's imperative handle. It is valid before mount and
// keeps answering ErrEngineNotReady once the engine is gone.
func (s *Shell) Ref() *bridge.Controller {
	return s.ref
}

func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Props returns the canonical props of the current mount, nil when not mounted.
func (s *Shell) Props() *meeting.AppProps {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.props
}

// MountedAt is zero until the first successful mount.
func (s *Shell) MountedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mountedAt
}

// Pending returns the persistence started by Mount, nil if none was started.
func (s *Shell) Pending() *persist.Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Mount normalizes host props, builds the engine, attaches it to Ref and
// starts persistence without waiting for it. A failed Mount leaves the shell
// unmounted so the host may retry with corrected props.
func (s *Shell) Mount(ctx context.Context, props *meeting.HostProps) (err error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "shell.Mount", attribute.String("shell", s.id))
	defer func() {
		otel.RecordError(span, err)
		span.End()
		mountsTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("ok", err == nil)))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return meeting.ErrShellClosed
	}
	if s.state != StateUnmounted {
		return meeting.ErrAlreadyMounted
	}

	app, err := normalize.Normalize(props)
	if err != nil {
		s.logger.Warn("reject host props", log.Error(err))
		return err
	}

	// persistence reads the raw host input, not the canonical props
	var params meeting.CustomParams
	if s.persister != nil {
		if params, err = normalize.ExtractCustomParams(props); err != nil {
			return err
		}
	}

	handle, err := s.factory(ctx, app)
	if err != nil {
		s.logger.Error("failed to create engine", log.Error(err))
		return err
	}
	if s.persister != nil {
		s.pending = s.persister.Persist(ctx, params)
	}

	s.props = app
	s.ref.Attach(handle)
	s.state = StateMounted
	s.mountedAt = s.clock.Now()
	mountedGauge.Add(ctx, 1)

	s.logger.Info("mounted",
		log.String("platform", string(props.Platform)),
		log.Bool("fullURL", app.URL.IsFullURL()),
		log.Strings("handlers", eventNames(app.Handlers)))
	return nil
}

// Unmount tears the shell down for good. It never fails: a missing engine
// skips the navigate-away dispatch, and dispatch or close errors are logged.
// Calling it again, or before any mount, is a no-op apart from closing the shell.
func (s *Shell) Unmount(ctx context.Context) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "shell.Unmount", attribute.String("shell", s.id))
	defer span.End()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	wasMounted := s.state == StateMounted
	mountedAt := s.mountedAt
	s.state = StateTearingDown
	handle := s.ref.Detach()
	s.mu.Unlock()

	// handlers fired by navigate-away may call back into the shell
	dispatched := false
	if handle == nil {
		s.logger.Debug("no engine on teardown, skip navigate-away")
	} else {
		if err := handle.Dispatch(meeting.AppNavigate(nil)); err != nil {
			s.logger.Warn("navigate-away on teardown failed", log.Error(err))
		} else {
			dispatched = true
		}
		if c, ok := handle.(io.Closer); ok {
			if err := c.Close(); err != nil {
				s.logger.Warn("failed to close engine", log.Error(err))
			}
		}
	}

	if wasMounted {
		d := s.clock.Since(mountedAt)
		mountedDurationS.Record(ctx, d.Seconds())
		mountedGauge.Add(ctx, -1)
		s.logger.Info("unmounted", log.Duration("mounted", d), log.Bool("dispatched", dispatched))
	}
	teardownsTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("dispatched", dispatched)))

	s.mu.Lock()
	s.props = nil
	s.state = StateUnmounted
	s.mu.Unlock()
}

func eventNames(h meeting.Handlers) []string {
	names := h.Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
