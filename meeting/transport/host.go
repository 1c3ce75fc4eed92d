package transport

import (
	"context"
	"sync"

	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/meeting"
	"github.com/imtaco/meet-embed/meeting/bridge"
	"github.com/imtaco/meet-embed/meeting/shell"
)

// Host is the embedding host of the daemon: it owns the current Shell and
// replaces it with a fresh one once the previous one was torn down.
type Host struct {
	mu      sync.Mutex
	current *shell.Shell
	idle    *bridge.Controller
	factory meeting.EngineFactory
	opts    []shell.Option
	hub     *Hub
	logger  *log.Logger
}

func NewHost(factory meeting.EngineFactory, hub *Hub, logger *log.Logger, opts ...shell.Option) *Host {
	return &Host{
		idle:    bridge.New(logger.Module("Idle")),
		factory: factory,
		opts:    opts,
		hub:     hub,
		logger:  logger,
	}
}

// Mount mounts props on the current shell, creating one if needed. Host
// callbacks in props are replaced by forwarding to the event hub.
func (h *Host) Mount(ctx context.Context, props *meeting.HostProps) (*shell.Shell, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil && h.current.State() != shell.StateUnmounted {
		h.logger.Debug("reject mount", log.String("shell", h.current.ID()), log.Stringer("state", h.current.State()))
		return nil, meeting.ErrAlreadyMounted
	}
	// torn-down shells are dropped in Unmount; a failed mount retries on the same one
	if h.current == nil {
		h.current = shell.New(h.factory, h.logger, h.opts...)
	}

	sh := h.current
	if props != nil && h.hub != nil {
		props.Listeners = h.hub.Listeners(sh.ID())
	}
	if err := sh.Mount(ctx, props); err != nil {
		return nil, err
	}
	return sh, nil
}

// Unmount tears the current shell down, reporting whether one was mounted.
func (h *Host) Unmount(ctx context.Context) bool {
	h.mu.Lock()
	sh := h.current
	h.current = nil
	h.mu.Unlock()

	if sh == nil {
		return false
	}
	mounted := sh.State() == shell.StateMounted
	sh.Unmount(ctx)
	return mounted
}

// Controller returns the current shell's handle, or a detached one that
// answers ErrEngineNotReady when nothing is mounted.
func (h *Host) Controller() *bridge.Controller {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return h.idle
	}
	return h.current.Ref()
}

// Shell returns the current shell, nil when none exists.
func (h *Host) Shell() *shell.Shell {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}
