package bridge

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/meeting"
	"github.com/imtaco/meet-embed/meeting/engine"
)

// Controller is the host's imperative handle. It is handed out before the
// engine exists and stays the same object for the shell's lifetime; every
// call reads whatever engine is attached at that moment.
type Controller struct {
	mu     sync.RWMutex
	handle meeting.EngineHandle
	logger *log.Logger
}

func New(logger *log.Logger) *Controller {
	return &Controller{logger: logger}
}

// Attach binds the engine created at mount.
func (c *Controller) Attach(h meeting.EngineHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handle = h
}

// Detach unbinds the engine and returns what was attached, possibly nil.
func (c *Controller) Detach() meeting.EngineHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := c.handle
	c.handle = nil
	return h
}

func (c *Controller) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.handle != nil
}

func (c *Controller) current(op string) (meeting.EngineHandle, error) {
	c.mu.RLock()
	h := c.handle
	c.mu.RUnlock()

	attrs := metric.WithAttributes(attribute.String("op", op))
	if h == nil {
		notReadyTotal.Add(context.Background(), 1, attrs)
		return nil, meeting.ErrEngineNotReady
	}
	operationsTotal.Add(context.Background(), 1, attrs)
	return h, nil
}

func (c *Controller) dispatch(op string, action meeting.Action) error {
	h, err := c.current(op)
	if err != nil {
		return err
	}
	c.logger.Debug("dispatch", log.String("op", op), log.String("action", string(action.Type)))
	return h.Dispatch(action)
}

// Close navigates away from the active conference.
func (c *Controller) Close() error {
	return c.dispatch("close", meeting.AppNavigate(nil))
}

func (c *Controller) SetAudioOnly(value bool) error {
	return c.dispatch("setAudioOnly", meeting.SetAudioOnly(value))
}

func (c *Controller) SetAudioMuted(muted bool) error {
	return c.dispatch("setAudioMuted", meeting.SetAudioMuted(muted))
}

func (c *Controller) SetVideoMuted(muted bool) error {
	return c.dispatch("setVideoMuted", meeting.SetVideoMuted(muted))
}

// GetRoomsInfo reads engine state without dispatching anything.
func (c *Controller) GetRoomsInfo() (meeting.RoomsInfo, error) {
	h, err := c.current("getRoomsInfo")
	if err != nil {
		return meeting.RoomsInfo{}, err
	}
	return engine.GetRoomsInfo(h.GetState()), nil
}

// State returns the attached engine's state for read-only consumers.
func (c *Controller) State() (*meeting.EngineState, error) {
	h, err := c.current("getState")
	if err != nil {
		return nil, err
	}
	return h.GetState(), nil
}
