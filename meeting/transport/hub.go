package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/meeting"
)

const (
	writeTimeout = 3 * time.Second
	bufEvents    = 16
)

// Event is one engine callback as sent on the event stream.
type Event struct {
	Name    meeting.EventName    `json:"event"`
	Payload meeting.EventPayload `json:"payload,omitempty"`
	Shell   string               `json:"shell,omitempty"`
	Time    int64                `json:"ts"`
}

type subscriber struct {
	id string
	ch chan Event
}

// Hub fans engine events out to websocket subscribers. A subscriber more than
// bufEvents behind loses events; the engine is never blocked.
type Hub struct {
	mu             sync.RWMutex
	subs           map[string]*subscriber
	allowedOrigins []string
	now            func() time.Time
	logger         *log.Logger
}

func NewHub(allowedOrigins []string, logger *log.Logger) *Hub {
	return &Hub{
		subs:           make(map[string]*subscriber),
		allowedOrigins: allowedOrigins,
		now:            time.Now,
		logger:         logger,
	}
}

// Listeners returns host callbacks that publish every event tagged with shellID.
func (h *Hub) Listeners(shellID string) meeting.EventListeners {
	return meeting.ListenAll(func(name meeting.EventName, payload meeting.EventPayload) {
		h.Publish(Event{Name: name, Payload: payload, Shell: shellID})
	})
}

// Publish never blocks; it is called from inside engine dispatch.
func (h *Hub) Publish(ev Event) {
	if ev.Time == 0 {
		ev.Time = h.now().UnixMilli()
	}
	eventsTotal.Add(context.Background(), 1, metric.WithAttributes(attribute.String("event", string(ev.Name))))

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		select {
		case sub.ch <- ev:
		default:
			eventsDropped.Add(context.Background(), 1)
			h.logger.Warn("subscriber too slow, drop event",
				log.String("subscriber", sub.id),
				log.String("event", string(ev.Name)))
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) add() *subscriber {
	sub := &subscriber{id: uuid.NewString(), ch: make(chan Event, bufEvents)}
	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	subscribersGauge.Add(context.Background(), 1)
	return sub
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub.id)
	h.mu.Unlock()
	subscribersGauge.Add(context.Background(), -1)
}

// ServeHTTP upgrades to a websocket and streams events until either side
// closes. Incoming messages are discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.allowedOrigins,
	})
	if err != nil {
		h.logger.Error("WebSocket open failed",
			log.String("remote_addr", r.RemoteAddr),
			log.Error(err))
		return
	}

	sub := h.add()
	defer h.remove(sub)

	h.logger.Info("subscriber connected",
		log.String("subscriber", sub.id),
		log.String("remote_addr", r.RemoteAddr))

	ctx := conn.CloseRead(r.Context())
	status, reason := h.pump(ctx, conn, sub)
	_ = conn.Close(status, reason)

	h.logger.Info("subscriber disconnected",
		log.String("subscriber", sub.id),
		log.Any("status", status))
}

func (h *Hub) pump(ctx context.Context, conn *websocket.Conn, sub *subscriber) (websocket.StatusCode, string) {
	for {
		select {
		case <-ctx.Done():
			return websocket.StatusNormalClosure, ""
		case ev := <-sub.ch:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, ev)
			cancel()
			if err != nil {
				h.logger.Debug("write event failed", log.String("subscriber", sub.id), log.Error(err))
				return websocket.StatusGoingAway, "write failed"
			}
		}
	}
}
