package meeting

// EventName is the host callback name the engine notifies.
type EventName string

const (
	EventAudioMutedChanged       EventName = "onAudioMutedChanged"
	EventVideoMutedChanged       EventName = "onVideoMutedChanged"
	EventConferenceBlurred       EventName = "onConferenceBlurred"
	EventConferenceFocused       EventName = "onConferenceFocused"
	EventConferenceJoined        EventName = "onConferenceJoined"
	EventConferenceWillJoin      EventName = "onConferenceWillJoin"
	EventConferenceLeft          EventName = "onConferenceLeft"
	EventEnterPictureInPicture   EventName = "onEnterPictureInPicture"
	EventEndpointMessageReceived EventName = "onEndpointMessageReceived"
	EventParticipantJoined       EventName = "onParticipantJoined"
	EventParticipantLeft         EventName = "onParticipantLeft"
	EventReadyToClose            EventName = "onReadyToClose"
)

// EventNames lists every recognized event, in handler-table order.
var EventNames = []EventName{
	EventAudioMutedChanged,
	EventVideoMutedChanged,
	EventConferenceBlurred,
	EventConferenceFocused,
	EventConferenceJoined,
	EventConferenceWillJoin,
	EventConferenceLeft,
	EventEnterPictureInPicture,
	EventEndpointMessageReceived,
	EventParticipantJoined,
	EventParticipantLeft,
	EventReadyToClose,
}

// EventPayload is collaborator-defined, e.g. {"id": "abc"} for onParticipantLeft.
type EventPayload map[string]any

type EventHandler func(payload EventPayload)

// EventListeners are the host's optional callbacks.
type EventListeners struct {
	OnAudioMutedChanged       EventHandler
	OnVideoMutedChanged       EventHandler
	OnConferenceBlurred       EventHandler
	OnConferenceFocused       EventHandler
	OnConferenceJoined        EventHandler
	OnConferenceWillJoin      EventHandler
	OnConferenceLeft          EventHandler
	OnEnterPictureInPicture   EventHandler
	OnEndpointMessageReceived EventHandler
	OnParticipantJoined       EventHandler
	OnParticipantLeft         EventHandler
	OnReadyToClose            EventHandler
}

func (l *EventListeners) Lookup(name EventName) EventHandler {
	switch name {
	case EventAudioMutedChanged:
		return l.OnAudioMutedChanged
	case EventVideoMutedChanged:
		return l.OnVideoMutedChanged
	case EventConferenceBlurred:
		return l.OnConferenceBlurred
	case EventConferenceFocused:
		return l.OnConferenceFocused
	case EventConferenceJoined:
		return l.OnConferenceJoined
	case EventConferenceWillJoin:
		return l.OnConferenceWillJoin
	case EventConferenceLeft:
		return l.OnConferenceLeft
	case EventEnterPictureInPicture:
		return l.OnEnterPictureInPicture
	case EventEndpointMessageReceived:
		return l.OnEndpointMessageReceived
	case EventParticipantJoined:
		return l.OnParticipantJoined
	case EventParticipantLeft:
		return l.OnParticipantLeft
	case EventReadyToClose:
		return l.OnReadyToClose
	}
	return nil
}

// ListenAll sets the same handler for every event; used by forwarding hosts.
func ListenAll(fn func(name EventName, payload EventPayload)) EventListeners {
	bind := func(name EventName) EventHandler {
		return func(payload EventPayload) { fn(name, payload) }
	}
	return EventListeners{
		OnAudioMutedChanged:       bind(EventAudioMutedChanged),
		OnVideoMutedChanged:       bind(EventVideoMutedChanged),
		OnConferenceBlurred:       bind(EventConferenceBlurred),
		OnConferenceFocused:       bind(EventConferenceFocused),
		OnConferenceJoined:        bind(EventConferenceJoined),
		OnConferenceWillJoin:      bind(EventConferenceWillJoin),
		OnConferenceLeft:          bind(EventConferenceLeft),
		OnEnterPictureInPicture:   bind(EventEnterPictureInPicture),
		OnEndpointMessageReceived: bind(EventEndpointMessageReceived),
		OnParticipantJoined:       bind(EventParticipantJoined),
		OnParticipantLeft:         bind(EventParticipantLeft),
		OnReadyToClose:            bind(EventReadyToClose),
	}
}

// Handlers is the canonical handler table: only events with a handler have an entry.
type Handlers map[EventName]EventHandler

// Emit invokes the handler for name, reporting whether one was registered.
func (h Handlers) Emit(name EventName, payload EventPayload) bool {
	fn, ok := h[name]
	if !ok || fn == nil {
		return false
	}
	fn(payload)
	return true
}

func (h Handlers) Names() []EventName {
	names := make([]EventName, 0, len(h))
	for _, n := range EventNames {
		if _, ok := h[n]; ok {
			names = append(names, n)
		}
	}
	return names
}
