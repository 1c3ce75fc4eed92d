package engine

import (
	"context"
	"maps"
	"strings"
	"sync"

	"github.com/imtaco/meet-embed/internal/errors"
	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/meeting"
)

const (
	ErrEngineClosed  errors.Code = "engine closed"
	ErrUnknownAction errors.Code = "unknown action"
)

type event struct {
	name    meeting.EventName
	payload meeting.EventPayload
}

// Store is an in-process engine: a reducer over meeting.EngineState that
// reports changes through the canonical handler table.
type Store struct {
	mu       sync.RWMutex
	state    *meeting.EngineState
	handlers meeting.Handlers
	closed   bool
	logger   *log.Logger
}

func New(props *meeting.AppProps, logger *log.Logger) *Store {
	st := &meeting.EngineState{
		Flags:        props.Flags.Clone(),
		Participants: map[string]*meeting.Participant{},
	}
	if u := LocationURL(props.URL); u != "" {
		st.LocationURL = &u
	}
	return &Store{
		state:    st,
		handlers: props.Handlers,
		logger:   logger,
	}
}

// Factory adapts New to meeting.EngineFactory.
func Factory(logger *log.Logger) meeting.EngineFactory {
	return func(_ context.Context, props *meeting.AppProps) (meeting.EngineHandle, error) {
		return New(props, logger), nil
	}
}

// LocationURL joins a room locator into the URL the engine navigates to.
func LocationURL(l meeting.Locator) string {
	if l.IsFullURL() {
		return l.URL
	}
	if l.ServerURL == "" {
		return l.Room
	}
	return strings.TrimSuffix(l.ServerURL, "/") + "/" + l.Room
}

// Dispatch applies action and then notifies handlers outside the lock, so a
// handler may call back into the store.
func (s *Store) Dispatch(action meeting.Action) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrEngineClosed
	}
	events, err := s.reduce(action)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Debug("action dispatched",
		log.String("type", string(action.Type)),
		log.Int("events", len(events)))
	for _, ev := range events {
		s.handlers.Emit(ev.name, ev.payload)
	}
	return nil
}

// GetState returns a copy safe to read while the store keeps changing.
func (s *Store) GetState() *meeting.EngineState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// Close stops accepting actions. It is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) reduce(a meeting.Action) ([]event, error) {
	st := s.state
	switch a.Type {
	case meeting.ActionAppNavigate:
		return s.navigate(a.URL), nil

	case meeting.ActionSetAudioOnly:
		st.Media.AudioOnly = a.Value
		return nil, nil

	case meeting.ActionSetAudioMuted:
		if st.Media.AudioMuted == a.Value {
			return nil, nil
		}
		st.Media.AudioMuted = a.Value
		return []event{{meeting.EventAudioMutedChanged, meeting.EventPayload{"muted": a.Value}}}, nil

	case meeting.ActionSetVideoMuted:
		if st.Media.VideoMuted == a.Value {
			return nil, nil
		}
		st.Media.VideoMuted = a.Value
		return []event{{meeting.EventVideoMutedChanged, meeting.EventPayload{"muted": a.Value}}}, nil

	case meeting.ActionConferenceJoined:
		if a.Conference == nil {
			return nil, errors.New(ErrUnknownAction, "conference joined without conference")
		}
		c := *a.Conference
		st.Conference = &c
		return []event{{meeting.EventConferenceJoined, s.urlPayload()}}, nil

	case meeting.ActionParticipantJoined:
		if a.Participant == nil || a.Participant.ID == "" {
			return nil, errors.New(ErrUnknownAction, "participant joined without id")
		}
		p := *a.Participant
		st.Participants[p.ID] = &p
		if p.Local {
			return nil, nil
		}
		return []event{{meeting.EventParticipantJoined, meeting.EventPayload{
			"id":          p.ID,
			"displayName": p.DisplayName,
		}}}, nil

	case meeting.ActionParticipantLeft:
		if a.Participant == nil {
			return nil, errors.New(ErrUnknownAction, "participant left without id")
		}
		if _, ok := st.Participants[a.Participant.ID]; !ok {
			return nil, nil
		}
		delete(st.Participants, a.Participant.ID)
		return []event{{meeting.EventParticipantLeft, meeting.EventPayload{"id": a.Participant.ID}}}, nil

	case meeting.ActionSetBreakoutRooms:
		st.BreakoutRooms = cloneRooms(a.Rooms)
		return nil, nil
	}
	return nil, errors.Newf(ErrUnknownAction, "action %q", a.Type)
}

// navigate with a nil url leaves the conference and signals the host it may close.
func (s *Store) navigate(url *string) []event {
	st := s.state
	if url != nil {
		u := *url
		st.LocationURL = &u
		return []event{{meeting.EventConferenceWillJoin, s.urlPayload()}}
	}

	var events []event
	if st.Conference != nil {
		events = append(events, event{meeting.EventConferenceLeft, s.urlPayload()})
	}
	st.Conference = nil
	st.LocationURL = nil
	st.Participants = map[string]*meeting.Participant{}
	st.BreakoutRooms = nil
	return append(events, event{meeting.EventReadyToClose, meeting.EventPayload{}})
}

func (s *Store) urlPayload() meeting.EventPayload {
	payload := meeting.EventPayload{}
	if s.state.LocationURL != nil {
		payload["url"] = *s.state.LocationURL
	}
	return payload
}

func cloneState(in *meeting.EngineState) *meeting.EngineState {
	out := *in
	out.Flags = maps.Clone(in.Flags)
	if in.LocationURL != nil {
		u := *in.LocationURL
		out.LocationURL = &u
	}
	if in.Conference != nil {
		c := *in.Conference
		out.Conference = &c
	}
	out.Participants = make(map[string]*meeting.Participant, len(in.Participants))
	for id, p := range in.Participants {
		cp := *p
		out.Participants[id] = &cp
	}
	out.BreakoutRooms = cloneRooms(in.BreakoutRooms)
	return &out
}

func cloneRooms(in map[string]*meeting.BreakoutRoom) map[string]*meeting.BreakoutRoom {
	if in == nil {
		return nil
	}
	out := make(map[string]*meeting.BreakoutRoom, len(in))
	for id, r := range in {
		cr := *r
		cr.Participants = make(map[string]*meeting.Participant, len(r.Participants))
		for k, p := range r.Participants {
			cp := *p
			cr.Participants[k] = &cp
		}
		out[id] = &cr
	}
	return out
}
