package meeting

type ActionType string

const (
	ActionAppNavigate       ActionType = "APP_NAVIGATE"
	ActionSetAudioOnly      ActionType = "SET_AUDIO_ONLY"
	ActionSetAudioMuted     ActionType = "SET_AUDIO_MUTED"
	ActionSetVideoMuted     ActionType = "SET_VIDEO_MUTED"
	ActionConferenceJoined  ActionType = "CONFERENCE_JOINED"
	ActionParticipantJoined ActionType = "PARTICIPANT_JOINED"
	ActionParticipantLeft   ActionType = "PARTICIPANT_LEFT"
	ActionSetBreakoutRooms  ActionType = "SET_BREAKOUT_ROOMS"
)

// Action is a message dispatched into the engine store.
// Only the fields relevant to Type are populated.
type Action struct {
	Type        ActionType
	URL         *string
	Value       bool
	Conference  *Conference
	Participant *Participant
	Rooms       map[string]*BreakoutRoom
}

// AppNavigate with a nil url navigates away from the active conference.
func AppNavigate(url *string) Action {
	return Action{Type: ActionAppNavigate, URL: url}
}

func SetAudioOnly(value bool) Action {
	return Action{Type: ActionSetAudioOnly, Value: value}
}

func SetAudioMuted(muted bool) Action {
	return Action{Type: ActionSetAudioMuted, Value: muted}
}

func SetVideoMuted(muted bool) Action {
	return Action{Type: ActionSetVideoMuted, Value: muted}
}

type Conference struct {
	Name         string `json:"name"`
	JID          string `json:"jid"`
	MeetingTitle string `json:"meetingTitle,omitempty"`
}

type Participant struct {
	ID          string `json:"id"`
	JID         string `json:"jid,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	Local       bool   `json:"local,omitempty"`
}

type BreakoutRoom struct {
	ID           string                  `json:"id"`
	JID          string                  `json:"jid"`
	Name         string                  `json:"name,omitempty"`
	IsMainRoom   bool                    `json:"isMainRoom,omitempty"`
	Participants map[string]*Participant `json:"participants,omitempty"` // keyed by jid
}

type MediaState struct {
	AudioOnly  bool `json:"audioOnly"`
	AudioMuted bool `json:"audioMuted"`
	VideoMuted bool `json:"videoMuted"`
}

// EngineState is a read-only snapshot of the engine store.
type EngineState struct {
	Flags         Flags                    `json:"flags"`
	LocationURL   *string                  `json:"locationURL,omitempty"`
	Conference    *Conference              `json:"conference,omitempty"`
	Media         MediaState               `json:"media"`
	Participants  map[string]*Participant  `json:"participants,omitempty"`
	BreakoutRooms map[string]*BreakoutRoom `json:"breakoutRooms,omitempty"`
}

func (s *EngineState) FeatureFlags() Flags {
	if s == nil {
		return nil
	}
	return s.Flags
}

type RoomParticipant struct {
	ID          string `json:"id"`
	JID         string `json:"jid"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

type RoomInfo struct {
	ID           string            `json:"id"`
	JID          string            `json:"jid"`
	IsMainRoom   bool              `json:"isMainRoom"`
	Participants []RoomParticipant `json:"participants"`
}

type RoomsInfo struct {
	Rooms []RoomInfo `json:"rooms"`
}
