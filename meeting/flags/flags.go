package flags

import (
	"math"

	"github.com/spf13/cast"

	"github.com/imtaco/meet-embed/meeting"
)

// Flag names recognized on host input.
const (
	PrejoinPageEnabled       = "prejoinpage.enabled"
	DirectJoinEnabled        = "directJoin.enabled"
	BackButtonHandlerEnabled = "backButtonHandler.enabled"
	EndMeetingOptionsEnabled = "endMeetingOptions.enabled"
	CustomLoaderShowEnabled  = "customLoaderShow.enabled"
	ModeratorEnabled         = "moderatorEnable.enabled"
)

// Flag names read by engine features but never set by the host bridge.
const (
	MeetingTitleEnabled    = "meetingTitle.enabled"
	ConferenceTimerEnabled = "conference-timer.enabled"
)

var Recognized = []string{
	PrejoinPageEnabled,
	DirectJoinEnabled,
	BackButtonHandlerEnabled,
	EndMeetingOptionsEnabled,
	CustomLoaderShowEnabled,
	ModeratorEnabled,
}

func IsRecognized(name string) bool {
	for _, n := range Recognized {
		if n == name {
			return true
		}
	}
	return false
}

// State is anything carrying a flag map: engine state, canonical props, or a bare map.
type State interface {
	FeatureFlags() meeting.Flags
}

// Bool coerces a flag value. Values that do not read as a boolean
// (nil, "maybe", a map) report ok=false.
func Bool(v any) (value bool, ok bool) {
	if v == nil {
		return false, false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// Truthy applies host truthiness rather than boolean parsing: any non-empty
// string is true, "false" included, and numbers are true unless zero.
// Values of other kinds are true when non-nil.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// Get resolves name from state, falling back to def when the state is nil,
// the flag is absent, or its value is not a boolean.
func Get(state State, name string, def bool) bool {
	if state == nil {
		return def
	}
	fl := state.FeatureFlags()
	if fl == nil {
		return def
	}
	if b, ok := Bool(fl[name]); ok {
		return b
	}
	return def
}
