package flags

func IsDirectJoinMeetingEnabled(state State) bool {
	return Get(state, DirectJoinEnabled, false)
}

func IsPrejoinPageEnabled(state State) bool {
	return Get(state, PrejoinPageEnabled, false)
}

func IsModeratorOptionEnabled(state State) bool {
	return Get(state, ModeratorEnabled, false)
}

func IsBackButtonHandlerEnabled(state State) bool {
	return Get(state, BackButtonHandlerEnabled, false)
}

func IsEndMeetingOptionsHandlerEnabled(state State) bool {
	return Get(state, EndMeetingOptionsEnabled, false)
}

func IsCustomLoaderShowHandlerEnabled(state State) bool {
	return Get(state, CustomLoaderShowEnabled, false)
}

// IsMeetingTitleEnabled defaults to on, as the title bar does.
func IsMeetingTitleEnabled(state State) bool {
	return Get(state, MeetingTitleEnabled, true)
}

func IsConferenceTimerEnabled(state State) bool {
	return Get(state, ConferenceTimerEnabled, true)
}
