package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imtaco/meet-embed/meeting"
)

func TestGetRoomsInfoNoConference(t *testing.T) {
	assert.Equal(t, meeting.RoomsInfo{Rooms: []meeting.RoomInfo{}}, GetRoomsInfo(nil))
	assert.Empty(t, GetRoomsInfo(&meeting.EngineState{}).Rooms)
}

func TestGetRoomsInfoMainRoomOnly(t *testing.T) {
	state := &meeting.EngineState{
		Conference: &meeting.Conference{Name: "standup", JID: "standup@conf"},
		Participants: map[string]*meeting.Participant{
			"me":  {ID: "me", DisplayName: "Me", Role: "moderator", Local: true},
			"abc": {ID: "abc", JID: "standup@conf/abc", DisplayName: "Ann", AvatarURL: "https://a/ann.png", Role: "participant"},
		},
	}

	info := GetRoomsInfo(state)
	require.Len(t, info.Rooms, 1)
	room := info.Rooms[0]
	assert.True(t, room.IsMainRoom)
	assert.Equal(t, "standup@conf", room.ID)
	assert.Equal(t, "standup@conf/me", room.JID)
	assert.Equal(t, []meeting.RoomParticipant{
		{ID: "abc", JID: "standup@conf/abc", Role: "participant", DisplayName: "Ann", AvatarURL: "https://a/ann.png"},
		{ID: "me", JID: "standup@conf/me", Role: "moderator", DisplayName: "Me"},
	}, room.Participants)
}

func TestGetRoomsInfoBreakoutRooms(t *testing.T) {
	state := &meeting.EngineState{
		Conference: &meeting.Conference{JID: "main@conf"},
		Participants: map[string]*meeting.Participant{
			"abc": {ID: "abc", AvatarURL: "https://a/ann.png"},
		},
		BreakoutRooms: map[string]*meeting.BreakoutRoom{
			"b1": {
				ID:  "b1",
				JID: "b1@breakout",
				Participants: map[string]*meeting.Participant{
					"b1@breakout/abc": {JID: "b1@breakout/abc", DisplayName: "Ann", Role: "participant"},
				},
			},
			"main": {ID: "main", JID: "main@conf", IsMainRoom: true},
			"a0":   {ID: "a0", JID: "a0@breakout"},
		},
	}

	info := GetRoomsInfo(state)
	require.Len(t, info.Rooms, 3)
	assert.Equal(t, "main", info.Rooms[0].ID)
	assert.True(t, info.Rooms[0].IsMainRoom)
	assert.Empty(t, info.Rooms[0].Participants)
	assert.Equal(t, "a0", info.Rooms[1].ID)
	assert.Equal(t, "b1", info.Rooms[2].ID)

	require.Len(t, info.Rooms[2].Participants, 1)
	p := info.Rooms[2].Participants[0]
	assert.Equal(t, "abc", p.ID)
	assert.Equal(t, "b1@breakout/abc", p.JID)
	assert.Equal(t, "https://a/ann.png", p.AvatarURL)
	assert.Equal(t, "Ann", p.DisplayName)
}

func TestGetRoomsInfoUnknownBreakoutParticipant(t *testing.T) {
	state := &meeting.EngineState{
		BreakoutRooms: map[string]*meeting.BreakoutRoom{
			"b1": {ID: "b1", Participants: map[string]*meeting.Participant{
				"ghost": {JID: "ghost@x"},
			}},
		},
	}

	info := GetRoomsInfo(state)
	require.Len(t, info.Rooms, 1)
	assert.Equal(t, "ghost", info.Rooms[0].Participants[0].ID)
	assert.Empty(t, info.Rooms[0].Participants[0].AvatarURL)
}
