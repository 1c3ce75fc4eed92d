package engine

import (
	"cmp"
	"slices"
	"strings"

	"github.com/imtaco/meet-embed/meeting"
)

// GetRoomsInfo describes the main room and any breakout rooms.
// Without breakout rooms the main room holds every known participant;
// with no conference at all the result has no rooms.
func GetRoomsInfo(state *meeting.EngineState) meeting.RoomsInfo {
	info := meeting.RoomsInfo{Rooms: []meeting.RoomInfo{}}
	if state == nil {
		return info
	}
	if len(state.BreakoutRooms) == 0 {
		if state.Conference == nil {
			return info
		}
		info.Rooms = append(info.Rooms, mainRoom(state))
		return info
	}

	for _, r := range state.BreakoutRooms {
		room := meeting.RoomInfo{
			ID:           r.ID,
			JID:          r.JID,
			IsMainRoom:   r.IsMainRoom,
			Participants: []meeting.RoomParticipant{},
		}
		for longID, item := range r.Participants {
			room.Participants = append(room.Participants, breakoutParticipant(state, longID, item))
		}
		sortParticipants(room.Participants)
		info.Rooms = append(info.Rooms, room)
	}
	slices.SortFunc(info.Rooms, func(a, b meeting.RoomInfo) int {
		if a.IsMainRoom != b.IsMainRoom {
			if a.IsMainRoom {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return info
}

func mainRoom(state *meeting.EngineState) meeting.RoomInfo {
	conf := state.Conference
	room := meeting.RoomInfo{
		ID:           conf.JID,
		JID:          conf.JID,
		IsMainRoom:   true,
		Participants: []meeting.RoomParticipant{},
	}
	for _, p := range state.Participants {
		jid := p.JID
		if jid == "" {
			jid = conf.JID + "/" + p.ID
		}
		if p.Local {
			room.JID = jid
		}
		room.Participants = append(room.Participants, meeting.RoomParticipant{
			ID:          p.ID,
			JID:         jid,
			Role:        p.Role,
			DisplayName: p.DisplayName,
			AvatarURL:   p.AvatarURL,
		})
	}
	sortParticipants(room.Participants)
	return room
}

// breakoutParticipant resolves a room entry keyed "<room jid>/<participant id>"
// against the conference participants to pick up its id and avatar.
func breakoutParticipant(state *meeting.EngineState, longID string, item *meeting.Participant) meeting.RoomParticipant {
	lookup := item.JID
	if _, id, ok := strings.Cut(longID, "/"); ok {
		lookup = id
	}
	out := meeting.RoomParticipant{
		ID:          longID,
		JID:         item.JID,
		Role:        item.Role,
		DisplayName: item.DisplayName,
	}
	if p, ok := state.Participants[lookup]; ok {
		out.ID = p.ID
		out.AvatarURL = p.AvatarURL
	}
	return out
}

func sortParticipants(ps []meeting.RoomParticipant) {
	slices.SortFunc(ps, func(a, b meeting.RoomParticipant) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
