package transport

import (
	"github.com/imtaco/meet-embed/meeting"
	"github.com/imtaco/meet-embed/meeting/display"
)

type SetAudioOnlyBody struct {
	Value *bool `json:"value" binding:"required"`
}

type SetMutedBody struct {
	Muted *bool `json:"muted" binding:"required"`
}

type MountResponse struct {
	Shell    string              `json:"shell"`
	Locator  meeting.Locator     `json:"locator"`
	Handlers []meeting.EventName `json:"handlers"`
}

type SettingsResponse struct {
	Title    string           `json:"title"`
	Texts    display.Texts    `json:"texts"`
	Bitrates display.Bitrates `json:"bitrates"`
}
