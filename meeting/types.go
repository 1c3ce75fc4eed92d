package meeting

import (
	"context"
	"maps"
)

// Platform tags which host input shape a HostProps carries.
type Platform string

const (
	// PlatformAndroid hosts pass every field flat on the props object.
	PlatformAndroid Platform = "android"
	// PlatformIOS hosts pass a URL descriptor; custom params ride in url.config.
	PlatformIOS Platform = "ios"
)

// Durable key-value store keys shared by the shell and downstream readers.
const (
	KeyMinBitrate      = "minBitrate"
	KeyStdBitrate      = "stdBitrate"
	KeyMaxBitrate      = "maxBitrate"
	KeyMeetingTitle    = "meetingTitle"
	KeyWaitingText     = "waitingText"
	KeyLobyTitle       = "lobyTitle"
	KeyLobyDescription = "lobyDescription"
)

// BitrateKeys and TextKeys are the two write sequences, in write order.
var (
	BitrateKeys = []string{KeyMinBitrate, KeyStdBitrate, KeyMaxBitrate}
	TextKeys    = []string{KeyMeetingTitle, KeyWaitingText, KeyLobyTitle, KeyLobyDescription}
)

// HostProps is the raw host configuration, a tagged union on Platform.
// The variant matching Platform must be set; the other one is ignored.
type HostProps struct {
	Platform   Platform       `json:"platform" yaml:"platform" validate:"required,oneof=android ios"`
	Flat       *FlatProps     `json:"flat,omitempty" yaml:"flat,omitempty" validate:"-"`
	Descriptor *URLDescriptor `json:"url,omitempty" yaml:"url,omitempty" validate:"-"`
	Flags      Flags          `json:"flags,omitempty" yaml:"flags,omitempty"`
	UserInfo   *UserInfo      `json:"userInfo,omitempty" yaml:"userInfo,omitempty"`

	// Listeners cannot travel over JSON; embedders set them in code.
	Listeners EventListeners `json:"-" yaml:"-" validate:"-"`
}

// FlatProps is the flat-field shape: identification and custom params are top-level.
type FlatProps struct {
	Room      string         `json:"room" yaml:"room" validate:"required,locator"`
	ServerURL string         `json:"serverURL,omitempty" yaml:"serverURL,omitempty"`
	Token     string         `json:"token,omitempty" yaml:"token,omitempty"`
	Config    map[string]any `json:"config,omitempty" yaml:"config,omitempty"`

	CustomParams `yaml:",inline"`
}

// URLDescriptor is the URL-descriptor shape. Custom params are read from Config.
type URLDescriptor struct {
	Room      string         `json:"room" yaml:"room" validate:"required,locator"`
	ServerURL string         `json:"serverURL,omitempty" yaml:"serverURL,omitempty"`
	JWT       string         `json:"jwt,omitempty" yaml:"jwt,omitempty"`
	Config    map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// CustomParams are the bitrate bounds and display texts persisted for later readers.
// Nil means the host did not supply the value. Bitrates are required on the flat
// shape only; the descriptor shape is never validated against these tags.
type CustomParams struct {
	MinBitrate      *int64  `json:"minBitrate,omitempty" yaml:"minBitrate,omitempty" mapstructure:"minBitrate" validate:"required,bitrate"`
	StdBitrate      *int64  `json:"stdBitrate,omitempty" yaml:"stdBitrate,omitempty" mapstructure:"stdBitrate" validate:"required,bitrate"`
	MaxBitrate      *int64  `json:"maxBitrate,omitempty" yaml:"maxBitrate,omitempty" mapstructure:"maxBitrate" validate:"required,bitrate"`
	MeetingTitle    *string `json:"meetingTitle,omitempty" yaml:"meetingTitle,omitempty" mapstructure:"meetingTitle"`
	WaitingAreaText *string `json:"waitingAreaText,omitempty" yaml:"waitingAreaText,omitempty" mapstructure:"waitingAreaText"`
	LobyTitle       *string `json:"lobyTitle,omitempty" yaml:"lobyTitle,omitempty" mapstructure:"lobyTitle"`
	LobyDescription *string `json:"lobyDescription,omitempty" yaml:"lobyDescription,omitempty" mapstructure:"lobyDescription"`
}

type UserInfo struct {
	AvatarURL   string `json:"avatarURL,omitempty" yaml:"avatarURL,omitempty"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Flags maps a feature flag name to a boolean or string value.
type Flags map[string]any

func (f Flags) Clone() Flags {
	if f == nil {
		return Flags{}
	}
	return maps.Clone(f)
}

// FeatureFlags lets a bare flag map be used wherever flag state is read.
func (f Flags) FeatureFlags() Flags {
	return f
}

// Locator identifies the conference. URL is set for full locators,
// Room/ServerURL otherwise; never both.
type Locator struct {
	Config    map[string]any `json:"config,omitempty"`
	JWT       string         `json:"jwt,omitempty"`
	URL       string         `json:"url,omitempty"`
	Room      string         `json:"room,omitempty"`
	ServerURL string         `json:"serverURL,omitempty"`
}

func (l Locator) IsFullURL() bool {
	return l.URL != ""
}

// AppProps is the canonical configuration handed to the engine for one mount.
type AppProps struct {
	Flags    Flags     `json:"flags"`
	Handlers Handlers  `json:"-"`
	URL      Locator   `json:"url"`
	UserInfo *UserInfo `json:"userInfo,omitempty"`

	MeetingTitle    *string `json:"meetingTitle,omitempty"`
	WaitingAreaText *string `json:"waitingAreaText,omitempty"`
	LobyTitle       *string `json:"lobyTitle,omitempty"`
	LobyDescription *string `json:"lobyDescription,omitempty"`

	MinBitrate *int64 `json:"minBitrate,omitempty"`
	StdBitrate *int64 `json:"stdBitrate,omitempty"`
	MaxBitrate *int64 `json:"maxBitrate,omitempty"`
}

func (p *AppProps) FeatureFlags() Flags {
	if p == nil {
		return nil
	}
	return p.Flags
}

//go:generate mockgen -source=types.go -destination=mocks/mock_engine.go -package=mocks

// EngineHandle is the engine instance's store, obtained once at construction.
type EngineHandle interface {
	Dispatch(action Action) error
	GetState() *EngineState
}

// EngineFactory builds the engine instance for a mount from the canonical props.
// If the returned handle implements io.Closer it is closed after teardown.
type EngineFactory func(ctx context.Context, props *AppProps) (EngineHandle, error)
