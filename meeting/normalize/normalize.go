package normalize

import (
	"maps"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/imtaco/meet-embed/internal/errors"
	"github.com/imtaco/meet-embed/internal/utils"
	"github.com/imtaco/meet-embed/internal/validation"
	"github.com/imtaco/meet-embed/meeting"
	"github.com/imtaco/meet-embed/meeting/flags"
)

const schemeSeparator = "://"

var validate = validation.New()

// identity is the part of host input that locates and authenticates the conference.
type identity struct {
	room      string
	serverURL string
	jwt       string
	config    map[string]any
}

// Normalize turns host props of either platform shape into the canonical
// props handed to the engine. It has no side effects; persistence reads the
// raw input separately through ExtractCustomParams.
func Normalize(props *meeting.HostProps) (*meeting.AppProps, error) {
	if err := Validate(props); err != nil {
		return nil, err
	}

	id, err := identify(props)
	if err != nil {
		return nil, err
	}
	custom, err := ExtractCustomParams(props)
	if err != nil {
		return nil, err
	}

	return &meeting.AppProps{
		Flags:    DeriveFlags(props.Flags),
		Handlers: HandlerTable(&props.Listeners),
		URL:      ResolveLocator(id.room, id.serverURL, id.jwt, id.config),
		UserInfo: utils.Clone(props.UserInfo),

		MeetingTitle:    custom.MeetingTitle,
		WaitingAreaText: custom.WaitingAreaText,
		LobyTitle:       custom.LobyTitle,
		LobyDescription: custom.LobyDescription,

		MinBitrate: custom.MinBitrate,
		StdBitrate: custom.StdBitrate,
		MaxBitrate: custom.MaxBitrate,
	}, nil
}

func Validate(props *meeting.HostProps) error {
	if props == nil {
		return errors.New(meeting.ErrInvalidHostProps, "props are required")
	}
	var variant any
	switch props.Platform {
	case meeting.PlatformAndroid:
		if props.Flat == nil {
			return errors.New(meeting.ErrInvalidHostProps, "flat props are required on android")
		}
		variant = props.Flat
	case meeting.PlatformIOS:
		if props.Descriptor == nil {
			return errors.New(meeting.ErrInvalidHostProps, "url descriptor is required on ios")
		}
		variant = props.Descriptor
	default:
		return errors.Newf(meeting.ErrUnknownPlatform, "platform %q", props.Platform)
	}

	if err := validate.Struct(props); err != nil {
		return errors.Wrap(meeting.ErrInvalidHostProps, err, "validate host props")
	}
	if err := validate.Struct(variant); err != nil {
		return errors.Wrap(meeting.ErrInvalidHostProps, err, "validate host props")
	}
	return nil
}

// ValidationErrors exposes field-level details of a Validate/Normalize failure.
func ValidationErrors(err error) []validation.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validation.FormatValidationError(verrs)
	}
	return nil
}

func identify(props *meeting.HostProps) (identity, error) {
	switch props.Platform {
	case meeting.PlatformAndroid:
		f := props.Flat
		return identity{room: f.Room, serverURL: f.ServerURL, jwt: f.Token, config: f.Config}, nil
	case meeting.PlatformIOS:
		d := props.Descriptor
		return identity{room: d.Room, serverURL: d.ServerURL, jwt: d.JWT, config: d.Config}, nil
	}
	return identity{}, errors.Newf(meeting.ErrUnknownPlatform, "platform %q", props.Platform)
}

// ResolveLocator emits {url} when room contains "://", otherwise {room, serverURL}.
// The check is a plain substring test; malformed URLs still count as URLs.
func ResolveLocator(room, serverURL, jwt string, config map[string]any) meeting.Locator {
	loc := meeting.Locator{
		Config: maps.Clone(config),
		JWT:    jwt,
	}
	if strings.Contains(room, schemeSeparator) {
		loc.URL = room
	} else {
		loc.Room = room
		loc.ServerURL = serverURL
	}
	return loc
}

// DeriveFlags copies in and forces prejoinpage.enabled to the negation of
// directJoin.enabled under host truthiness, so the result always carries
// prejoinpage.enabled.
func DeriveFlags(in meeting.Flags) meeting.Flags {
	out := in.Clone()
	out[flags.PrejoinPageEnabled] = !flags.Truthy(in[flags.DirectJoinEnabled])
	return out
}

// HandlerTable keeps an entry only for events the host listens to.
func HandlerTable(l *meeting.EventListeners) meeting.Handlers {
	table := make(meeting.Handlers, len(meeting.EventNames))
	if l == nil {
		return table
	}
	for _, name := range meeting.EventNames {
		if fn := l.Lookup(name); fn != nil {
			table[name] = fn
		}
	}
	return table
}

// ExtractCustomParams reads the bitrate and text fields from wherever the
// platform shape keeps them: top-level on android, inside url.config on ios.
func ExtractCustomParams(props *meeting.HostProps) (meeting.CustomParams, error) {
	var out meeting.CustomParams
	if props == nil {
		return out, errors.New(meeting.ErrInvalidHostProps, "props are required")
	}
	switch props.Platform {
	case meeting.PlatformAndroid:
		if props.Flat == nil {
			return out, errors.New(meeting.ErrInvalidHostProps, "flat props are required")
		}
		return props.Flat.CustomParams, nil
	case meeting.PlatformIOS:
		if props.Descriptor == nil {
			return out, errors.New(meeting.ErrInvalidHostProps, "url descriptor is required")
		}
		return decodeConfigParams(props.Descriptor.Config)
	}
	return out, errors.Newf(meeting.ErrUnknownPlatform, "platform %q", props.Platform)
}

func decodeConfigParams(config map[string]any) (meeting.CustomParams, error) {
	var out meeting.CustomParams
	if len(config) == 0 {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(config); err != nil {
		return out, errors.Wrap(meeting.ErrInvalidHostProps, err, "decode url.config")
	}
	return out, nil
}
