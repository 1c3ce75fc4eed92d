package display

import (
	"context"
	"strconv"
	"strings"

	"github.com/imtaco/meet-embed/internal/errors"
	"github.com/imtaco/meet-embed/internal/kvstore"
	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/meeting"
	"github.com/imtaco/meet-embed/meeting/flags"
	"github.com/imtaco/meet-embed/meeting/persist"
)

// Reader serves presentational consumers that only know the store keys.
// A key that is not written yet reads as absent and the caller's fallback wins.
type Reader struct {
	store  kvstore.Store
	logger *log.Logger
}

func NewReader(store kvstore.Store, logger *log.Logger) *Reader {
	return &Reader{store: store, logger: logger}
}

// present drops blank values and the placeholder some hosts write for a missing value.
func present(v string) (string, bool) {
	if strings.TrimSpace(v) == "" || v == persist.Placeholder {
		return "", false
	}
	return v, true
}

// Title resolves the title bar text: the conference meeting title, then the
// persisted meetingTitle, then the conference name. With the meeting-title
// flag off it is always the conference name.
func (r *Reader) Title(ctx context.Context, state *meeting.EngineState) string {
	name := ""
	if state != nil && state.Conference != nil {
		name = state.Conference.Name
	}
	if !flags.IsMeetingTitleEnabled(state) {
		return name
	}
	if state != nil && state.Conference != nil {
		if t, ok := present(state.Conference.MeetingTitle); ok {
			return t
		}
	}

	stored, err := r.store.GetItem(ctx, meeting.KeyMeetingTitle)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			r.logger.Warn("failed to read meeting title", log.Error(err))
		}
		return name
	}
	if t, ok := present(stored); ok {
		return t
	}
	return name
}

type Bitrates struct {
	Min int64 `json:"minBitrate" mapstructure:"min"`
	Std int64 `json:"stdBitrate" mapstructure:"std"`
	Max int64 `json:"maxBitrate" mapstructure:"max"`
}

// Bitrates parses the persisted bounds; any missing or unparsable value keeps
// the matching fallback field.
func (r *Reader) Bitrates(ctx context.Context, fallback Bitrates) Bitrates {
	got, err := r.store.MultiGet(ctx, meeting.BitrateKeys...)
	if err != nil {
		r.logger.Warn("failed to read bitrates", log.Error(err))
		return fallback
	}

	out := fallback
	for key, dst := range map[string]*int64{
		meeting.KeyMinBitrate: &out.Min,
		meeting.KeyStdBitrate: &out.Std,
		meeting.KeyMaxBitrate: &out.Max,
	} {
		raw, ok := got[key]
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			r.logger.Debug("ignore unparsable bitrate", log.String("key", key), log.String("value", raw))
			continue
		}
		*dst = v
	}
	return out
}

// Texts are the persisted display texts; nil means absent.
type Texts struct {
	MeetingTitle    *string `json:"meetingTitle,omitempty"`
	WaitingText     *string `json:"waitingText,omitempty"`
	LobyTitle       *string `json:"lobyTitle,omitempty"`
	LobyDescription *string `json:"lobyDescription,omitempty"`
}

func (r *Reader) Texts(ctx context.Context) Texts {
	var out Texts
	got, err := r.store.MultiGet(ctx, meeting.TextKeys...)
	if err != nil {
		r.logger.Warn("failed to read display texts", log.Error(err))
		return out
	}

	pick := func(key string) *string {
		if v, ok := present(got[key]); ok {
			return &v
		}
		return nil
	}
	out.MeetingTitle = pick(meeting.KeyMeetingTitle)
	out.WaitingText = pick(meeting.KeyWaitingText)
	out.LobyTitle = pick(meeting.KeyLobyTitle)
	out.LobyDescription = pick(meeting.KeyLobyDescription)
	return out
}
