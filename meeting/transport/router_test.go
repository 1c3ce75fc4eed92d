package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/imtaco/meet-embed/internal/jwt"
	"github.com/imtaco/meet-embed/internal/kvstore"
	"github.com/imtaco/meet-embed/internal/log"
	"github.com/imtaco/meet-embed/meeting"
	"github.com/imtaco/meet-embed/meeting/display"
	"github.com/imtaco/meet-embed/meeting/engine"
	"github.com/imtaco/meet-embed/meeting/persist"
	"github.com/imtaco/meet-embed/meeting/shell"
)

const mountBody = `{
  "platform": "android",
  "flat": {
    "room": "team-standup",
    "serverURL": "https://example.org",
    "token": "host-secret",
    "minBitrate": 100,
    "stdBitrate": 500,
    "maxBitrate": 2000,
    "meetingTitle": "Standup"
  },
  "flags": {"directJoin.enabled": true}
}`

type RouterTestSuite struct {
	suite.Suite
	store   kvstore.Store
	hub     *Hub
	host    *Host
	router  *Router
	control string
	observe string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	s.setup(Options{})
}

func (s *RouterTestSuite) setup(opts Options) {
	gin.SetMode(gin.TestMode)
	logger := log.NewTest(s.T())
	auth := jwt.NewAuth("test-secret")

	s.store = kvstore.NewMemory()
	// hub and persister log from their own goroutines, which may outlive a test
	s.hub = NewHub(nil, log.NewNop())
	s.host = NewHost(
		engine.Factory(logger),
		s.hub,
		logger,
		shell.WithPersister(persist.New(s.store, nil, log.NewNop())),
	)
	s.router = NewRouter(s.host, s.hub, display.NewReader(s.store, logger), auth, opts, logger)

	var err error
	s.control, err = auth.Sign("host-1", jwt.ScopeControl, time.Hour)
	s.Require().NoError(err)
	s.observe, err = auth.Sign("host-1", jwt.ScopeObserve, time.Hour)
	s.Require().NoError(err)
}

func (s *RouterTestSuite) do(method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.Handler().ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func (s *RouterTestSuite) mount() map[string]any {
	w, resp := s.do(http.MethodPost, "/api/meeting", s.control, mountBody)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return resp
}

func (s *RouterTestSuite) TestHealthCheck() {
	w, resp := s.do(http.MethodGet, "/health", "", "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("ok", resp["status"])
	s.Equal(false, resp["mounted"])

	s.mount()
	_, resp = s.do(http.MethodGet, "/health", "", "")
	s.Equal(true, resp["mounted"])
	s.Equal("mounted", resp["state"])
}

func (s *RouterTestSuite) TestAuth() {
	w, _ := s.do(http.MethodPost, "/api/meeting", "", mountBody)
	s.Equal(http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodPost, "/api/meeting", "not-a-token", mountBody)
	s.Equal(http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodPost, "/api/meeting", s.observe, mountBody)
	s.Equal(http.StatusForbidden, w.Code)

	// control implies observe
	w, _ = s.do(http.MethodGet, "/api/meeting/settings", s.control, "")
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterTestSuite) TestMount() {
	resp := s.mount()
	s.NotEmpty(resp["shell"])

	locator, ok := resp["locator"].(map[string]any)
	s.Require().True(ok)
	s.Equal("team-standup", locator["room"])
	s.Equal("https://example.org", locator["serverURL"])
	s.NotContains(locator, "jwt")

	handlers, ok := resp["handlers"].([]any)
	s.Require().True(ok)
	s.Len(handlers, len(meeting.EventNames))

	props := s.host.Shell().Props()
	s.Require().NotNil(props)
	s.Equal(false, props.Flags["prejoinpage.enabled"])
}

func (s *RouterTestSuite) TestMountTwice() {
	s.mount()
	w, resp := s.do(http.MethodPost, "/api/meeting", s.control, mountBody)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(string(meeting.ErrAlreadyMounted), resp["code"])
}

func (s *RouterTestSuite) TestMountInvalid() {
	tests := []struct {
		name    string
		body    string
		code    string
		details bool
	}{
		{name: "not json", body: "{", code: string(meeting.ErrInvalidHostProps)},
		{name: "unknown platform", body: `{"platform": "web"}`, code: string(meeting.ErrUnknownPlatform)},
		{name: "missing variant", body: `{"platform": "android"}`, code: string(meeting.ErrInvalidHostProps)},
		{
			name:    "missing room",
			body:    `{"platform": "android", "flat": {"minBitrate": 1, "stdBitrate": 2, "maxBitrate": 3}}`,
			code:    string(meeting.ErrInvalidHostProps),
			details: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w, resp := s.do(http.MethodPost, "/api/meeting", s.control, tt.body)
			s.Equal(http.StatusBadRequest, w.Code)
			s.Equal(tt.code, resp["code"])
			if tt.details {
				s.NotEmpty(resp["details"])
			}
		})
	}

	// a rejected mount leaves room for a valid one
	s.mount()
}

func (s *RouterTestSuite) TestRemountAfterUnmount() {
	first := s.mount()

	w, resp := s.do(http.MethodDelete, "/api/meeting", s.control, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, resp["unmounted"])
	s.Nil(s.host.Shell())

	w, resp = s.do(http.MethodDelete, "/api/meeting", s.control, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal(false, resp["unmounted"])

	second := s.mount()
	s.NotEqual(first["shell"], second["shell"])
}

func (s *RouterTestSuite) TestNotReady() {
	for _, path := range []string{"/api/meeting/audio-muted", "/api/meeting/video-muted"} {
		w, resp := s.do(http.MethodPut, path, s.control, `{"muted": true}`)
		s.Equal(http.StatusConflict, w.Code, path)
		s.Equal(string(meeting.ErrEngineNotReady), resp["code"])
	}

	w, _ := s.do(http.MethodPut, "/api/meeting/audio-only", s.control, `{"value": true}`)
	s.Equal(http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodPost, "/api/meeting/close", s.control, "")
	s.Equal(http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodGet, "/api/meeting/rooms", s.observe, "")
	s.Equal(http.StatusConflict, w.Code)
}

func (s *RouterTestSuite) TestImperativeOps() {
	s.mount()

	w, _ := s.do(http.MethodPut, "/api/meeting/audio-muted", s.control, `{"muted": true}`)
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPut, "/api/meeting/video-muted", s.control, `{"muted": true}`)
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPut, "/api/meeting/audio-only", s.control, `{"value": true}`)
	s.Equal(http.StatusOK, w.Code)

	state, err := s.host.Controller().State()
	s.Require().NoError(err)
	s.True(state.Media.AudioMuted)
	s.True(state.Media.VideoMuted)
	s.True(state.Media.AudioOnly)

	w, resp := s.do(http.MethodGet, "/api/meeting/rooms", s.observe, "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(resp, "rooms")

	w, _ = s.do(http.MethodPost, "/api/meeting/close", s.control, "")
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterTestSuite) TestBodyValidation() {
	s.mount()

	w, resp := s.do(http.MethodPut, "/api/meeting/audio-muted", s.control, `{}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.NotEmpty(resp["details"])

	w, _ = s.do(http.MethodPut, "/api/meeting/audio-only", s.control, `not json`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterTestSuite) TestSettings() {
	s.mount()
	s.Require().NotNil(s.host.Shell().Pending())
	res := s.host.Shell().Pending().Wait()
	s.Require().NoError(res.Err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/meeting/settings", nil)
	req.Header.Set("Authorization", "Bearer "+s.observe)
	s.router.Handler().ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code)

	var got SettingsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal("Standup", got.Title)
	s.Require().NotNil(got.Texts.MeetingTitle)
	s.Equal("Standup", *got.Texts.MeetingTitle)
	s.Nil(got.Texts.WaitingText)
	s.Equal(display.Bitrates{Min: 100, Std: 500, Max: 2000}, got.Bitrates)
}

func (s *RouterTestSuite) TestRateLimit() {
	s.setup(Options{RateLimit: 0.001, RateBurst: 1})

	w, _ := s.do(http.MethodPut, "/api/meeting/audio-muted", s.control, `{"muted": true}`)
	s.Equal(http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodPut, "/api/meeting/audio-muted", s.control, `{"muted": true}`)
	s.Equal(http.StatusTooManyRequests, w.Code)

	// reads are not limited
	w, _ = s.do(http.MethodGet, "/api/meeting/settings", s.observe, "")
	s.Equal(http.StatusOK, w.Code)
}

func TestEventStream(t *testing.T) {
	s := new(RouterTestSuite)
	s.SetT(t)
	s.SetupTest()

	srv := httptest.NewServer(s.router.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/meeting/events?token=" + s.observe
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return s.hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	s.mount()
	w, _ := s.do(http.MethodPut, "/api/meeting/audio-muted", s.control, `{"muted": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var ev Event
	require.NoError(t, wsjson.Read(ctx, conn, &ev))
	assert.Equal(t, meeting.EventAudioMutedChanged, ev.Name)
	assert.Equal(t, true, ev.Payload["muted"])
	assert.Equal(t, s.host.Shell().ID(), ev.Shell)
	assert.NotZero(t, ev.Time)
}

func TestEventStreamRequiresToken(t *testing.T) {
	s := new(RouterTestSuite)
	s.SetT(t)
	s.SetupTest()

	srv := httptest.NewServer(s.router.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/meeting/events"
	_, resp, err := websocket.Dial(ctx, wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
